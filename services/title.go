package services

import (
	"errors"
	"strings"
	"time"

	"cobranca-backend/models"

	"gorm.io/gorm"
)

// TitleInput is the creation DTO for a billing title.
type TitleInput struct {
	ContractId     uint      `json:"contract_id" validate:"required"`
	DocumentNumber string    `json:"document_number" validate:"required,max=32"`
	OurNumber      string    `json:"our_number" validate:"required,max=32"`
	Amount         float64   `json:"amount" validate:"required,gt=0"`
	IssueDate      time.Time `json:"issue_date"`
	// DueDate is optional; when zero it is resolved through the due-day
	// config cascade from IssueDate.
	DueDate time.Time `json:"due_date"`
}

// CreateTitle issues a new title for a contract. Fine and interest come from
// the contract override when present, else the plan defaults, frozen onto the
// title so later plan edits never touch it. Call inside the request
// transaction.
func CreateTitle(db *gorm.DB, in TitleInput) (*models.Title, error) {
	var contract models.Contract
	err := db.Preload("Plan").First(&contract, in.ContractId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("contract", in.ContractId)
		}
		return nil, err
	}

	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}

	dueDate := in.DueDate
	if dueDate.IsZero() {
		dueDate, err = ResolveDueDate(db, contract.ClientId, contract.PlanId, issueDate)
		if err != nil {
			return nil, err
		}
	}

	fine := contract.Plan.FinePercent
	if contract.FinePercent != nil {
		fine = *contract.FinePercent
	}
	interest := contract.Plan.InterestPercent
	if contract.InterestPercent != nil {
		interest = *contract.InterestPercent
	}

	title := models.Title{
		ContractId:      contract.Id,
		DocumentNumber:  strings.TrimSpace(in.DocumentNumber),
		OurNumber:       strings.TrimSpace(in.OurNumber),
		Amount:          in.Amount,
		FinePercent:     fine,
		InterestPercent: interest,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Status:          models.TitleOpen,
	}

	// Fail fast on number collisions with a typed error instead of leaking
	// the driver's constraint message.
	var clash int64
	if err := db.Model(&models.Title{}).Where("document_number = ?", title.DocumentNumber).Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash > 0 {
		return nil, ErrDuplicateDocumentNumber
	}
	if err := db.Model(&models.Title{}).Where("our_number = ?", title.OurNumber).Count(&clash).Error; err != nil {
		return nil, err
	}
	if clash > 0 {
		return nil, ErrDuplicateOurNumber
	}

	if err := db.Create(&title).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the race to another inserter; report the right collision.
			if err2 := db.Model(&models.Title{}).Where("document_number = ?", title.DocumentNumber).Count(&clash).Error; err2 == nil && clash > 0 {
				return nil, ErrDuplicateDocumentNumber
			}
			return nil, ErrDuplicateOurNumber
		}
		return nil, err
	}
	return &title, nil
}

// RegisterPayment settles a title. Accepted from open or in_remittance
// (a teller can register a payment the bank hasn't reported yet); anything
// else is an invalid transition. paid_date is set together with the status,
// never independently.
func RegisterPayment(db *gorm.DB, titleID uint, paidAt time.Time, value float64) (*models.Title, error) {
	var title models.Title
	if err := db.First(&title, titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("title", titleID)
		}
		return nil, err
	}

	if title.Status != models.TitleOpen && title.Status != models.TitleInRemittance {
		return nil, invalidTransition(title.Id, title.Status, models.TitlePaid)
	}

	paidDate := paidAt
	if paidDate.IsZero() {
		paidDate = time.Now().UTC()
	}
	if value == 0 {
		value = title.Amount
	}

	title.Status = models.TitlePaid
	title.PaidDate = &paidDate
	title.PaidValue = &value
	if err := db.Model(&title).Select("status", "paid_date", "paid_value").Updates(&title).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// CancelTitle voids an unpaid title. Titles in a live remittance cannot be
// cancelled until the bank returns them; paid and cancelled are terminal.
func CancelTitle(db *gorm.DB, titleID uint) (*models.Title, error) {
	var title models.Title
	if err := db.First(&title, titleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("title", titleID)
		}
		return nil, err
	}

	if title.Status != models.TitleOpen {
		return nil, invalidTransition(title.Id, title.Status, models.TitleCancelled)
	}

	title.Status = models.TitleCancelled
	if err := db.Model(&title).Select("status").Updates(&title).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// ListTitlesByContract returns a contract's titles newest first.
func ListTitlesByContract(db *gorm.DB, contractID uint) ([]models.Title, error) {
	var titles []models.Title
	err := db.Where("contract_id = ?", contractID).Order("due_date DESC").Find(&titles).Error
	return titles, err
}
