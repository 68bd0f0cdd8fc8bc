package services

import (
	"errors"
	"time"

	"cobranca-backend/models"

	"gorm.io/gorm"
)

// PromiseInput is the creation DTO for a payment promise.
type PromiseInput struct {
	ClientId     uint      `json:"client_id" validate:"required"`
	TitleId      *uint     `json:"title_id"`
	PromisedDate time.Time `json:"promised_date" validate:"required"`
	Note         string    `json:"note"`
}

// CreatePromise records an open promise, optionally pinned to one title.
func CreatePromise(db *gorm.DB, in PromiseInput) (*models.PaymentPromise, error) {
	var client models.Client
	if err := db.First(&client, in.ClientId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("client", in.ClientId)
		}
		return nil, err
	}
	if in.TitleId != nil {
		var title models.Title
		if err := db.First(&title, *in.TitleId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("title", *in.TitleId)
			}
			return nil, err
		}
	}

	promise := models.PaymentPromise{
		ClientId:     in.ClientId,
		TitleId:      in.TitleId,
		PromisedDate: in.PromisedDate,
		Status:       models.PromiseOpen,
		Note:         in.Note,
	}
	if err := db.Create(&promise).Error; err != nil {
		return nil, err
	}
	return &promise, nil
}

// EvaluatePromise settles an open promise against reality: kept when the
// covered debt was paid by the promised date, broken once the date passes
// unpaid, still open otherwise. The outcome is persisted so collection
// follow-ups can filter on it.
func EvaluatePromise(db *gorm.DB, promiseID uint, today time.Time) (*models.PaymentPromise, error) {
	var promise models.PaymentPromise
	if err := db.First(&promise, promiseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("payment promise", promiseID)
		}
		return nil, err
	}
	if promise.Status != models.PromiseOpen {
		return &promise, nil
	}

	paidBy, err := promisePaidBy(db, &promise)
	if err != nil {
		return nil, err
	}

	var status string
	switch {
	case paidBy != nil && !paidBy.After(promise.PromisedDate):
		status = models.PromiseKept
	case today.After(promise.PromisedDate):
		status = models.PromiseBroken
	default:
		return &promise, nil
	}

	now := time.Now().UTC()
	promise.Status = status
	promise.ResolvedAt = &now
	if err := db.Model(&promise).Select("status", "resolved_at").Updates(&promise).Error; err != nil {
		return nil, err
	}
	return &promise, nil
}

// promisePaidBy finds the settlement date the promise is judged against:
// the linked title's paid_date, or for general promises the latest paid_date
// across the client's titles once none remain open.
func promisePaidBy(db *gorm.DB, promise *models.PaymentPromise) (*time.Time, error) {
	if promise.TitleId != nil {
		var title models.Title
		if err := db.First(&title, *promise.TitleId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil // title purged; judge by date alone
			}
			return nil, err
		}
		if title.Status == models.TitlePaid {
			return title.PaidDate, nil
		}
		return nil, nil
	}

	var open int64
	err := db.Model(&models.Title{}).
		Joins("JOIN contracts ON contracts.id = titles.contract_id").
		Where("contracts.client_id = ?", promise.ClientId).
		Where("titles.status IN ?", []string{models.TitleOpen, models.TitleInRemittance}).
		Count(&open).Error
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, nil
	}

	var title models.Title
	err = db.Model(&models.Title{}).
		Joins("JOIN contracts ON contracts.id = titles.contract_id").
		Where("contracts.client_id = ?", promise.ClientId).
		Where("titles.status = ?", models.TitlePaid).
		Order("titles.paid_date DESC").
		First(&title).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return title.PaidDate, nil
}
