package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"
	"cobranca-backend/services"
	"cobranca-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentDTO struct {
	PaidAt time.Time `json:"paid_at"`
	Value  float64   `json:"value" validate:"omitempty,gt=0"`
}

// titleView decorates a title with its derived effective status, so clients
// see "overdue" without any background job mutating rows.
func titleView(t *models.Title) fiber.Map {
	return fiber.Map{
		"id":               t.Id,
		"contract_id":      t.ContractId,
		"document_number":  t.DocumentNumber,
		"our_number":       t.OurNumber,
		"amount":           t.Amount,
		"fine_percent":     t.FinePercent,
		"interest_percent": t.InterestPercent,
		"issue_date":       t.IssueDate.Format("2006-01-02"),
		"due_date":         t.DueDate.Format("2006-01-02"),
		"paid_date":        t.PaidDate,
		"paid_value":       t.PaidValue,
		"status":           t.EffectiveStatus(time.Now().UTC()),
	}
}

// POST /api/title
func CreateTitle(c *fiber.Ctx) error {
	var in services.TitleInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	title, err := services.CreateTitle(database.FromContext(c), in)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(titleView(title))
}

// GET /api/titles?contract_id=&status=
func GetTitles(c *fiber.Ctx) error {
	db := database.FromContext(c)

	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	q := db.Order("due_date DESC").Limit(limit).Offset(offset)
	if contractID := strings.TrimSpace(c.Query("contract_id")); contractID != "" {
		q = q.Where("contract_id = ?", contractID)
	}

	var titles []models.Title
	if err := q.Find(&titles).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	// Status filtering happens on the effective status so ?status=overdue
	// works even though overdue is never stored.
	filter := strings.TrimSpace(c.Query("status"))
	now := time.Now().UTC()
	out := make([]fiber.Map, 0, len(titles))
	for i := range titles {
		if filter != "" && titles[i].EffectiveStatus(now) != filter {
			continue
		}
		out = append(out, titleView(&titles[i]))
	}
	return c.JSON(out)
}

// GET /api/title/:id
func GetTitle(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var title models.Title
	if err := db.First(&title, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "title not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(titleView(&title))
}

// POST /api/title/:id/payment
func RegisterPayment(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid title id")
	}

	var in PaymentDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	title, err := services.RegisterPayment(database.FromContext(c), uint(id), in.PaidAt, in.Value)
	if err != nil {
		return err
	}
	return c.JSON(titleView(title))
}

// POST /api/title/:id/cancel
func CancelTitle(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid title id")
	}

	title, err := services.CancelTitle(database.FromContext(c), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(titleView(title))
}
