package controllers

import (
	"errors"
	"strings"

	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"
	"cobranca-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlanCreateDTO struct {
	Name            string  `json:"name" validate:"required,min=1"`
	MonthlyPrice    float64 `json:"monthly_price" validate:"required,gt=0"`
	DownloadMbps    int     `json:"download_mbps" validate:"omitempty,gt=0"`
	UploadMbps      int     `json:"upload_mbps" validate:"omitempty,gt=0"`
	FinePercent     float64 `json:"fine_percent" validate:"gte=0,lte=100"`
	InterestPercent float64 `json:"interest_percent" validate:"gte=0,lte=100"`
}

type PlanUpdateDTO struct {
	Name            *string  `json:"name" validate:"omitempty,min=1"`
	MonthlyPrice    *float64 `json:"monthly_price" validate:"omitempty,gt=0"`
	DownloadMbps    *int     `json:"download_mbps" validate:"omitempty,gt=0"`
	UploadMbps      *int     `json:"upload_mbps" validate:"omitempty,gt=0"`
	FinePercent     *float64 `json:"fine_percent" validate:"omitempty,gte=0,lte=100"`
	InterestPercent *float64 `json:"interest_percent" validate:"omitempty,gte=0,lte=100"`
	Active          *bool    `json:"active"`
}

// POST /api/plan
func CreatePlan(c *fiber.Ctx) error {
	var in PlanCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.FromContext(c)

	plan := models.Plan{
		Name:            in.Name,
		MonthlyPrice:    in.MonthlyPrice,
		DownloadMbps:    in.DownloadMbps,
		UploadMbps:      in.UploadMbps,
		FinePercent:     in.FinePercent,
		InterestPercent: in.InterestPercent,
		Active:          true,
	}
	if err := db.Create(&plan).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create plan")
	}
	return c.Status(201).JSON(plan)
}

// GET /api/plans
func GetPlans(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var plans []models.Plan
	if err := db.Order("name").Find(&plans).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(plans)
}

// PUT /api/plan/:id
// Fine/interest edits only affect titles issued afterwards; existing titles
// keep their snapshotted percentages.
func UpdatePlan(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing plan id in path")
	}

	var in PlanUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db := database.FromContext(c)

	var existing models.Plan
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "plan not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := db.Model(&models.Plan{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update plan")
		}
	}

	var out models.Plan
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload plan")
	}
	return c.JSON(out)
}
