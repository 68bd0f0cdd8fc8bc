package controllers

import (
	"errors"
	"strconv"
	"strings"

	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"
	"cobranca-backend/services"
	"cobranca-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ContractCreateDTO struct {
	ClientId        uint     `json:"client_id" validate:"required"`
	PlanId          uint     `json:"plan_id" validate:"required"`
	Description     string   `json:"description" validate:"omitempty"`
	FinePercent     *float64 `json:"fine_percent" validate:"omitempty,gte=0,lte=100"`
	InterestPercent *float64 `json:"interest_percent" validate:"omitempty,gte=0,lte=100"`
}

type ContractUpdateDTO struct {
	Description     *string  `json:"description" validate:"omitempty"`
	FinePercent     *float64 `json:"fine_percent" validate:"omitempty,gte=0,lte=100"`
	InterestPercent *float64 `json:"interest_percent" validate:"omitempty,gte=0,lte=100"`
	Active          *bool    `json:"active"`
}

// POST /api/contract
func CreateContract(c *fiber.Ctx) error {
	var in ContractCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.FromContext(c)

	var client models.Client
	if err := db.First(&client, in.ClientId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	var plan models.Plan
	if err := db.First(&plan, in.PlanId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "plan not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	contract := models.Contract{
		ClientId:        in.ClientId,
		PlanId:          in.PlanId,
		Description:     strings.TrimSpace(in.Description),
		FinePercent:     in.FinePercent,
		InterestPercent: in.InterestPercent,
		Active:          true,
	}
	if err := db.Create(&contract).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create contract")
	}

	db.Preload("Client").Preload("Plan").First(&contract, contract.Id)
	return c.Status(201).JSON(contract)
}

// GET /api/contracts
func GetContracts(c *fiber.Ctx) error {
	db := database.FromContext(c)

	q := db.Preload("Client").Preload("Plan").Order("id DESC")
	if clientID := strings.TrimSpace(c.Query("client_id")); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var contracts []models.Contract
	if err := q.Find(&contracts).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(contracts)
}

// GET /api/contract/:id
func GetContract(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var contract models.Contract
	err := db.Preload("Client").Preload("Plan").First(&contract, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contract not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(contract)
}

// GET /api/contract/:id/titles
func GetContractTitles(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid contract id")
	}

	db := database.FromContext(c)

	var contract models.Contract
	if err := db.First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contract not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	titles, err := services.ListTitlesByContract(db, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	out := make([]fiber.Map, 0, len(titles))
	for i := range titles {
		out = append(out, titleView(&titles[i]))
	}
	return c.JSON(out)
}

// PUT /api/contract/:id
func UpdateContract(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing contract id in path")
	}

	var in ContractUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db := database.FromContext(c)

	var existing models.Contract
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contract not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) > 0 {
		if err := db.Model(&models.Contract{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update contract")
		}
	}

	var out models.Contract
	if err := db.Preload("Client").Preload("Plan").First(&out, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload contract")
	}
	return c.JSON(out)
}
