package controllers

import (
	"errors"
	"strings"

	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClientCreateDTO struct {
	Name        string `json:"name" validate:"required,min=1"`
	Document    string `json:"document" validate:"required,min=11,max=14,numeric"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty"`
	Address     string `json:"address" validate:"required,min=1"`
	City        string `json:"city" validate:"required,min=1"`
	State       string `json:"state" validate:"required,len=2"`
	Zip         string `json:"zip" validate:"required,min=1"`
}

type ClientUpdateDTO struct {
	Name        string `json:"name" validate:"omitempty,min=1"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty"`
	Address     string `json:"address" validate:"omitempty"`
	City        string `json:"city" validate:"omitempty"`
	State       string `json:"state" validate:"omitempty,len=2"`
	Zip         string `json:"zip" validate:"omitempty"`
}

// POST /api/client
func CreateClient(c *fiber.Ctx) error {
	var in ClientCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.FromContext(c)

	client := models.Client{
		Name:        strings.TrimSpace(in.Name),
		Document:    strings.TrimSpace(in.Document),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.ToUpper(strings.TrimSpace(in.State)),
		Zip:         strings.TrimSpace(in.Zip),
		Active:      true,
	}

	if err := db.Create(&client).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create client")
	}
	return c.JSON(client)
}

// GET /api/clients
func GetClients(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var clients []models.Client
	if err := db.Order("name").Find(&clients).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(clients)
}

// GET /api/client/:id
func GetClient(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var client models.Client
	if err := db.First(&client, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(client)
}

// PUT /api/client/:id
func UpdateClient(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing client id in path")
	}

	var in ClientUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.FromContext(c)

	// Ensure exists
	var existing models.Client
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "client not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	updates := map[string]interface{}{}
	if s := strings.TrimSpace(in.Name); s != "" {
		updates["name"] = s
	}
	if s := strings.TrimSpace(in.Email); s != "" {
		updates["email"] = s
	}
	if s := strings.TrimSpace(in.PhoneNumber); s != "" {
		updates["phone_number"] = s
	}
	if s := strings.TrimSpace(in.Address); s != "" {
		updates["address"] = s
	}
	if s := strings.TrimSpace(in.City); s != "" {
		updates["city"] = s
	}
	if s := strings.ToUpper(strings.TrimSpace(in.State)); s != "" {
		updates["state"] = s
	}
	if s := strings.TrimSpace(in.Zip); s != "" {
		updates["zip"] = s
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Client{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update client")
		}
	}

	var out models.Client
	if err := db.First(&out, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reload client")
	}
	return c.JSON(out)
}
