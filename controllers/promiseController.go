package controllers

import (
	"strconv"
	"strings"
	"time"

	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"
	"cobranca-backend/services"

	"github.com/gofiber/fiber/v2"
)

// POST /api/promise
func CreatePromise(c *fiber.Ctx) error {
	var in services.PromiseInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	promise, err := services.CreatePromise(database.FromContext(c), in)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(promise)
}

// GET /api/promises?client_id=&status=
func GetPromises(c *fiber.Ctx) error {
	db := database.FromContext(c)

	q := db.Order("promised_date DESC")
	if clientID := strings.TrimSpace(c.Query("client_id")); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var promises []models.PaymentPromise
	if err := q.Find(&promises).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(promises)
}

// POST /api/promise/:id/evaluate
func EvaluatePromise(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid promise id")
	}

	promise, err := services.EvaluatePromise(database.FromContext(c), uint(id), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(promise)
}
