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

// POST /api/due-date-config
func CreateDueDateConfig(c *fiber.Ctx) error {
	var in services.DueDateConfigInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	cfg, err := services.CreateDueDateConfig(database.FromContext(c), in)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(cfg)
}

// GET /api/due-date-configs
func GetDueDateConfigs(c *fiber.Ctx) error {
	db := database.FromContext(c)

	q := db.Order("id DESC")
	if c.QueryBool("active_only", false) {
		q = q.Where("is_active = ?", true)
	}

	var configs []models.DueDateConfig
	if err := q.Find(&configs).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	out := make([]fiber.Map, 0, len(configs))
	for i := range configs {
		out = append(out, fiber.Map{
			"id":        configs[i].Id,
			"client_id": configs[i].ClientId,
			"plan_id":   configs[i].PlanId,
			"due_day":   configs[i].DueDay,
			"is_active": configs[i].IsActive,
			"priority":  configs[i].Scope(),
		})
	}
	return c.JSON(out)
}

// DELETE /api/due-date-config/:id (deactivate, never hard-delete)
func DeactivateDueDateConfig(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid config id")
	}

	cfg, err := services.DeactivateDueDateConfig(database.FromContext(c), uint(id))
	if err != nil {
		return err
	}
	return c.JSON(cfg)
}

// GET /api/due-date/resolve?client_id=&plan_id=&base_date=2024-01-15
// Preview of the due date the next billing cycle would assign.
func ResolveDueDate(c *fiber.Ctx) error {
	clientID, err := strconv.Atoi(c.Query("client_id", "0"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client_id")
	}
	planID, err := strconv.Atoi(c.Query("plan_id", "0"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid plan_id")
	}

	baseDate := time.Now().UTC()
	if raw := strings.TrimSpace(c.Query("base_date")); raw != "" {
		baseDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "base_date must be YYYY-MM-DD")
		}
	}

	db := database.FromContext(c)
	day, scope, err := services.ResolveDueDay(db, uint(clientID), uint(planID))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"due_day":  day,
		"priority": scope,
		"due_date": services.NextDueDate(baseDate, day).Format("2006-01-02"),
	})
}
