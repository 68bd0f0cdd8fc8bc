package controllers

import (
	"bytes"
	"encoding/json"
	"errors"

	"cobranca-backend/cnab"
	"cobranca-backend/database"
	"cobranca-backend/middlewares"
	"cobranca-backend/models"
	"cobranca-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RemittanceBuildDTO struct {
	TitleIds []uint `json:"title_ids" validate:"required,min=1,dive,required"`
}

// POST /api/remittance
// The build runs in its own transaction inside the service, on top of the
// request TX handle, so a failed batch leaves every title untouched.
func BuildRemittance(c *fiber.Ctx) error {
	var in RemittanceBuildDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	rem, err := services.BuildRemittance(database.FromContext(c), in.TitleIds)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(rem)
}

// GET /api/remittances
func GetRemittances(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var rems []models.Remittance
	if err := db.Order("sequence DESC").Find(&rems).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(rems)
}

// GET /api/remittance/:id
func GetRemittance(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var rem models.Remittance
	if err := db.Preload("Items").First(&rem, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "remittance not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(rem)
}

// GET /api/remittance/:id/file
// Serves the CNAB remessa file for the batch, rebuilt from the snapshotted
// item values (what was sent, not what the titles look like today).
func DownloadRemittanceFile(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var rem models.Remittance
	if err := db.Preload("Items").First(&rem, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "remittance not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}

	details := make([]cnab.RemessaDetail, 0, len(rem.Items))
	for i := range rem.Items {
		var snap models.Title
		if err := json.Unmarshal(rem.Items[i].Snapshot, &snap); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "corrupt remittance snapshot")
		}
		details = append(details, cnab.RemessaDetail{
			OurNumber:      snap.OurNumber,
			DocumentNumber: snap.DocumentNumber,
			Value:          rem.Items[i].Value,
			DueDate:        snap.DueDate,
		})
	}

	content := cnab.EncodeRemessa(cnab.RemessaHeader{
		Sequence:    rem.Sequence,
		CompanyName: "COBRANCA BACKEND",
		GeneratedAt: rem.GeneratedAt,
	}, details)

	c.Set(fiber.HeaderContentType, "text/plain; charset=ascii")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rem.FileName+`"`)
	return c.SendString(content)
}

// POST /api/return-file
// Accepts a raw CNAB retorno upload and applies it atomically.
func UploadReturnFile(c *fiber.Ctx) error {
	fileName := c.Get("X-File-Name", "RETORNO.RET")

	details, err := cnab.ParseRetorno(bytes.NewReader(c.Body()))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "could not parse retorno: "+err.Error())
	}

	items := make([]services.ReturnItemInput, 0, len(details))
	for _, d := range details {
		status := ""
		switch {
		case d.Settled():
			status = models.ReturnPaid
		case d.Rejected():
			status = models.ReturnRejected
		default:
			// confirmations and other occurrences carry no state change
			continue
		}
		items = append(items, services.ReturnItemInput{
			OurNumber:  d.OurNumber,
			Status:     status,
			Value:      d.Value,
			OccurredAt: d.OccurredAt,
			RawLine:    d.Raw,
		})
	}

	rf, err := services.ApplyReturnFile(database.FromContext(c), fileName, items)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(rf)
}

// GET /api/return-files
func GetReturnFiles(c *fiber.Ctx) error {
	db := database.FromContext(c)

	var files []models.ReturnFile
	if err := db.Preload("Items").Order("id DESC").Find(&files).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	return c.JSON(files)
}
