package middlewares

import (
	"net/http/httptest"
	"testing"

	"cobranca-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, fiber.StatusNotFound},
		{"duplicate config", services.ErrDuplicateConfig, fiber.StatusConflict},
		{"duplicate document number", services.ErrDuplicateDocumentNumber, fiber.StatusConflict},
		{"duplicate our number", services.ErrDuplicateOurNumber, fiber.StatusConflict},
		{"invalid transition", services.ErrInvalidTransition, fiber.StatusUnprocessableEntity},
		{"validation", services.ErrValidation, fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/boom", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestErrorHandlerSanitizesUnknownErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
