package middlewares

import (
	"log"

	"cobranca-backend/database"

	"github.com/gofiber/fiber/v2"
)

// Tx opens a per-request DB transaction shared by the whole handler chain.
// Order: run AFTER IsAuthenticated() and AFTER Idempotency() (idempotency
// records must not be tied to the handler TX). Commit on success, rollback
// on error or panic — batch endpoints (remittance build, return apply) rely
// on this boundary for their all-or-nothing guarantee.
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.FromContext(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
