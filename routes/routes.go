package routes

import (
	"github.com/gofiber/fiber/v2"

	"cobranca-backend/controllers"
	"cobranca-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticated())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.Tx())

	// Clients
	protected.Post("/client", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/client/:id", controllers.GetClient)
	protected.Put("/client/:id", controllers.UpdateClient)

	// Plans
	protected.Post("/plan", controllers.CreatePlan)
	protected.Get("/plans", controllers.GetPlans)
	protected.Put("/plan/:id", controllers.UpdatePlan)

	// Contracts
	protected.Post("/contract", controllers.CreateContract)
	protected.Get("/contracts", controllers.GetContracts)
	protected.Get("/contract/:id", controllers.GetContract)
	protected.Get("/contract/:id/titles", controllers.GetContractTitles)
	protected.Put("/contract/:id", controllers.UpdateContract)

	// Due-date configs (client > plan > global cascade)
	protected.Post("/due-date-config", controllers.CreateDueDateConfig)
	protected.Get("/due-date-configs", controllers.GetDueDateConfigs)
	protected.Delete("/due-date-config/:id", controllers.DeactivateDueDateConfig)
	protected.Get("/due-date/resolve", controllers.ResolveDueDate)

	// Titles (billing obligations)
	protected.Post("/title", controllers.CreateTitle)
	protected.Get("/titles", controllers.GetTitles)
	protected.Get("/title/:id", controllers.GetTitle)
	protected.Post("/title/:id/payment", controllers.RegisterPayment)
	protected.Post("/title/:id/cancel", controllers.CancelTitle)

	// Remittances and bank return files
	protected.Post("/remittance", controllers.BuildRemittance)
	protected.Get("/remittances", controllers.GetRemittances)
	protected.Get("/remittance/:id", controllers.GetRemittance)
	protected.Get("/remittance/:id/file", controllers.DownloadRemittanceFile)
	protected.Post("/return-file", controllers.UploadReturnFile)
	protected.Get("/return-files", controllers.GetReturnFiles)

	// Payment promises
	protected.Post("/promise", controllers.CreatePromise)
	protected.Get("/promises", controllers.GetPromises)
	protected.Post("/promise/:id/evaluate", controllers.EvaluatePromise)
}
