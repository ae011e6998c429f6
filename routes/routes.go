package routes

import (
	"github.com/gofiber/fiber/v2"

	"resmall-api-server/controllers"
	"resmall-api-server/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, jobs *controllers.JobController, schedules *controllers.ScheduleController) {
	// Public health probe
	app.Get("/health", schedules.Health)

	// Everything else requires executor credentials
	protected := app.Group("")
	protected.Use(middlewares.BasicAuth())

	protected.Get("/issue", jobs.Issue)

	protected.Post("/execute", jobs.Execute)
	protected.Post("/execute/:id", jobs.ExecuteOne)

	protected.Post("/job", schedules.Create)
	protected.Delete("/job", schedules.Delete)
}
