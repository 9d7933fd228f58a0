package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/analytics"
	"travelapi/internal/repository"
	"travelapi/internal/schema"
	"travelapi/internal/service"
)

// Dependencies are the collaborators the HTTP routes need.
type Dependencies struct {
	DB        *sql.DB
	Registry  *schema.Registry
	Records   service.RecordService
	Signup    service.SignupService
	Analytics *analytics.Recorder
	Counters  repository.AnalyticsRepository
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", LivenessProbe())

	app.Get("/schemas", ListSchemas(deps.Registry))
	app.Get("/schemas/:entity", GetSchema(deps.Registry))

	records := app.Group("/records")
	records.Get("/:entity", ListRecords(deps.Records))
	records.Post("/:entity", CreateRecord(deps.Records))
	records.Post("/:entity/bulk", CreateRecords(deps.Records))
	records.Get("/:entity/:id", GetRecord(deps.Records))
	records.Delete("/:entity/:id", DeleteRecord(deps.Records))

	app.Post("/auth/signup", Signup(deps.Signup))

	if deps.Analytics != nil {
		app.Get("/analytics/counters", AnalyticsCounters(deps.Analytics, deps.Counters))
	}
}
