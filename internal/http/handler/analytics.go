package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/analytics"
	"travelapi/internal/repository"
)

// AnalyticsCounters godoc
// @Summary  Read the persisted analytics counters
// @Tags     analytics
// @Produce  json
// @Success  200  {object}  map[string]int64
// @Failure  500  {object}  errorPayload
// @Router   /analytics/counters [get]
func AnalyticsCounters(rec *analytics.Recorder, repo repository.AnalyticsRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counters, err := rec.Snapshot(c.UserContext(), repo)
		if errors.Is(err, repository.ErrNotFound) {
			counters = map[string]int64{}
		} else if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"id": rec.ID(), "counters": counters})
	}
}
