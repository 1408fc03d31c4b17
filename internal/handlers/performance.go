package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/convoyhq/convoyops-backend/internal/analytics"
	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// PerformanceHandler exposes the performance analytics engine over HTTP
type PerformanceHandler struct {
	engine *analytics.Engine
}

// NewPerformanceHandler creates a new performance handler
func NewPerformanceHandler(engine *analytics.Engine) *PerformanceHandler {
	return &PerformanceHandler{
		engine: engine,
	}
}

// parseDateRange reads optional start/end query parameters (YYYY-MM-DD)
func parseDateRange(c *fiber.Ctx) (*models.DateRange, error) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	rng := &models.DateRange{}
	if startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, err
		}
		rng.StartDate = &start
	}
	if endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, err
		}
		rng.EndDate = &end
	}
	return rng, nil
}

// errorStatus maps engine errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidDateRange):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, analytics.ErrDataUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// GetUserPerformance returns one user's performance record, recomputing it
// when stale or when ?refresh=true is passed
func (h *PerformanceHandler) GetUserPerformance(c *fiber.Ctx) error {
	userID := c.Params("id")

	dateRange, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dates must be in YYYY-MM-DD format",
		})
	}

	record, err := h.engine.GetPerformance(userID, dateRange, c.QueryBool("refresh"))
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(record)
}

// ForceRefresh recomputes a user's performance record regardless of freshness
func (h *PerformanceHandler) ForceRefresh(c *fiber.Ctx) error {
	record, err := h.engine.GetPerformance(c.Params("id"), nil, true)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":     "Performance record refreshed",
		"performance": record,
	})
}

// Compare returns ranked performance records for a set of users, or for all
// active users of the role when no ids are given
func (h *PerformanceHandler) Compare(c *fiber.Ctx) error {
	role := models.Role(c.Query("role"))
	if !models.ValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role must be 'driver' or 'preparator'",
		})
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dates must be in YYYY-MM-DD format",
		})
	}

	var userIDs []string
	if ids := c.Query("ids"); ids != "" {
		userIDs = strings.Split(ids, ",")
	}

	records, err := h.engine.Compare(userIDs, role, dateRange)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":   len(records),
		"ranking": records,
	})
}

// Summary returns the fleet-wide aggregate view for one role
func (h *PerformanceHandler) Summary(c *fiber.Ctx) error {
	role := models.Role(c.Query("role"))
	if !models.ValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Role must be 'driver' or 'preparator'",
		})
	}

	dateRange, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dates must be in YYYY-MM-DD format",
		})
	}

	summary, err := h.engine.GlobalSummary(role, dateRange)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(summary)
}
