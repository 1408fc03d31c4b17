package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// ActivityHandler handles movement and preparation record intake
type ActivityHandler struct {
	store storage.Store
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(store storage.Store) *ActivityHandler {
	return &ActivityHandler{
		store: store,
	}
}

// CreateActivity opens a new movement (driver) or preparation (preparator)
// record for the user
func (h *ActivityHandler) CreateActivity(c *fiber.Ctx) error {
	var record models.ActivityRecord

	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if record.UserID == "" || record.VehicleNo == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID and vehicle number are required",
		})
	}

	// Role comes from the identity record, not the payload
	user, err := h.store.GetUser(record.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	record.Role = user.Role
	record.Status = models.StatusPending

	created, err := h.store.CreateActivity(&record)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create activity record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Activity record created",
		"activity": created,
	})
}

// GetActivity retrieves one activity record by ID
func (h *ActivityHandler) GetActivity(c *fiber.Ctx) error {
	record, err := h.store.GetActivity(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity record not found",
		})
	}
	return c.JSON(record)
}

// Depart stamps the departure time on a movement record
func (h *ActivityHandler) Depart(c *fiber.Ctx) error {
	record, err := h.store.GetActivity(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity record not found",
		})
	}
	if record.Role != models.RoleDriver {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only movement records have a departure",
		})
	}

	now := time.Now().UTC()
	record.DepartureTime = &now
	record.Status = models.StatusInProgress

	if err := h.store.UpdateActivity(record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update activity record",
		})
	}
	return c.JSON(record)
}

// Arrive stamps the arrival time and completes a movement record
func (h *ActivityHandler) Arrive(c *fiber.Ctx) error {
	record, err := h.store.GetActivity(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity record not found",
		})
	}
	if record.Role != models.RoleDriver {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only movement records have an arrival",
		})
	}

	now := time.Now().UTC()
	record.ArrivalTime = &now
	record.Status = models.StatusCompleted

	if err := h.store.UpdateActivity(record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update activity record",
		})
	}
	return c.JSON(record)
}

// UpdateTask starts or completes one preparation task on a record.
// Action comes from the request body: {"action": "start"} or {"action": "complete"}.
func (h *ActivityHandler) UpdateTask(c *fiber.Ctx) error {
	record, err := h.store.GetActivity(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity record not found",
		})
	}
	if record.Role != models.RolePreparator {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only preparation records have tasks",
		})
	}

	key := models.TaskType(c.Params("task"))
	entry, ok := record.Tasks[key]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown task type",
		})
	}

	var body struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	now := time.Now().UTC()
	switch body.Action {
	case "start":
		entry.Status = models.StatusInProgress
		entry.StartedAt = &now
		if record.StartedAt == nil {
			record.StartedAt = &now
		}
		if record.Status == models.StatusPending {
			record.Status = models.StatusInProgress
		}
	case "complete":
		entry.Status = models.StatusCompleted
		entry.CompletedAt = &now
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Action must be 'start' or 'complete'",
		})
	}
	record.Tasks[key] = entry

	if err := h.store.UpdateActivity(record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}
	return c.JSON(record)
}

// CompleteActivity closes a preparation record
func (h *ActivityHandler) CompleteActivity(c *fiber.Ctx) error {
	record, err := h.store.GetActivity(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Activity record not found",
		})
	}
	if record.Role != models.RolePreparator {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Movement records complete on arrival",
		})
	}

	now := time.Now().UTC()
	record.CompletedAt = &now
	record.Status = models.StatusCompleted

	if err := h.store.UpdateActivity(record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update activity record",
		})
	}
	return c.JSON(record)
}
