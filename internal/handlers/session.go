package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// SessionHandler handles work-session clock-in/clock-out requests
type SessionHandler struct {
	store storage.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(store storage.Store) *SessionHandler {
	return &SessionHandler{
		store: store,
	}
}

// ClockIn opens a work session for the user
func (h *SessionHandler) ClockIn(c *fiber.Ctx) error {
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	user, err := h.store.GetUser(body.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	// One active session per user
	if existing, err := h.store.GetActiveSession(user.UserID); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "User already has an active session",
			"session": existing,
		})
	}

	session := &models.WorkSession{
		UserID:    user.UserID,
		Role:      user.Role,
		StartTime: time.Now().UTC(),
		Status:    models.SessionStatusActive,
	}

	created, err := h.store.CreateSession(session)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Clocked in",
		"session": created,
	})
}

// ClockOut completes the session
func (h *SessionHandler) ClockOut(c *fiber.Ctx) error {
	session, err := h.store.GetSession(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}
	if session.Status != models.SessionStatusActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Session is already completed",
		})
	}

	now := time.Now().UTC()
	session.EndTime = &now
	session.Status = models.SessionStatusCompleted

	if err := h.store.UpdateSession(session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to end session",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Clocked out",
		"session": session,
	})
}
