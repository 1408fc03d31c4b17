package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Work session status constants
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// WorkSession records one clock-in/clock-out span for a user
type WorkSession struct {
	gorm.Model

	SessionID string     `json:"session_id" gorm:"uniqueIndex"`
	UserID    string     `json:"user_id" gorm:"index"`
	Role      Role       `json:"role"`
	StartTime time.Time  `json:"start_time" gorm:"index"`
	EndTime   *time.Time `json:"end_time,omitempty"`  // nil while the session is active
	Status    string     `json:"status" gorm:"index"` // "active" or "completed"
}

// BeforeCreate hook to auto-generate SessionID
func (s *WorkSession) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("WS-%s", uuid.NewString())
	}
	if s.Status == "" {
		s.Status = SessionStatusActive
	}
	return nil
}
