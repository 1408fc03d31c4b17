package storage

import (
	"errors"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUser(userID string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUsersByRole(role models.Role) ([]*models.User, error)

	// Activity operations. GetActivities returns records ordered by creation
	// time ascending; an empty userID means all users of the role.
	CreateActivity(record *models.ActivityRecord) (*models.ActivityRecord, error)
	GetActivity(recordID string) (*models.ActivityRecord, error)
	UpdateActivity(record *models.ActivityRecord) error
	GetActivities(userID string, role models.Role, dateRange *models.DateRange) ([]models.ActivityRecord, error)

	// Work session operations. GetCompletedSessions returns sessions ordered
	// by start time ascending.
	CreateSession(session *models.WorkSession) (*models.WorkSession, error)
	GetSession(sessionID string) (*models.WorkSession, error)
	UpdateSession(session *models.WorkSession) error
	GetActiveSession(userID string) (*models.WorkSession, error)
	GetCompletedSessions(userID string, dateRange *models.DateRange) ([]models.WorkSession, error)

	// Performance operations (engine-owned snapshot, upserted by user)
	GetPerformanceRecord(userID string) (*models.PerformanceRecord, error)
	SavePerformanceRecord(record *models.PerformanceRecord) error
}
