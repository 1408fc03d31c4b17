package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// DatabaseStore implements Store on top of PostgreSQL via gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (d *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := d.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (d *DatabaseStore) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := d.db.Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := d.db.Where("phone = ?", phone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DatabaseStore) GetUsersByRole(role models.Role) ([]*models.User, error) {
	var users []*models.User
	err := d.db.
		Where("role = ? AND is_active = ?", role, true).
		Order("user_id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Activity operations

func (d *DatabaseStore) CreateActivity(record *models.ActivityRecord) (*models.ActivityRecord, error) {
	if err := d.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (d *DatabaseStore) GetActivity(recordID string) (*models.ActivityRecord, error) {
	var record models.ActivityRecord
	err := d.db.Where("record_id = ?", recordID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (d *DatabaseStore) UpdateActivity(record *models.ActivityRecord) error {
	return d.db.Save(record).Error
}

func (d *DatabaseStore) GetActivities(userID string, role models.Role, dateRange *models.DateRange) ([]models.ActivityRecord, error) {
	query := d.db.Where("role = ?", role)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	start, end := dateRange.Bounds()
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at <= ?", *end)
	}

	var records []models.ActivityRecord
	if err := query.Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Work session operations

func (d *DatabaseStore) CreateSession(session *models.WorkSession) (*models.WorkSession, error) {
	if err := d.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (d *DatabaseStore) GetSession(sessionID string) (*models.WorkSession, error) {
	var session models.WorkSession
	err := d.db.Where("session_id = ?", sessionID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DatabaseStore) UpdateSession(session *models.WorkSession) error {
	return d.db.Save(session).Error
}

func (d *DatabaseStore) GetActiveSession(userID string) (*models.WorkSession, error) {
	var session models.WorkSession
	err := d.db.
		Where("user_id = ? AND status = ?", userID, models.SessionStatusActive).
		Order("start_time desc").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DatabaseStore) GetCompletedSessions(userID string, dateRange *models.DateRange) ([]models.WorkSession, error) {
	query := d.db.Where("status = ?", models.SessionStatusCompleted)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	start, end := dateRange.Bounds()
	if start != nil {
		query = query.Where("start_time >= ?", *start)
	}
	if end != nil {
		query = query.Where("start_time <= ?", *end)
	}

	var sessions []models.WorkSession
	if err := query.Order("start_time asc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// Performance operations

func (d *DatabaseStore) GetPerformanceRecord(userID string) (*models.PerformanceRecord, error) {
	var record models.PerformanceRecord
	err := d.db.Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SavePerformanceRecord upserts the snapshot by user id. The stored row is
// replaced wholesale; derived arrays are never appended to.
func (d *DatabaseStore) SavePerformanceRecord(record *models.PerformanceRecord) error {
	var existing models.PerformanceRecord
	err := d.db.Where("user_id = ?", record.UserID).First(&existing).Error
	if err == nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return d.db.Save(record).Error
}
