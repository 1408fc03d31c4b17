package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// MemoryStore holds all data in memory (testing and local development)
type MemoryStore struct {
	users       map[string]*models.User
	activities  map[string]*models.ActivityRecord
	sessions    map[string]*models.WorkSession
	performance map[string]*models.PerformanceRecord

	// Mutexes for thread safety
	userMu        sync.RWMutex
	activityMu    sync.RWMutex
	sessionMu     sync.RWMutex
	performanceMu sync.RWMutex

	// Counters for ID generation
	userCounter     int
	activityCounter int
	sessionCounter  int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*models.User),
		activities:  make(map[string]*models.ActivityRecord),
		sessions:    make(map[string]*models.WorkSession),
		performance: make(map[string]*models.PerformanceRecord),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if user.UserID == "" {
		m.userCounter++
		prefix := "DRV"
		if user.Role == models.RolePreparator {
			prefix = "PRP"
		}
		user.UserID = fmt.Sprintf("%s%05d", prefix, m.userCounter)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = time.Now().UTC()
	user.IsActive = true

	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUser(userID string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, user := range m.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUsersByRole(role models.Role) ([]*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	var users []*models.User
	for _, user := range m.users {
		if user.Role == role && user.IsActive {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// Activity operations

func (m *MemoryStore) CreateActivity(record *models.ActivityRecord) (*models.ActivityRecord, error) {
	m.activityMu.Lock()
	defer m.activityMu.Unlock()

	if record.RecordID == "" {
		m.activityCounter++
		prefix := "MOV"
		if record.Role == models.RolePreparator {
			prefix = "PRE"
		}
		record.RecordID = fmt.Sprintf("%s%05d", prefix, m.activityCounter)
	}
	if record.Role == models.RolePreparator && record.Tasks == nil {
		record.Tasks = make(models.TaskSet, len(models.PreparationTaskTypes))
		for _, t := range models.PreparationTaskTypes {
			record.Tasks[t] = models.TaskEntry{Status: models.StatusPending}
		}
	}
	if record.Status == "" {
		record.Status = models.StatusPending
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()

	m.activities[record.RecordID] = record
	return record, nil
}

func (m *MemoryStore) GetActivity(recordID string) (*models.ActivityRecord, error) {
	m.activityMu.RLock()
	defer m.activityMu.RUnlock()

	record, exists := m.activities[recordID]
	if !exists {
		return nil, ErrNotFound
	}
	return record, nil
}

func (m *MemoryStore) UpdateActivity(record *models.ActivityRecord) error {
	m.activityMu.Lock()
	defer m.activityMu.Unlock()

	if _, exists := m.activities[record.RecordID]; !exists {
		return ErrNotFound
	}
	record.UpdatedAt = time.Now().UTC()
	m.activities[record.RecordID] = record
	return nil
}

func (m *MemoryStore) GetActivities(userID string, role models.Role, dateRange *models.DateRange) ([]models.ActivityRecord, error) {
	m.activityMu.RLock()
	defer m.activityMu.RUnlock()

	start, end := dateRange.Bounds()

	var records []models.ActivityRecord
	for _, record := range m.activities {
		if record.Role != role {
			continue
		}
		if userID != "" && record.UserID != userID {
			continue
		}
		if start != nil && record.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && record.CreatedAt.After(*end) {
			continue
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return records, nil
}

// Work session operations

func (m *MemoryStore) CreateSession(session *models.WorkSession) (*models.WorkSession, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if session.SessionID == "" {
		m.sessionCounter++
		session.SessionID = fmt.Sprintf("WS%05d", m.sessionCounter)
	}
	if session.Status == "" {
		session.Status = models.SessionStatusActive
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()

	m.sessions[session.SessionID] = session
	return session, nil
}

func (m *MemoryStore) GetSession(sessionID string) (*models.WorkSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, ErrNotFound
	}
	return session, nil
}

func (m *MemoryStore) UpdateSession(session *models.WorkSession) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return ErrNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	m.sessions[session.SessionID] = session
	return nil
}

func (m *MemoryStore) GetActiveSession(userID string) (*models.WorkSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	for _, session := range m.sessions {
		if session.UserID == userID && session.Status == models.SessionStatusActive {
			return session, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetCompletedSessions(userID string, dateRange *models.DateRange) ([]models.WorkSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	start, end := dateRange.Bounds()

	var sessions []models.WorkSession
	for _, session := range m.sessions {
		if session.Status != models.SessionStatusCompleted {
			continue
		}
		if userID != "" && session.UserID != userID {
			continue
		}
		if start != nil && session.StartTime.Before(*start) {
			continue
		}
		if end != nil && session.StartTime.After(*end) {
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartTime.Before(sessions[j].StartTime) })
	return sessions, nil
}

// Performance operations

func (m *MemoryStore) GetPerformanceRecord(userID string) (*models.PerformanceRecord, error) {
	m.performanceMu.RLock()
	defer m.performanceMu.RUnlock()

	record, exists := m.performance[userID]
	if !exists {
		return nil, ErrNotFound
	}

	// Return a copy so callers cannot mutate the stored snapshot
	out := *record
	return &out, nil
}

func (m *MemoryStore) SavePerformanceRecord(record *models.PerformanceRecord) error {
	m.performanceMu.Lock()
	defer m.performanceMu.Unlock()

	if existing, exists := m.performance[record.UserID]; exists {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()

	stored := *record
	m.performance[record.UserID] = &stored
	return nil
}
