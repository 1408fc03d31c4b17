package analytics

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

// ErrDataUnavailable wraps failures of the underlying activity/session source.
// The engine performs no retries; callers own user-facing messaging.
var ErrDataUnavailable = errors.New("activity data unavailable")

// DefaultStaleAfter is how long a persisted performance record stays fresh
const DefaultStaleAfter = 24 * time.Hour

// Engine orchestrates the full per-user computation: activity read, daily
// rollup, task metrics, completion rates, trends and score, persisting one
// PerformanceRecord per user. The engine is the only writer of that record.
type Engine struct {
	store      storage.Store
	staleAfter time.Duration
	now        func() time.Time

	// Concurrent recomputations for the same user collapse into a single run
	refresh singleflight.Group
}

// NewEngine creates a performance engine over the given store. A
// non-positive staleAfter falls back to DefaultStaleAfter.
func NewEngine(store storage.Store, staleAfter time.Duration) *Engine {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Engine{
		store:      store,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// GetPerformance returns the user's performance record, recomputing it when
// no persisted record exists, the persisted one is stale, or the caller
// forces a refresh. When the user has no activity at all, a request-scoped
// zero snapshot (NoData=true) is returned and nothing is persisted.
func (e *Engine) GetPerformance(userID string, dateRange *models.DateRange, forceRefresh bool) (*models.PerformanceRecord, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	if !forceRefresh {
		existing, err := e.store.GetPerformanceRecord(userID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: loading performance record: %v", ErrDataUnavailable, err)
		}
		if existing != nil && e.now().Sub(existing.LastUpdateDate) < e.staleAfter {
			return existing, nil
		}
	}

	result, err, _ := e.refresh.Do(userID, func() (interface{}, error) {
		return e.recompute(userID, dateRange)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.PerformanceRecord), nil
}

// recompute runs the full pipeline and persists the assembled record. No
// partial record is ever written: any read failure aborts before the save.
func (e *Engine) recompute(userID string, dateRange *models.DateRange) (*models.PerformanceRecord, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: loading user %s: %v", ErrDataUnavailable, userID, err)
	}

	records, err := e.store.GetActivities(userID, user.Role, dateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: loading activities for %s: %v", ErrDataUnavailable, userID, err)
	}

	now := e.now().UTC()
	if len(records) == 0 {
		return &models.PerformanceRecord{
			UserID:         userID,
			UserName:       user.Name,
			Role:           user.Role,
			LastUpdateDate: now,
			NoData:         true,
		}, nil
	}

	sessions, err := e.store.GetCompletedSessions(userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: loading sessions for %s: %v", ErrDataUnavailable, userID, err)
	}

	record := e.assemble(user, records, sessions, now)

	if err := e.store.SavePerformanceRecord(record); err != nil {
		return nil, fmt.Errorf("persisting performance record for %s: %w", userID, err)
	}
	return record, nil
}

// assemble builds a complete PerformanceRecord from the raw inputs. Every
// derived structure is computed wholesale; nothing is patched incrementally.
func (e *Engine) assemble(user *models.User, records []models.ActivityRecord, sessions []models.WorkSession, now time.Time) *models.PerformanceRecord {
	daily := BuildDailyMetrics(records, sessions)

	completed := 0
	for i := range records {
		if records[i].Status == models.StatusCompleted {
			completed++
		}
	}

	keys := models.TaskKeys(user.Role)
	taskMetrics := make(map[models.TaskType]models.TaskMetric, len(keys))
	for _, key := range keys {
		taskMetrics[key] = TaskMetrics(records, key)
	}

	var completionRates map[models.TaskType]int
	if user.Role == models.RolePreparator {
		completionRates = make(map[models.TaskType]int, len(models.PreparationTaskTypes))
		for _, key := range models.PreparationTaskTypes {
			completionRates[key] = CompletionRate(records, key)
		}
	}

	avgPerDay := 0.0
	if len(daily) > 0 {
		avgPerDay = float64(len(records)) / float64(len(daily))
	}

	record := &models.PerformanceRecord{
		UserID:               user.UserID,
		UserName:             user.Name,
		Role:                 user.Role,
		TotalRecords:         len(records),
		CompletedRecords:     completed,
		AverageRecordsPerDay: avgPerDay,
		TaskMetrics:          taskMetrics,
		CompletionRates:      completionRates,
		DailyMetrics:         daily,
		Trends:               ComputeTrends(daily, now),
		LastUpdateDate:       now,
	}

	record.PerformanceScore = ComputeScore(ScoreInputs{
		Role:                 user.Role,
		TotalRecords:         record.TotalRecords,
		AverageRecordsPerDay: record.AverageRecordsPerDay,
		CompletionRates:      record.CompletionRates,
		TaskMetrics:          record.TaskMetrics,
	})

	return record
}
