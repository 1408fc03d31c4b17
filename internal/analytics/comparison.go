package analytics

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// Compare runs the orchestrator over a set of users and returns their
// performance records ranked by score. An empty userIDs resolves to all
// active users of the role. Per-user read failures are skipped so one broken
// user never aborts the batch.
func (e *Engine) Compare(userIDs []string, role models.Role, dateRange *models.DateRange) ([]*models.PerformanceRecord, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	if len(userIDs) == 0 {
		users, err := e.store.GetUsersByRole(role)
		if err != nil {
			return nil, fmt.Errorf("%w: listing %s users: %v", ErrDataUnavailable, role, err)
		}
		for _, user := range users {
			userIDs = append(userIDs, user.UserID)
		}
	}

	// Each user only touches their own record, so the fan-out is safe
	results := make([]*models.PerformanceRecord, 0, len(userIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, userID := range userIDs {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			record, err := e.GetPerformance(userID, dateRange, false)
			if err != nil {
				log.Printf("Compare: skipping user %s: %v", userID, err)
				return
			}
			mu.Lock()
			results = append(results, record)
			mu.Unlock()
		}(userID)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].PerformanceScore != results[j].PerformanceScore {
			return results[i].PerformanceScore > results[j].PerformanceScore
		}
		return results[i].UserID < results[j].UserID
	})
	return results, nil
}

// GlobalSummary computes fleet-wide aggregates over all completed activity of
// one role in the range, independently of the per-user records.
func (e *Engine) GlobalSummary(role models.Role, dateRange *models.DateRange) (*models.FleetSummary, error) {
	if err := dateRange.Validate(); err != nil {
		return nil, err
	}

	records, err := e.store.GetActivities("", role, dateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s activities: %v", ErrDataUnavailable, role, err)
	}

	summary := &models.FleetSummary{
		Role:             role,
		TotalRecords:     len(records),
		AverageDurations: make(map[models.TaskType]int),
		GeneratedAt:      e.now().UTC(),
	}

	completedByUser := make(map[string]int)
	seen := make(map[string]struct{})
	for i := range records {
		seen[records[i].UserID] = struct{}{}
		if records[i].Status == models.StatusCompleted {
			completedByUser[records[i].UserID]++
		}
	}
	summary.UserCount = len(seen)

	for _, key := range models.TaskKeys(role) {
		summary.AverageDurations[key] = TaskMetrics(records, key).AverageDuration
	}

	if role == models.RolePreparator {
		summary.TaskDistribution = taskDistribution(records)
		summary.TopPerformer = e.topPerformerByScore(sortedKeys(seen), dateRange)
	} else {
		summary.TopPerformer = e.topPerformerByCount(completedByUser)
	}

	return summary, nil
}

// taskDistribution returns each task type's rounded percentage share of the
// completed-task counts across all records.
func taskDistribution(records []models.ActivityRecord) map[models.TaskType]int {
	counts := make(map[models.TaskType]int, len(models.PreparationTaskTypes))
	total := 0
	for _, key := range models.PreparationTaskTypes {
		count := TaskMetrics(records, key).Count
		counts[key] = count
		total += count
	}

	distribution := make(map[models.TaskType]int, len(counts))
	for key, count := range counts {
		if total > 0 {
			distribution[key] = int(math.Round(float64(count) / float64(total) * 100))
		} else {
			distribution[key] = 0
		}
	}
	return distribution
}

// topPerformerByScore picks the user with the highest performance score,
// skipping users whose computation fails (collect-what-you-can).
func (e *Engine) topPerformerByScore(userIDs []string, dateRange *models.DateRange) *models.TopPerformer {
	var top *models.TopPerformer
	for _, userID := range userIDs {
		record, err := e.GetPerformance(userID, dateRange, false)
		if err != nil {
			log.Printf("GlobalSummary: skipping user %s: %v", userID, err)
			continue
		}
		if top == nil || record.PerformanceScore > top.PerformanceScore {
			top = &models.TopPerformer{
				UserID:           record.UserID,
				Name:             record.UserName,
				PerformanceScore: record.PerformanceScore,
				CompletedRecords: record.CompletedRecords,
			}
		}
	}
	return top
}

// topPerformerByCount picks the driver with the highest raw completed-record
// count. Kept deliberately different from the preparator selection; it is
// unclear which of the two was intended as canonical.
func (e *Engine) topPerformerByCount(completedByUser map[string]int) *models.TopPerformer {
	var top *models.TopPerformer
	for _, userID := range sortedKeys(completedByUser) {
		count := completedByUser[userID]
		if top == nil || count > top.CompletedRecords {
			top = &models.TopPerformer{UserID: userID, CompletedRecords: count}
		}
	}
	if top != nil {
		if user, err := e.store.GetUser(top.UserID); err == nil {
			top.Name = user.Name
		}
	}
	return top
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
