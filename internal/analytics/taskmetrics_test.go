package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// prepRecord builds a preparation record with the given task entries
func prepRecord(userID string, createdAt time.Time, status string, tasks models.TaskSet) models.ActivityRecord {
	record := models.ActivityRecord{
		UserID: userID,
		Role:   models.RolePreparator,
		Status: status,
		Tasks:  tasks,
	}
	record.CreatedAt = createdAt
	return record
}

// completedTask builds a completed task entry of the given length in minutes
func completedTask(start time.Time, minutes int) models.TaskEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return models.TaskEntry{
		Status:      models.StatusCompleted,
		StartedAt:   &start,
		CompletedAt: &end,
	}
}

func TestTaskMetricsSingleCompletedTask(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.ActivityRecord{
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskExteriorWashing: completedTask(start, 18),
		}),
	}

	metric := TaskMetrics(records, models.TaskExteriorWashing)

	assert.Equal(t, models.TaskMetric{
		Count:           1,
		TotalDuration:   18,
		AverageDuration: 18,
		MinDuration:     18,
		MaxDuration:     18,
	}, metric)
}

func TestTaskMetricsEmptyRecords(t *testing.T) {
	metric := TaskMetrics(nil, models.TaskRefueling)
	assert.Equal(t, models.TaskMetric{}, metric)
}

func TestTaskMetricsSkipsIncompleteTasks(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.ActivityRecord{
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskParking: {Status: models.StatusInProgress, StartedAt: &start},
		}),
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskParking: completedTask(start, 5),
		}),
	}

	metric := TaskMetrics(records, models.TaskParking)

	assert.Equal(t, 1, metric.Count)
	assert.Equal(t, 5, metric.TotalDuration)
}

func TestTaskMetricsZeroDurationCountedButNotAveraged(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.ActivityRecord{
		// Completed but missing the completion timestamp: counts, no duration
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskRefueling: {Status: models.StatusCompleted, StartedAt: &start},
		}),
		// Inverted timestamps: counts, no duration
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskRefueling: {
				Status:      models.StatusCompleted,
				StartedAt:   &start,
				CompletedAt: timePtr(start.Add(-10 * time.Minute)),
			},
		}),
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskRefueling: completedTask(start, 12),
		}),
	}

	metric := TaskMetrics(records, models.TaskRefueling)

	assert.Equal(t, 3, metric.Count)
	assert.Equal(t, 12, metric.TotalDuration)
	assert.Equal(t, 12, metric.AverageDuration)
	assert.Equal(t, 12, metric.MinDuration)
	assert.Equal(t, 12, metric.MaxDuration)
}

func TestTaskMetricsMinMaxAverage(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	records := []models.ActivityRecord{
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskInteriorCleaning: completedTask(start, 10),
		}),
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskInteriorCleaning: completedTask(start, 30),
		}),
		prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskInteriorCleaning: completedTask(start, 21),
		}),
	}

	metric := TaskMetrics(records, models.TaskInteriorCleaning)

	require.Equal(t, 3, metric.Count)
	assert.Equal(t, 61, metric.TotalDuration)
	assert.Equal(t, 20, metric.AverageDuration) // round(61/3)
	assert.Equal(t, 10, metric.MinDuration)
	assert.Equal(t, 30, metric.MaxDuration)
}

func TestTaskMetricsDriverMovementSegment(t *testing.T) {
	departure := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	arrival := departure.Add(95 * time.Minute)

	record := models.ActivityRecord{
		UserID:        "DRV00001",
		Role:          models.RoleDriver,
		Status:        models.StatusCompleted,
		DepartureTime: &departure,
		ArrivalTime:   &arrival,
	}

	metric := TaskMetrics([]models.ActivityRecord{record}, models.TaskMovement)
	assert.Equal(t, 1, metric.Count)
	assert.Equal(t, 95, metric.AverageDuration)

	// Preparation keys never match a driver record
	assert.Equal(t, models.TaskMetric{}, TaskMetrics([]models.ActivityRecord{record}, models.TaskParking))
}

func TestCompletionRateBounds(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var records []models.ActivityRecord
	for i := 0; i < 3; i++ {
		records = append(records, prepRecord("PRP00001", start, models.StatusCompleted, models.TaskSet{
			models.TaskExteriorWashing: completedTask(start, 10),
		}))
	}
	// A record whose washing never completed still counts in the denominator
	records = append(records, prepRecord("PRP00001", start, models.StatusInProgress, models.TaskSet{
		models.TaskExteriorWashing: {Status: models.StatusPending},
	}))

	rate := CompletionRate(records, models.TaskExteriorWashing)
	assert.Equal(t, 75, rate)
	assert.GreaterOrEqual(t, rate, 0)
	assert.LessOrEqual(t, rate, 100)

	assert.Equal(t, 0, CompletionRate(nil, models.TaskExteriorWashing))
}
