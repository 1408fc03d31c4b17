package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

func completedSession(userID string, start time.Time, hours int) models.WorkSession {
	end := start.Add(time.Duration(hours) * time.Hour)
	return models.WorkSession{
		UserID:    userID,
		StartTime: start,
		EndTime:   &end,
		Status:    models.SessionStatusCompleted,
	}
}

func TestBuildDailyMetricsEmptyInput(t *testing.T) {
	assert.Empty(t, BuildDailyMetrics(nil, nil))
}

func TestBuildDailyMetricsProductivity(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	workStart := day.Add(8 * time.Hour)

	// 10 records that day, 4 completed
	var records []models.ActivityRecord
	for i := 0; i < 10; i++ {
		status := models.StatusInProgress
		tasks := models.TaskSet{}
		if i < 4 {
			status = models.StatusCompleted
			tasks[models.TaskExteriorWashing] = completedTask(workStart, 20)
		}
		record := prepRecord("PRP00001", day.Add(time.Duration(9+i)*time.Minute), status, tasks)
		if i < 4 {
			record.StartedAt = &workStart
			record.CompletedAt = timePtr(workStart.Add(45 * time.Minute))
		}
		records = append(records, record)
	}

	// One 08:00-16:00 session
	sessions := []models.WorkSession{completedSession("PRP00001", workStart, 8)}

	metrics := BuildDailyMetrics(records, sessions)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, day, m.Date)
	assert.Equal(t, 10, m.TotalRecords)
	assert.Equal(t, 4, m.CompletedRecords)
	assert.Equal(t, 45, m.AverageCompletionTime)
	assert.Equal(t, 8.0, m.WorkingHours)
	assert.Equal(t, 0.5, m.Productivity)
	assert.Equal(t, 4, m.TaskMetrics[models.TaskExteriorWashing].Count)
}

func TestBuildDailyMetricsGroupsByUTCDay(t *testing.T) {
	// 23:30 UTC and 00:30 UTC the next day land on different rollup days
	lateNight := time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)
	earlyMorning := time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC)

	// A record created in a +05:00 zone groups by its UTC day, not the local one
	local := time.Date(2025, 3, 2, 3, 0, 0, 0, time.FixedZone("UTC+5", 5*3600)) // 2025-03-01T22:00Z

	records := []models.ActivityRecord{
		prepRecord("PRP00001", lateNight, models.StatusCompleted, models.TaskSet{}),
		prepRecord("PRP00001", earlyMorning, models.StatusCompleted, models.TaskSet{}),
		prepRecord("PRP00001", local, models.StatusCompleted, models.TaskSet{}),
	}

	metrics := BuildDailyMetrics(records, nil)
	require.Len(t, metrics, 2)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), metrics[0].Date)
	assert.Equal(t, 2, metrics[0].TotalRecords)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), metrics[1].Date)
	assert.Equal(t, 1, metrics[1].TotalRecords)
}

func TestBuildDailyMetricsSessionOnlyDay(t *testing.T) {
	workStart := time.Date(2025, 3, 12, 6, 0, 0, 0, time.UTC)
	sessions := []models.WorkSession{completedSession("DRV00001", workStart, 4)}

	metrics := BuildDailyMetrics(nil, sessions)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, 0, m.TotalRecords)
	assert.Equal(t, 4.0, m.WorkingHours)
	assert.Equal(t, 0.0, m.Productivity)
	assert.Nil(t, m.TaskMetrics)
}

func TestBuildDailyMetricsIgnoresActiveSessions(t *testing.T) {
	workStart := time.Date(2025, 3, 12, 6, 0, 0, 0, time.UTC)
	sessions := []models.WorkSession{
		{UserID: "DRV00001", StartTime: workStart, Status: models.SessionStatusActive},
	}

	assert.Empty(t, BuildDailyMetrics(nil, sessions))
}

func TestBuildDailyMetricsSortedAscending(t *testing.T) {
	day1 := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC)

	records := []models.ActivityRecord{
		prepRecord("PRP00001", day2, models.StatusCompleted, models.TaskSet{}),
		prepRecord("PRP00001", day1, models.StatusCompleted, models.TaskSet{}),
		prepRecord("PRP00001", day3, models.StatusCompleted, models.TaskSet{}),
	}

	metrics := BuildDailyMetrics(records, nil)
	require.Len(t, metrics, 3)
	for i := 1; i < len(metrics); i++ {
		assert.True(t, metrics[i-1].Date.Before(metrics[i].Date))
	}
}

func TestBuildDailyMetricsDriverHasNoTaskBreakdown(t *testing.T) {
	departure := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	record := models.ActivityRecord{
		UserID:        "DRV00001",
		Role:          models.RoleDriver,
		Status:        models.StatusCompleted,
		DepartureTime: &departure,
		ArrivalTime:   timePtr(departure.Add(time.Hour)),
	}
	record.CreatedAt = departure

	metrics := BuildDailyMetrics([]models.ActivityRecord{record}, nil)
	require.Len(t, metrics, 1)
	assert.Nil(t, metrics[0].TaskMetrics)
	assert.Equal(t, 60, metrics[0].AverageCompletionTime)
}
