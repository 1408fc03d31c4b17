package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// utcDay truncates a timestamp to its UTC calendar day
func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildDailyMetrics groups activity records by the UTC calendar day of their
// creation, joins them with worked hours from completed sessions grouped by
// start day, and emits one DailyMetric per day present in either grouping,
// sorted ascending by date. Days with no activity and no sessions are never
// materialized.
func BuildDailyMetrics(records []models.ActivityRecord, sessions []models.WorkSession) []models.DailyMetric {
	recordsByDay := make(map[time.Time][]models.ActivityRecord)
	for _, record := range records {
		day := utcDay(record.CreatedAt)
		recordsByDay[day] = append(recordsByDay[day], record)
	}

	hoursByDay := make(map[time.Time]float64)
	for i := range sessions {
		if sessions[i].Status != models.SessionStatusCompleted {
			continue
		}
		day := utcDay(sessions[i].StartTime)
		hoursByDay[day] += float64(DurationMinutes(&sessions[i].StartTime, sessions[i].EndTime)) / 60
	}

	days := make(map[time.Time]struct{}, len(recordsByDay)+len(hoursByDay))
	for day := range recordsByDay {
		days[day] = struct{}{}
	}
	for day := range hoursByDay {
		days[day] = struct{}{}
	}

	metrics := make([]models.DailyMetric, 0, len(days))
	for day := range days {
		metrics = append(metrics, buildDay(day, recordsByDay[day], hoursByDay[day]))
	}

	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Date.Before(metrics[j].Date) })
	return metrics
}

func buildDay(day time.Time, records []models.ActivityRecord, workingHours float64) models.DailyMetric {
	metric := models.DailyMetric{
		Date:         day,
		TotalRecords: len(records),
		WorkingHours: workingHours,
	}

	// Average completion time over records with a usable start/end window
	totalMinutes := 0
	considered := 0
	for i := range records {
		if records[i].Status == models.StatusCompleted {
			metric.CompletedRecords++
		}
		start, end := records[i].CompletionWindow()
		if d := DurationMinutes(start, end); d > 0 {
			totalMinutes += d
			considered++
		}
	}
	if considered > 0 {
		metric.AverageCompletionTime = int(math.Round(float64(totalMinutes) / float64(considered)))
	}

	// Per-task metrics only exist for preparation records
	if len(records) > 0 && records[0].Role == models.RolePreparator {
		metric.TaskMetrics = make(map[models.TaskType]models.TaskMetric, len(models.PreparationTaskTypes))
		for _, key := range models.PreparationTaskTypes {
			metric.TaskMetrics[key] = TaskMetrics(records, key)
		}
	}

	if workingHours > 0 {
		metric.Productivity = float64(metric.CompletedRecords) / workingHours
	}
	return metric
}
