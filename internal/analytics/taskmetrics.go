package analytics

import (
	"math"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// TaskMetrics computes count/total/average/min/max durations for one
// task/segment key over a list of activity records. Only records whose
// sub-record for the key reached "completed" contribute to Count; durations
// of 0 (missing or inverted timestamps) stay in Count but are excluded from
// the total, average, min and max.
func TaskMetrics(records []models.ActivityRecord, key models.TaskType) models.TaskMetric {
	var metric models.TaskMetric
	considered := 0

	for i := range records {
		task, ok := records[i].Task(key)
		if !ok || task.Status != models.StatusCompleted {
			continue
		}
		metric.Count++

		d := DurationMinutes(task.StartedAt, task.CompletedAt)
		if d <= 0 {
			continue
		}

		metric.TotalDuration += d
		if considered == 0 || d < metric.MinDuration {
			metric.MinDuration = d
		}
		if d > metric.MaxDuration {
			metric.MaxDuration = d
		}
		considered++
	}

	if considered > 0 {
		metric.AverageDuration = int(math.Round(float64(metric.TotalDuration) / float64(considered)))
	}
	return metric
}

// CompletionRate returns the percentage of records whose sub-record for the
// key reached "completed", rounded, against the full record count.
func CompletionRate(records []models.ActivityRecord, key models.TaskType) int {
	if len(records) == 0 {
		return 0
	}
	completed := 0
	for i := range records {
		if task, ok := records[i].Task(key); ok && task.Status == models.StatusCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(records)) * 100))
}
