package analytics

import (
	"math"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// Score factor weights
const (
	completionWeight = 0.3
	efficiencyWeight = 0.4
	volumeWeight     = 0.3
)

// ScoreInputs is the fully-populated metrics bundle for one user
type ScoreInputs struct {
	Role                 models.Role
	TotalRecords         int
	AverageRecordsPerDay float64
	CompletionRates      map[models.TaskType]int
	TaskMetrics          map[models.TaskType]models.TaskMetric
}

// ComputeScore synthesizes the 0-100 composite performance score from
// completion rates, the duration-spread efficiency figure and volume.
//
// The efficiency factor rewards a narrow spread between the fastest and
// slowest task type, not absolute speed. Report consumers compare against the
// historical figure, so the formula is kept as-is; whether it was intended is
// an open product question.
func ComputeScore(in ScoreInputs) int {
	if in.TotalRecords == 0 {
		return 0
	}

	// Completion factor: mean of the per-task completion rates. Driver
	// records have no per-task rates, so the factor is pinned at 100.
	avgCompletionRate := 100.0
	if in.Role == models.RolePreparator && len(in.CompletionRates) > 0 {
		sum := 0
		for _, rate := range in.CompletionRates {
			sum += rate
		}
		avgCompletionRate = float64(sum) / float64(len(in.CompletionRates))
	}

	// Efficiency factor: 100 - (min/max * 100) over the average durations of
	// task types with at least one completed record; 0 when none qualify.
	efficiencyScore := 0.0
	minDur, maxDur := 0, 0
	qualifying := 0
	for _, metric := range in.TaskMetrics {
		if metric.Count == 0 {
			continue
		}
		if qualifying == 0 || metric.AverageDuration < minDur {
			minDur = metric.AverageDuration
		}
		if metric.AverageDuration > maxDur {
			maxDur = metric.AverageDuration
		}
		qualifying++
	}
	if qualifying > 0 && maxDur > 0 {
		efficiencyScore = 100 - float64(minDur)/float64(maxDur)*100
	}

	volumeScore := math.Min(100, in.AverageRecordsPerDay*20)

	score := completionWeight*avgCompletionRate + efficiencyWeight*efficiencyScore + volumeWeight*volumeScore
	return int(math.Round(score))
}
