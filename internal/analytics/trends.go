package analytics

import (
	"math"
	"time"

	"github.com/convoyhq/convoyops-backend/internal/models"
)

// Trend window lengths in days
const (
	weeklyWindowDays    = 7
	monthlyWindowDays   = 30
	quarterlyWindowDays = 90
)

// ComputeTrends derives the 7/30/90-day window summaries from an
// ascending-ordered list of daily metrics, with windows ending at now.
func ComputeTrends(daily []models.DailyMetric, now time.Time) models.Trends {
	return models.Trends{
		Weekly:    trendWindow(daily, now, weeklyWindowDays),
		Monthly:   trendWindow(daily, now, monthlyWindowDays),
		Quarterly: trendWindow(daily, now, quarterlyWindowDays),
	}
}

// trendWindow computes one lookback window. The average completion time is
// weighted by each day's completed-record volume. The growth rate is a coarse
// two-bucket comparison: the window is split at floor(n/2) and the completed
// counts of the two halves are compared; 0 whenever the first half is empty.
func trendWindow(daily []models.DailyMetric, now time.Time, days int) models.TrendWindow {
	cutoff := now.UTC().AddDate(0, 0, -days)

	var window []models.DailyMetric
	for _, day := range daily {
		if !day.Date.Before(cutoff) {
			window = append(window, day)
		}
	}
	if len(window) == 0 {
		return models.TrendWindow{}
	}

	var trend models.TrendWindow
	weighted := 0
	for _, day := range window {
		trend.RecordCount += day.CompletedRecords
		weighted += day.AverageCompletionTime * day.CompletedRecords
	}
	if trend.RecordCount > 0 {
		trend.AverageCompletionTime = int(math.Round(float64(weighted) / float64(trend.RecordCount)))
	}

	mid := len(window) / 2
	firstHalf, secondHalf := 0, 0
	for i, day := range window {
		if i < mid {
			firstHalf += day.CompletedRecords
		} else {
			secondHalf += day.CompletedRecords
		}
	}
	if firstHalf > 0 {
		trend.GrowthRate = int(math.Round(float64(secondHalf-firstHalf) / float64(firstHalf) * 100))
	}

	return trend
}
