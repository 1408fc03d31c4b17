package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrInvalidDateRange is returned when a range's end date precedes its start date
var ErrInvalidDateRange = errors.New("end date is before start date")

// DateRange bounds a query window. Both ends are optional; EndDate is
// inclusive through the last millisecond of that day.
type DateRange struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// Validate fails fast on an inverted range. A nil range or a half-open range
// is always valid.
func (r *DateRange) Validate() error {
	if r == nil || r.StartDate == nil || r.EndDate == nil {
		return nil
	}
	if r.EndDate.Before(*r.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Bounds returns the effective query bounds in UTC. The end bound is pushed
// to 23:59:59.999 of the end date so the day is included whole.
func (r *DateRange) Bounds() (start, end *time.Time) {
	if r == nil {
		return nil, nil
	}
	if r.StartDate != nil {
		s := r.StartDate.UTC()
		start = &s
	}
	if r.EndDate != nil {
		d := r.EndDate.UTC()
		e := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999_000_000, time.UTC)
		end = &e
	}
	return start, end
}

// TaskMetric aggregates completed durations for one task/segment key.
// All durations are whole minutes.
type TaskMetric struct {
	Count           int `json:"count"`
	TotalDuration   int `json:"total_duration"`
	AverageDuration int `json:"average_duration"`
	MinDuration     int `json:"min_duration"`
	MaxDuration     int `json:"max_duration"`
}

// DailyMetric is the per-user rollup for one UTC calendar day
type DailyMetric struct {
	Date                  time.Time               `json:"date"`
	TotalRecords          int                     `json:"total_records"`
	CompletedRecords      int                     `json:"completed_records"`
	AverageCompletionTime int                     `json:"average_completion_time"` // minutes
	TaskMetrics           map[TaskType]TaskMetric `json:"task_metrics,omitempty"`
	WorkingHours          float64                 `json:"working_hours"`
	Productivity          float64                 `json:"productivity"` // completed records per worked hour
}

// TrendWindow summarizes a fixed lookback window
type TrendWindow struct {
	RecordCount           int `json:"record_count"`
	AverageCompletionTime int `json:"average_completion_time"` // minutes, weighted by day volume
	GrowthRate            int `json:"growth_rate"`             // percent, first half vs second half
}

// Trends holds the 7/30/90-day windows
type Trends struct {
	Weekly    TrendWindow `json:"weekly"`
	Monthly   TrendWindow `json:"monthly"`
	Quarterly TrendWindow `json:"quarterly"`
}

// PerformanceRecord is the persisted per-user analytics snapshot. The derived
// structures are fully replaced on every recomputation, never appended to.
type PerformanceRecord struct {
	gorm.Model

	UserID   string `json:"user_id" gorm:"uniqueIndex"`
	UserName string `json:"user_name"`
	Role     Role   `json:"role" gorm:"index"`

	TotalRecords         int     `json:"total_records"`
	CompletedRecords     int     `json:"completed_records"`
	AverageRecordsPerDay float64 `json:"average_records_per_day"`

	TaskMetrics     map[TaskType]TaskMetric `json:"task_metrics" gorm:"serializer:json"`
	CompletionRates map[TaskType]int        `json:"completion_rates,omitempty" gorm:"serializer:json"` // percent, preparator only
	DailyMetrics    []DailyMetric           `json:"daily_metrics" gorm:"serializer:json"`

	PerformanceScore int       `json:"performance_score"` // 0-100 composite
	Trends           Trends    `json:"trends" gorm:"serializer:json"`
	LastUpdateDate   time.Time `json:"last_update_date"`

	// NoData marks a request-scoped zero snapshot that was never persisted,
	// distinguishing "never computed" from "computed and genuinely empty".
	NoData bool `json:"no_data,omitempty" gorm:"-"`
}

// TopPerformer identifies the best user in a fleet summary
type TopPerformer struct {
	UserID           string `json:"user_id"`
	Name             string `json:"name,omitempty"`
	PerformanceScore int    `json:"performance_score,omitempty"`
	CompletedRecords int    `json:"completed_records"`
}

// FleetSummary aggregates all completed activity of one role in a range
type FleetSummary struct {
	Role             Role             `json:"role"`
	TotalRecords     int              `json:"total_records"`
	UserCount        int              `json:"user_count"`
	AverageDurations map[TaskType]int `json:"average_durations"` // minutes per task/segment key
	TopPerformer     *TopPerformer    `json:"top_performer,omitempty"`
	TaskDistribution map[TaskType]int `json:"task_distribution,omitempty"` // percent share, preparator only
	GeneratedAt      time.Time        `json:"generated_at"`
}
