// Package analytics turns raw activity and work-session records into per-user
// daily rollups, trend windows, completion rates and a composite performance
// score. All calendar-day grouping uses UTC day boundaries regardless of the
// user's local timezone.
package analytics

import (
	"math"
	"time"
)

// DurationMinutes converts a (start, end) timestamp pair into a non-negative
// whole-minute duration. Returns 0 if either timestamp is absent or if end
// precedes start (clock skew guard).
func DurationMinutes(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	minutes := int(math.Round(end.Sub(*start).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}
