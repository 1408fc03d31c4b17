package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestDurationMinutes(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  int
	}{
		{"both present", timePtr(base), timePtr(base.Add(18 * time.Minute)), 18},
		{"missing start", nil, timePtr(base), 0},
		{"missing end", timePtr(base), nil, 0},
		{"both missing", nil, nil, 0},
		{"end before start never negative", timePtr(base), timePtr(base.Add(-30 * time.Minute)), 0},
		{"rounds to nearest minute", timePtr(base), timePtr(base.Add(90 * time.Second)), 2},
		{"rounds down below half", timePtr(base), timePtr(base.Add(80 * time.Second)), 1},
		{"zero span", timePtr(base), timePtr(base), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMinutes(tt.start, tt.end))
		})
	}
}
