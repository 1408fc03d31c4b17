package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeValidate(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	var nilRange *DateRange
	assert.NoError(t, nilRange.Validate())
	assert.NoError(t, (&DateRange{StartDate: &start}).Validate())
	assert.NoError(t, (&DateRange{EndDate: &end}).Validate())
	assert.NoError(t, (&DateRange{StartDate: &start, EndDate: &end}).Validate())

	assert.ErrorIs(t, (&DateRange{StartDate: &end, EndDate: &start}).Validate(), ErrInvalidDateRange)
}

func TestDateRangeBoundsEndOfDay(t *testing.T) {
	end := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	_, bound := (&DateRange{EndDate: &end}).Bounds()
	require.NotNil(t, bound)
	assert.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, 999_000_000, time.UTC), *bound)

	var nilRange *DateRange
	start, bound := nilRange.Bounds()
	assert.Nil(t, start)
	assert.Nil(t, bound)
}

func TestActivityRecordTaskLookup(t *testing.T) {
	departure := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	arrival := departure.Add(time.Hour)

	driver := ActivityRecord{
		Role:          RoleDriver,
		Status:        StatusCompleted,
		DepartureTime: &departure,
		ArrivalTime:   &arrival,
	}

	segment, ok := driver.Task(TaskMovement)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, segment.Status)
	assert.Equal(t, &departure, segment.StartedAt)

	_, ok = driver.Task(TaskRefueling)
	assert.False(t, ok)

	preparation := ActivityRecord{
		Role: RolePreparator,
		Tasks: TaskSet{
			TaskParking: {Status: StatusCompleted},
		},
	}

	entry, ok := preparation.Task(TaskParking)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, entry.Status)

	_, ok = preparation.Task(TaskMovement)
	assert.False(t, ok)
}
