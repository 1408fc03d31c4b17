package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity status constants
const (
	StatusPending    = "pending"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// TaskType is a task/segment key: a preparation task type for preparators,
// or the movement leg for drivers.
type TaskType string

const (
	TaskExteriorWashing  TaskType = "exteriorWashing"
	TaskInteriorCleaning TaskType = "interiorCleaning"
	TaskRefueling        TaskType = "refueling"
	TaskParking          TaskType = "parking"

	// TaskMovement is the single segment key used for driver records
	TaskMovement TaskType = "movement"
)

// PreparationTaskTypes lists the fixed preparation task types in a stable order
var PreparationTaskTypes = []TaskType{
	TaskExteriorWashing,
	TaskInteriorCleaning,
	TaskRefueling,
	TaskParking,
}

// TaskEntry tracks one preparation task inside an activity record
type TaskEntry struct {
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskSet maps task type to its entry, stored as a JSON column
type TaskSet map[TaskType]TaskEntry

// ActivityRecord represents one unit of tracked work: a vehicle movement for
// drivers, or a vehicle preparation (with per-task sub-records) for preparators.
type ActivityRecord struct {
	gorm.Model

	RecordID  string `json:"record_id" gorm:"uniqueIndex"`
	UserID    string `json:"user_id" gorm:"index"`
	Role      Role   `json:"role" gorm:"index"`
	VehicleNo string `json:"vehicle_no"`
	Status    string `json:"status" gorm:"index"` // "pending", "inProgress", "completed", "cancelled"

	// Driver movement segment
	OriginSite      string     `json:"origin_site,omitempty"`
	DestinationSite string     `json:"destination_site,omitempty"`
	DepartureTime   *time.Time `json:"departure_time,omitempty"`
	ArrivalTime     *time.Time `json:"arrival_time,omitempty"`

	// Preparator overall preparation window
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Preparator per-task sub-records
	Tasks TaskSet `json:"tasks,omitempty" gorm:"serializer:json"`
}

// BeforeCreate hook to auto-generate RecordID and seed preparation tasks
func (a *ActivityRecord) BeforeCreate(tx *gorm.DB) error {
	if a.RecordID == "" {
		prefix := "MOV"
		if a.Role == RolePreparator {
			prefix = "PRE"
		}
		a.RecordID = fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	}

	if a.Role == RolePreparator && a.Tasks == nil {
		a.Tasks = make(TaskSet, len(PreparationTaskTypes))
		for _, t := range PreparationTaskTypes {
			a.Tasks[t] = TaskEntry{Status: StatusPending}
		}
	}

	return nil
}

// Task returns the sub-record for the given task/segment key. For drivers the
// only key is TaskMovement, synthesized from the movement segment so the same
// aggregation code serves both roles.
func (a *ActivityRecord) Task(key TaskType) (TaskEntry, bool) {
	if a.Role == RoleDriver {
		if key != TaskMovement {
			return TaskEntry{}, false
		}
		return TaskEntry{
			Status:      a.Status,
			StartedAt:   a.DepartureTime,
			CompletedAt: a.ArrivalTime,
		}, true
	}

	entry, ok := a.Tasks[key]
	return entry, ok
}

// CompletionWindow returns the record-level start/end pair used for the
// record's own completion time: departure/arrival for drivers, the overall
// preparation window for preparators.
func (a *ActivityRecord) CompletionWindow() (*time.Time, *time.Time) {
	if a.Role == RoleDriver {
		return a.DepartureTime, a.ArrivalTime
	}
	return a.StartedAt, a.CompletedAt
}

// TaskKeys returns the task/segment keys that apply to the record's role
func TaskKeys(role Role) []TaskType {
	if role == RoleDriver {
		return []TaskType{TaskMovement}
	}
	return PreparationTaskTypes
}
