package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusToDo    TaskStatus = "To-Do"
	TaskStatusActive  TaskStatus = "Active"
	TaskStatusOverdue TaskStatus = "Overdue"
	TaskStatusWaiting TaskStatus = "Waiting"
	// TaskStatusUnknown is the decode fallback for unrecognized wire values.
	// Task statuses arrive from older rows as free-form strings, so decoding
	// tolerates values outside the known set instead of failing.
	TaskStatusUnknown TaskStatus = "Unknown"
)

type RecurringUnit string

const (
	RecurringUnitDays   RecurringUnit = "days"
	RecurringUnitWeeks  RecurringUnit = "weeks"
	RecurringUnitMonths RecurringUnit = "months"
)

type Task struct {
	ID                    uuid.UUID     `json:"id"`
	Name                  string        `json:"name"`
	Status                TaskStatus    `json:"status"`
	Description           string        `json:"description"`
	LastCompletedDate     *time.Time    `json:"lastCompletedDate,omitempty"`
	IsCompleted           bool          `json:"isCompleted"`
	CompletedSubtaskCount int           `json:"completedSubtaskCount"`
	TotalSubtaskCount     int           `json:"totalSubtaskCount"`
	CreatedAt             time.Time     `json:"createdAt"`
	IsRecurring           bool          `json:"isRecurring"`
	RecurringInterval     int           `json:"recurringInterval,omitempty"`
	RecurringUnit         RecurringUnit `json:"recurringUnit,omitempty"`
}

type Subtask struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsCompleted bool      `json:"isCompleted"`
	TaskID      uuid.UUID `json:"taskId"`
	PhotoURLs   []string  `json:"photoUrls"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (t Task) Clone() Task {
	out := t
	if t.LastCompletedDate != nil {
		completed := *t.LastCompletedDate
		out.LastCompletedDate = &completed
	}
	return out
}

// Clone returns a copy sharing no mutable state with the receiver.
func (s Subtask) Clone() Subtask {
	out := s
	out.PhotoURLs = slices.Clone(s.PhotoURLs)
	return out
}
