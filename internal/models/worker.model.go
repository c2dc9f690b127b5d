package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ScheduleType string

const (
	ScheduleTypeOneTime  ScheduleType = "one-time"
	ScheduleTypeWeekly   ScheduleType = "weekly"
	ScheduleTypeBiWeekly ScheduleType = "bi-weekly"
	ScheduleTypeMonthly  ScheduleType = "monthly"
	// ScheduleTypeUnknown is the decode fallback for unrecognized wire values.
	ScheduleTypeUnknown ScheduleType = "unknown"
)

type ChecklistItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
}

// ScheduledVisit belongs to exactly one Worker.
type ScheduledVisit struct {
	ID        uuid.UUID       `json:"id"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes"`
	Checklist []ChecklistItem `json:"checklist"`
	IsDone    bool            `json:"isDone"`
	ProjectID *uuid.UUID      `json:"projectId,omitempty"`
}

type Worker struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Company        string       `json:"company"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email,omitempty"`
	Specialization string       `json:"specialization"`
	ServiceTypes   []string     `json:"serviceTypes"`
	ScheduleType   ScheduleType `json:"scheduleType"`
	IsScheduled    bool         `json:"isScheduled"`
	// NextVisit is always the minimum date among ScheduledVisits, or nil if
	// there are none. Derived; recomputed after every visit mutation.
	NextVisit       *time.Time       `json:"nextVisit,omitempty"`
	ScheduledVisits []ScheduledVisit `json:"scheduledVisits"`
	PhotoURL        string           `json:"photoUrl,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (v ScheduledVisit) Clone() ScheduledVisit {
	out := v
	out.Checklist = slices.Clone(v.Checklist)
	if v.ProjectID != nil {
		projectID := *v.ProjectID
		out.ProjectID = &projectID
	}
	return out
}

// Clone returns a copy sharing no mutable state with the receiver.
func (w Worker) Clone() Worker {
	out := w
	out.ServiceTypes = slices.Clone(w.ServiceTypes)
	if w.NextVisit != nil {
		next := *w.NextVisit
		out.NextVisit = &next
	}
	if w.ScheduledVisits != nil {
		out.ScheduledVisits = make([]ScheduledVisit, len(w.ScheduledVisits))
		for i, visit := range w.ScheduledVisits {
			out.ScheduledVisits[i] = visit.Clone()
		}
	}
	return out
}
