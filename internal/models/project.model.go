package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
	ProjectStatusCompleted ProjectStatus = "Completed"
	// ProjectStatusUnknown is the decode fallback, matching TaskStatus.
	ProjectStatusUnknown ProjectStatus = "Unknown"
)

// WorkerAssignment links a worker to a project. A project carries at most one
// assignment per worker.
type WorkerAssignment struct {
	AssignmentID uuid.UUID `json:"assignmentId"`
	WorkerID     uuid.UUID `json:"workerId"`
	Role         string    `json:"role"`
}

// ProgressLogEntry is immutable once created except for correction via full
// replace.
type ProgressLogEntry struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Text      string    `json:"text"`
	PhotoURLs []string  `json:"photoUrls"`
}

type Project struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"dueDate"`
	NextStep    string        `json:"nextStep"`
	PhotoURLs   []string      `json:"photoUrls"`
	// ProgressLog is ordered newest-first
	ProgressLog     []ProgressLogEntry `json:"progressLog"`
	AssignedWorkers []WorkerAssignment `json:"assignedWorkers"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// Clone returns a copy sharing no mutable state with the receiver.
func (e ProgressLogEntry) Clone() ProgressLogEntry {
	out := e
	out.PhotoURLs = slices.Clone(e.PhotoURLs)
	return out
}

// Clone returns a copy sharing no mutable state with the receiver.
func (p Project) Clone() Project {
	out := p
	out.PhotoURLs = slices.Clone(p.PhotoURLs)
	out.AssignedWorkers = slices.Clone(p.AssignedWorkers)
	if p.ProgressLog != nil {
		out.ProgressLog = make([]ProgressLogEntry, len(p.ProgressLog))
		for i, entry := range p.ProgressLog {
			out.ProgressLog[i] = entry.Clone()
		}
	}
	return out
}
