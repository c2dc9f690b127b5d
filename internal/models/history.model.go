package models

import (
	"time"

	"github.com/google/uuid"
)

type HistoryAction string

const (
	HistoryActionCreated      HistoryAction = "created"
	HistoryActionCompleted    HistoryAction = "completed"
	HistoryActionEdited       HistoryAction = "edited"
	HistoryActionDeleted      HistoryAction = "deleted"
	HistoryActionPhotoAdded   HistoryAction = "photoAdded"
	HistoryActionPhotoDeleted HistoryAction = "photoDeleted"
	HistoryActionContacted    HistoryAction = "contacted"
)

type HistoryItemType string

const (
	HistoryItemTask    HistoryItemType = "task"
	HistoryItemProject HistoryItemType = "project"
	HistoryItemWorker  HistoryItemType = "worker"
	HistoryItemSubtask HistoryItemType = "subtask"
)

// HistoryEntry is append-only, never mutated.
type HistoryEntry struct {
	ID        uuid.UUID       `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Action    HistoryAction   `json:"action"`
	ItemType  HistoryItemType `json:"itemType"`
	ItemName  string          `json:"itemName"`
	PhotoURL  string          `json:"photoUrl,omitempty"`
}
