package services

import (
	"sort"
	"time"

	"upkeep/internal/models"
)

// AggregationService restores derived-field invariants after mutations to an
// owned collection. Both methods are pure over their inputs and idempotent;
// the store calls them synchronously after every relevant mutation.
type AggregationService struct {
	now func() time.Time
}

func NewAggregationService() *AggregationService {
	return &AggregationService{now: time.Now}
}

// RecomputeTaskCounts recounts the subtasks belonging to task and resets its
// completion state. A task is completed only while every one of its subtasks
// is completed, so deleting or reopening a subtask can un-complete a task
// that was previously done — including one completed by a manual toggle.
func (a *AggregationService) RecomputeTaskCounts(task *models.Task, subtasks []*models.Subtask) {
	total := 0
	completed := 0
	for _, subtask := range subtasks {
		if subtask.TaskID != task.ID {
			continue
		}
		total++
		if subtask.IsCompleted {
			completed++
		}
	}

	task.TotalSubtaskCount = total
	task.CompletedSubtaskCount = completed

	if total > 0 && completed == total {
		if !task.IsCompleted {
			completedAt := a.now()
			task.LastCompletedDate = &completedAt
		}
		task.IsCompleted = true
	} else {
		task.IsCompleted = false
	}
}

// RecomputeNextVisit sorts the worker's visits ascending by date and points
// NextVisit at the earliest one, or clears it when no visits remain.
func (a *AggregationService) RecomputeNextVisit(worker *models.Worker) {
	sort.SliceStable(worker.ScheduledVisits, func(i, j int) bool {
		return worker.ScheduledVisits[i].Date.Before(worker.ScheduledVisits[j].Date)
	})

	if len(worker.ScheduledVisits) == 0 {
		worker.NextVisit = nil
		return
	}

	next := worker.ScheduledVisits[0].Date
	worker.NextVisit = &next
}
