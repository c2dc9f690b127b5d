package store

import (
	"sort"

	"upkeep/internal/models"

	"github.com/google/uuid"
)

// CreateTask creates a task and its initial subtasks locally. Every task
// owns at least one subtask: when no subtask names are given, a single
// subtask named after the task is created.
func (s *Store) CreateTask(
	name, description string,
	recurringInterval int,
	recurringUnit models.RecurringUnit,
	subtaskNames []string,
) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &models.Task{
		ID:                newID(),
		Name:              name,
		Status:            models.TaskStatusToDo,
		Description:       description,
		CreatedAt:         s.now(),
		IsRecurring:       recurringInterval > 0 && recurringUnit != "",
		RecurringInterval: recurringInterval,
		RecurringUnit:     recurringUnit,
	}
	s.tasks[task.ID] = task

	names := subtaskNames
	if len(names) == 0 {
		names = []string{name}
	}
	for _, subtaskName := range names {
		subtask := &models.Subtask{
			ID:     newID(),
			Name:   subtaskName,
			TaskID: task.ID,
		}
		s.subtasks[subtask.ID] = subtask
		s.subtasksByTask[task.ID] = append(s.subtasksByTask[task.ID], subtask.ID)
	}

	s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(task.ID))
	s.logHistory(models.HistoryActionCreated, models.HistoryItemTask, task.Name, "")

	return task.Clone()
}

// UpdateTask replaces the editable fields of a task. Derived counts are
// recomputed afterwards, so callers cannot smuggle in stale ones.
func (s *Store) UpdateTask(updated models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[updated.ID]
	if !ok {
		return false
	}

	task.Name = updated.Name
	task.Status = updated.Status
	task.Description = updated.Description
	task.IsRecurring = updated.IsRecurring
	task.RecurringInterval = updated.RecurringInterval
	task.RecurringUnit = updated.RecurringUnit

	s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(task.ID))
	s.logHistory(models.HistoryActionEdited, models.HistoryItemTask, task.Name, "")

	return true
}

// ToggleTaskCompletion flips a task's completion as a manual override. It
// does not touch subtasks, so CompletedSubtaskCount is left alone — the next
// subtask mutation will recompute and may undo the override.
func (s *Store) ToggleTaskCompletion(id uuid.UUID) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}

	task.IsCompleted = !task.IsCompleted
	if task.IsCompleted {
		completedAt := s.now()
		task.LastCompletedDate = &completedAt
		s.logHistory(models.HistoryActionCompleted, models.HistoryItemTask, task.Name, "")
	} else {
		s.logHistory(models.HistoryActionEdited, models.HistoryItemTask, task.Name, "")
	}

	return task.Clone(), true
}

// DeleteTask removes a task and cascades to its subtasks.
func (s *Store) DeleteTask(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}

	for _, subtaskID := range s.subtasksByTask[id] {
		delete(s.subtasks, subtaskID)
	}
	delete(s.subtasksByTask, id)
	delete(s.tasks, id)

	s.logHistory(models.HistoryActionDeleted, models.HistoryItemTask, task.Name, "")
	return true
}

// AddSubtask appends a subtask to an existing task and recounts the parent.
func (s *Store) AddSubtask(taskID uuid.UUID, name string) (models.Subtask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return models.Subtask{}, false
	}

	subtask := &models.Subtask{
		ID:     newID(),
		Name:   name,
		TaskID: taskID,
	}
	s.subtasks[subtask.ID] = subtask
	s.subtasksByTask[taskID] = append(s.subtasksByTask[taskID], subtask.ID)

	s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(taskID))
	s.logHistory(models.HistoryActionCreated, models.HistoryItemSubtask, subtask.Name, "")

	return subtask.Clone(), true
}

// ToggleSubtaskCompletion flips a subtask and recounts its parent, which may
// complete the parent (all subtasks done) or un-complete it (reopening one).
func (s *Store) ToggleSubtaskCompletion(id uuid.UUID) (models.Subtask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtask, ok := s.subtasks[id]
	if !ok {
		return models.Subtask{}, false
	}

	subtask.IsCompleted = !subtask.IsCompleted

	if task, ok := s.tasks[subtask.TaskID]; ok {
		wasCompleted := task.IsCompleted
		s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(task.ID))
		if task.IsCompleted && !wasCompleted {
			s.logHistory(models.HistoryActionCompleted, models.HistoryItemTask, task.Name, "")
		}
	}

	return subtask.Clone(), true
}

// DeleteSubtask removes a subtask and recounts its parent. Deleting the last
// incomplete subtask silently completes the parent task.
func (s *Store) DeleteSubtask(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtask, ok := s.subtasks[id]
	if !ok {
		return false
	}

	delete(s.subtasks, id)
	ids := s.subtasksByTask[subtask.TaskID]
	for i, subtaskID := range ids {
		if subtaskID == id {
			s.subtasksByTask[subtask.TaskID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	s.logHistory(models.HistoryActionDeleted, models.HistoryItemSubtask, subtask.Name, "")

	if task, ok := s.tasks[subtask.TaskID]; ok {
		wasCompleted := task.IsCompleted
		s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(task.ID))
		if task.IsCompleted && !wasCompleted {
			s.logHistory(models.HistoryActionCompleted, models.HistoryItemTask, task.Name, "")
		}
	}

	return true
}

// AddSubtaskPhoto appends a photo URL to a subtask.
func (s *Store) AddSubtaskPhoto(id uuid.UUID, photoURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtask, ok := s.subtasks[id]
	if !ok {
		return false
	}

	subtask.PhotoURLs = append(subtask.PhotoURLs, photoURL)
	s.logHistory(models.HistoryActionPhotoAdded, models.HistoryItemSubtask, subtask.Name, photoURL)
	return true
}

// RemoveSubtaskPhoto removes a photo URL from a subtask.
func (s *Store) RemoveSubtaskPhoto(id uuid.UUID, photoURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subtask, ok := s.subtasks[id]
	if !ok {
		return false
	}

	for i, url := range subtask.PhotoURLs {
		if url == photoURL {
			subtask.PhotoURLs = append(subtask.PhotoURLs[:i], subtask.PhotoURLs[i+1:]...)
			s.logHistory(models.HistoryActionPhotoDeleted, models.HistoryItemSubtask, subtask.Name, photoURL)
			return true
		}
	}
	return false
}

// ScheduleGroup is a set of recurring tasks sharing one schedule
// description.
type ScheduleGroup struct {
	Description string
	Tasks       []models.Task
}

// TasksBySchedule groups recurring tasks by their schedule description,
// ordered from most to least frequent. Tasks with unrecognized descriptions
// land in the last group.
func (s *Store) TasksBySchedule() []ScheduleGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[string][]models.Task)
	for _, task := range s.tasks {
		if !task.IsRecurring {
			continue
		}
		description := s.recurrence.ScheduleDescription(*task)
		grouped[description] = append(grouped[description], task.Clone())
	}

	groups := make([]ScheduleGroup, 0, len(grouped))
	for description, tasks := range grouped {
		sort.Slice(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
		groups = append(groups, ScheduleGroup{Description: description, Tasks: tasks})
	}

	sort.Slice(groups, func(i, j int) bool {
		return s.recurrence.SortKey(groups[i].Description) < s.recurrence.SortKey(groups[j].Description)
	})
	return groups
}

// RefreshOverdueStatuses walks recurring tasks and moves them in or out of
// the Overdue status based on their next due date. Returns how many tasks
// changed.
func (s *Store) RefreshOverdueStatuses() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, task := range s.tasks {
		if !task.IsRecurring {
			continue
		}

		if !task.IsCompleted && s.recurrence.IsOverdue(*task) {
			if task.Status != models.TaskStatusOverdue {
				task.Status = models.TaskStatusOverdue
				changed++
			}
		} else if task.Status == models.TaskStatusOverdue {
			task.Status = models.TaskStatusToDo
			changed++
		}
	}
	return changed
}
