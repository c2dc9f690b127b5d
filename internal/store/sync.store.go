package store

import (
	"context"
	"fmt"

	"upkeep/internal/models"
	"upkeep/internal/services"

	"github.com/google/uuid"
)

// Remote-sync operations. Each one encodes the current local entity, calls
// the gateway, and on success overwrites the local record with the decoded
// server echo so server-generated fields (created_at and friends) land
// locally. On failure the typed error propagates untouched and the local
// and remote states are left divergent; the caller decides whether to retry.
//
// The network call runs outside the store lock, so other local mutations may
// interleave with an in-flight sync. The echo still wins when it arrives —
// that window is inherent to the optimistic-local / explicit-remote split.

const (
	tasksTable    = "/tasks"
	subtasksTable = "/subtasks"
	projectsTable = "/projects"
	workersTable  = "/workers"
	historyTable  = "/history"
)

func rowFilter(table string, id uuid.UUID) string {
	return fmt.Sprintf("%s?id=eq.%s", table, id)
}

// firstRow unwraps a PostgREST representation echo, which always arrives as
// a JSON array.
func firstRow[R any](rows []R) (R, error) {
	var zero R
	if len(rows) == 0 {
		return zero, fmt.Errorf("%w: empty representation", services.ErrInvalidResponse)
	}
	return rows[0], nil
}

// CreateTaskRemote inserts the local task into Supabase.
func (s *Store) CreateTaskRemote(ctx context.Context, id uuid.UUID) (models.Task, error) {
	s.mu.RLock()
	task, ok := s.tasks[id]
	var record services.TaskRecord
	if ok {
		record = services.EncodeTask(*task)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}

	rows, err := services.Create[services.TaskRecord, []services.TaskRecord](ctx, s.supabase, tasksTable, record)
	if err != nil {
		return models.Task{}, err
	}
	return s.applyTaskEcho(id, rows)
}

// SaveTaskRemote writes the local task over its Supabase row.
func (s *Store) SaveTaskRemote(ctx context.Context, id uuid.UUID) (models.Task, error) {
	s.mu.RLock()
	task, ok := s.tasks[id]
	var record services.TaskRecord
	if ok {
		record = services.EncodeTask(*task)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}

	rows, err := services.Update[services.TaskRecord, []services.TaskRecord](ctx, s.supabase, rowFilter(tasksTable, id), record)
	if err != nil {
		return models.Task{}, err
	}
	return s.applyTaskEcho(id, rows)
}

// DeleteTaskRemote deletes the task's Supabase row. The local record is
// removed separately via DeleteTask.
func (s *Store) DeleteTaskRemote(ctx context.Context, id uuid.UUID) error {
	return s.supabase.Remove(ctx, rowFilter(tasksTable, id))
}

func (s *Store) applyTaskEcho(id uuid.UUID, rows []services.TaskRecord) (models.Task, error) {
	row, err := firstRow(rows)
	if err != nil {
		return models.Task{}, err
	}
	decoded, err := services.DecodeTask(row)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	if _, ok := s.tasks[id]; ok {
		replacement := decoded.Clone()
		s.tasks[id] = &replacement
	}
	s.mu.Unlock()
	return decoded, nil
}

// CreateSubtaskRemote inserts the local subtask into Supabase.
func (s *Store) CreateSubtaskRemote(ctx context.Context, id uuid.UUID) (models.Subtask, error) {
	s.mu.RLock()
	subtask, ok := s.subtasks[id]
	var record services.SubtaskRecord
	if ok {
		record = services.EncodeSubtask(*subtask)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Subtask{}, fmt.Errorf("%w: subtask %s", ErrNotFound, id)
	}

	rows, err := services.Create[services.SubtaskRecord, []services.SubtaskRecord](ctx, s.supabase, subtasksTable, record)
	if err != nil {
		return models.Subtask{}, err
	}
	return s.applySubtaskEcho(id, rows)
}

// SaveSubtaskRemote writes the local subtask over its Supabase row.
func (s *Store) SaveSubtaskRemote(ctx context.Context, id uuid.UUID) (models.Subtask, error) {
	s.mu.RLock()
	subtask, ok := s.subtasks[id]
	var record services.SubtaskRecord
	if ok {
		record = services.EncodeSubtask(*subtask)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Subtask{}, fmt.Errorf("%w: subtask %s", ErrNotFound, id)
	}

	rows, err := services.Update[services.SubtaskRecord, []services.SubtaskRecord](ctx, s.supabase, rowFilter(subtasksTable, id), record)
	if err != nil {
		return models.Subtask{}, err
	}
	return s.applySubtaskEcho(id, rows)
}

// DeleteSubtaskRemote deletes the subtask's Supabase row.
func (s *Store) DeleteSubtaskRemote(ctx context.Context, id uuid.UUID) error {
	return s.supabase.Remove(ctx, rowFilter(subtasksTable, id))
}

func (s *Store) applySubtaskEcho(id uuid.UUID, rows []services.SubtaskRecord) (models.Subtask, error) {
	row, err := firstRow(rows)
	if err != nil {
		return models.Subtask{}, err
	}
	decoded, err := services.DecodeSubtask(row)
	if err != nil {
		return models.Subtask{}, err
	}

	s.mu.Lock()
	if _, ok := s.subtasks[id]; ok {
		replacement := decoded.Clone()
		s.subtasks[id] = &replacement
	}
	s.mu.Unlock()
	return decoded, nil
}

// CreateProjectRemote inserts the local project into Supabase.
func (s *Store) CreateProjectRemote(ctx context.Context, id uuid.UUID) (models.Project, error) {
	s.mu.RLock()
	project, ok := s.projects[id]
	var record services.ProjectRecord
	if ok {
		record = services.EncodeProject(*project)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Project{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}

	rows, err := services.Create[services.ProjectRecord, []services.ProjectRecord](ctx, s.supabase, projectsTable, record)
	if err != nil {
		return models.Project{}, err
	}
	return s.applyProjectEcho(id, rows)
}

// SaveProjectRemote writes the local project over its Supabase row.
func (s *Store) SaveProjectRemote(ctx context.Context, id uuid.UUID) (models.Project, error) {
	s.mu.RLock()
	project, ok := s.projects[id]
	var record services.ProjectRecord
	if ok {
		record = services.EncodeProject(*project)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Project{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}

	rows, err := services.Update[services.ProjectRecord, []services.ProjectRecord](ctx, s.supabase, rowFilter(projectsTable, id), record)
	if err != nil {
		return models.Project{}, err
	}
	return s.applyProjectEcho(id, rows)
}

// DeleteProjectRemote deletes the project's Supabase row.
func (s *Store) DeleteProjectRemote(ctx context.Context, id uuid.UUID) error {
	return s.supabase.Remove(ctx, rowFilter(projectsTable, id))
}

func (s *Store) applyProjectEcho(id uuid.UUID, rows []services.ProjectRecord) (models.Project, error) {
	row, err := firstRow(rows)
	if err != nil {
		return models.Project{}, err
	}
	decoded, err := services.DecodeProject(row)
	if err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	if _, ok := s.projects[id]; ok {
		replacement := decoded.Clone()
		s.projects[id] = &replacement
	}
	s.mu.Unlock()
	return decoded, nil
}

// CreateWorkerRemote inserts the local worker into Supabase.
func (s *Store) CreateWorkerRemote(ctx context.Context, id uuid.UUID) (models.Worker, error) {
	s.mu.RLock()
	worker, ok := s.workers[id]
	var record services.WorkerRecord
	if ok {
		record = services.EncodeWorker(*worker)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Worker{}, fmt.Errorf("%w: worker %s", ErrNotFound, id)
	}

	rows, err := services.Create[services.WorkerRecord, []services.WorkerRecord](ctx, s.supabase, workersTable, record)
	if err != nil {
		return models.Worker{}, err
	}
	return s.applyWorkerEcho(id, rows)
}

// SaveWorkerRemote writes the local worker over its Supabase row.
func (s *Store) SaveWorkerRemote(ctx context.Context, id uuid.UUID) (models.Worker, error) {
	s.mu.RLock()
	worker, ok := s.workers[id]
	var record services.WorkerRecord
	if ok {
		record = services.EncodeWorker(*worker)
	}
	s.mu.RUnlock()
	if !ok {
		return models.Worker{}, fmt.Errorf("%w: worker %s", ErrNotFound, id)
	}

	rows, err := services.Update[services.WorkerRecord, []services.WorkerRecord](ctx, s.supabase, rowFilter(workersTable, id), record)
	if err != nil {
		return models.Worker{}, err
	}
	return s.applyWorkerEcho(id, rows)
}

// DeleteWorkerRemote deletes the worker's Supabase row.
func (s *Store) DeleteWorkerRemote(ctx context.Context, id uuid.UUID) error {
	return s.supabase.Remove(ctx, rowFilter(workersTable, id))
}

func (s *Store) applyWorkerEcho(id uuid.UUID, rows []services.WorkerRecord) (models.Worker, error) {
	row, err := firstRow(rows)
	if err != nil {
		return models.Worker{}, err
	}
	decoded, err := services.DecodeWorker(row)
	if err != nil {
		return models.Worker{}, err
	}

	s.mu.Lock()
	if _, ok := s.workers[id]; ok {
		replacement := decoded.Clone()
		s.workers[id] = &replacement
	}
	s.mu.Unlock()
	return decoded, nil
}

// CreateHistoryEntryRemote pushes one history entry. History rows are
// append-only, so there is no save or delete counterpart.
func (s *Store) CreateHistoryEntryRemote(ctx context.Context, id uuid.UUID) (models.HistoryEntry, error) {
	s.mu.RLock()
	var record services.HistoryRecord
	found := false
	for _, entry := range s.history {
		if entry.ID == id {
			record = services.EncodeHistoryEntry(entry)
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return models.HistoryEntry{}, fmt.Errorf("%w: history entry %s", ErrNotFound, id)
	}

	rows, err := services.Create[services.HistoryRecord, []services.HistoryRecord](ctx, s.supabase, historyTable, record)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	row, err := firstRow(rows)
	if err != nil {
		return models.HistoryEntry{}, err
	}
	return services.DecodeHistoryEntry(row)
}

// FetchTasksRemote reads all task rows and replaces the local task
// collection with the decoded result. Subtasks whose parent task is gone
// after the replacement are pruned, and surviving tasks are recounted
// against the subtasks actually present, so no orphan is ever reachable.
func (s *Store) FetchTasksRemote(ctx context.Context) ([]models.Task, error) {
	rows, err := services.Fetch[[]services.TaskRecord](ctx, s.supabase, tasksTable)
	if err != nil {
		return nil, err
	}

	decoded := make([]models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := services.DecodeTask(row)
		if err != nil {
			return nil, err
		}
		decoded = append(decoded, task)
	}

	s.mu.Lock()
	s.tasks = make(map[uuid.UUID]*models.Task, len(decoded))
	replaced := make([]*models.Task, 0, len(decoded))
	for i := range decoded {
		task := decoded[i]
		s.tasks[task.ID] = &task
		replaced = append(replaced, &task)
	}

	for id, subtask := range s.subtasks {
		if _, ok := s.tasks[subtask.TaskID]; !ok {
			delete(s.subtasks, id)
		}
	}
	for taskID := range s.subtasksByTask {
		if _, ok := s.tasks[taskID]; !ok {
			delete(s.subtasksByTask, taskID)
		}
	}

	for _, task := range replaced {
		s.aggregation.RecomputeTaskCounts(task, s.collectSubtasks(task.ID))
	}

	tasks := make([]models.Task, 0, len(replaced))
	for _, task := range replaced {
		tasks = append(tasks, task.Clone())
	}
	s.mu.Unlock()
	return tasks, nil
}

// UploadPhoto pushes raw JPEG bytes to storage and returns the public URL.
func (s *Store) UploadPhoto(ctx context.Context, data []byte, filename string) (string, error) {
	return s.supabase.UploadImage(ctx, data, filename)
}

// DeletePhoto removes a stored photo by filename.
func (s *Store) DeletePhoto(ctx context.Context, filename string) error {
	return s.supabase.RemoveImage(ctx, filename)
}
