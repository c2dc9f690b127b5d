// Package store owns the in-memory mirror of the remote records: tasks,
// subtasks, projects, workers, and the history log. All local mutations are
// synchronous in-memory edits that restore derived-field invariants before
// returning; remote persistence is a separate, explicit operation (see
// sync.store.go) so the window between a local edit and its remote write
// stays visible to callers.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"upkeep/internal/database"
	"upkeep/internal/models"
	"upkeep/internal/services"
	"upkeep/pkg/logger"

	"github.com/google/uuid"
)

// ErrNotFound is returned by remote-sync operations when the local entity
// they were asked to push no longer exists.
var ErrNotFound = errors.New("entity not found")

type Store struct {
	mu  sync.RWMutex
	log logger.Logger
	now func() time.Time

	supabase    *services.SupabaseService
	aggregation *services.AggregationService
	recurrence  *services.RecurrenceService
	cache       *database.DB

	tasks          map[uuid.UUID]*models.Task
	subtasks       map[uuid.UUID]*models.Subtask
	subtasksByTask map[uuid.UUID][]uuid.UUID
	projects       map[uuid.UUID]*models.Project
	workers        map[uuid.UUID]*models.Worker
	history        []models.HistoryEntry
}

// New builds a store around the given gateway and optional local cache.
// There is deliberately no package-level instance; the caller owns the one
// store and passes it to every consumer.
func New(supabase *services.SupabaseService, cache *database.DB) *Store {
	log := logger.New("store")

	s := &Store{
		log:            log,
		now:            time.Now,
		supabase:       supabase,
		aggregation:    services.NewAggregationService(),
		recurrence:     services.NewRecurrenceService(),
		cache:          cache,
		tasks:          make(map[uuid.UUID]*models.Task),
		subtasks:       make(map[uuid.UUID]*models.Subtask),
		subtasksByTask: make(map[uuid.UUID][]uuid.UUID),
		projects:       make(map[uuid.UUID]*models.Project),
		workers:        make(map[uuid.UUID]*models.Worker),
	}

	if cache != nil {
		entries, err := cache.LoadHistory()
		if err != nil {
			log.Warn("Could not load cached history", "error", err)
		} else {
			s.history = entries
			log.Info("Loaded cached history", "entries", len(entries))
		}
	}

	return s
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Task returns a copy of the task with the given id. All getters return deep
// copies; mutating a returned value never touches store state.
func (s *Store) Task(id uuid.UUID) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return task.Clone(), true
}

// Tasks returns copies of all tasks ordered by creation time.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}

// Subtask returns a copy of the subtask with the given id.
func (s *Store) Subtask(id uuid.UUID) (models.Subtask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subtask, ok := s.subtasks[id]
	if !ok {
		return models.Subtask{}, false
	}
	return subtask.Clone(), true
}

// SubtasksForTask returns copies of the subtasks owned by the given task.
func (s *Store) SubtasksForTask(taskID uuid.UUID) []models.Subtask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.subtasksByTask[taskID]
	subtasks := make([]models.Subtask, 0, len(ids))
	for _, id := range ids {
		if subtask, ok := s.subtasks[id]; ok {
			subtasks = append(subtasks, subtask.Clone())
		}
	}
	return subtasks
}

// Project returns a copy of the project with the given id.
func (s *Store) Project(id uuid.UUID) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return models.Project{}, false
	}
	return project.Clone(), true
}

// Projects returns copies of all projects ordered by due date.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]models.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, project.Clone())
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].DueDate.Before(projects[j].DueDate)
	})
	return projects
}

// Worker returns a copy of the worker with the given id.
func (s *Store) Worker(id uuid.UUID) (models.Worker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	worker, ok := s.workers[id]
	if !ok {
		return models.Worker{}, false
	}
	return worker.Clone(), true
}

// Workers returns copies of all workers ordered by name.
func (s *Store) Workers() []models.Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]models.Worker, 0, len(s.workers))
	for _, worker := range s.workers {
		workers = append(workers, worker.Clone())
	}
	sort.Slice(workers, func(i, j int) bool {
		return workers[i].Name < workers[j].Name
	})
	return workers
}

// collectSubtasks gathers the live subtask pointers for a task, for the
// aggregation engine. Caller must hold the lock.
func (s *Store) collectSubtasks(taskID uuid.UUID) []*models.Subtask {
	ids := s.subtasksByTask[taskID]
	subtasks := make([]*models.Subtask, 0, len(ids))
	for _, id := range ids {
		if subtask, ok := s.subtasks[id]; ok {
			subtasks = append(subtasks, subtask)
		}
	}
	return subtasks
}
