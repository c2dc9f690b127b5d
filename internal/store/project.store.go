package store

import (
	"slices"

	"upkeep/internal/models"

	"github.com/google/uuid"
)

// CreateProject stores a new project from the given prototype. The prototype
// is cloned first; the store never shares the caller's slices.
func (s *Store) CreateProject(prototype models.Project) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := prototype.Clone()
	project.ID = newID()
	project.CreatedAt = s.now()
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}

	s.projects[project.ID] = &project
	s.logHistory(models.HistoryActionCreated, models.HistoryItemProject, project.Name, "")
	return project.Clone()
}

// UpdateProject replaces the editable fields of a project. The progress log
// and worker assignments are owned by their own operations.
func (s *Store) UpdateProject(updated models.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[updated.ID]
	if !ok {
		return false
	}

	project.Name = updated.Name
	project.Status = updated.Status
	project.Description = updated.Description
	project.DueDate = updated.DueDate
	project.NextStep = updated.NextStep

	s.logHistory(models.HistoryActionEdited, models.HistoryItemProject, project.Name, "")
	return true
}

// DeleteProject removes a project and unlinks any scheduled visits that
// pointed at it.
func (s *Store) DeleteProject(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return false
	}

	delete(s.projects, id)

	for _, worker := range s.workers {
		for i := range worker.ScheduledVisits {
			visit := &worker.ScheduledVisits[i]
			if visit.ProjectID != nil && *visit.ProjectID == id {
				visit.ProjectID = nil
			}
		}
	}

	s.logHistory(models.HistoryActionDeleted, models.HistoryItemProject, project.Name, "")
	return true
}

// AddProgressLogEntry prepends a progress entry; the log stays newest-first.
func (s *Store) AddProgressLogEntry(
	projectID uuid.UUID,
	text string,
	photoURLs []string,
) (models.ProgressLogEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return models.ProgressLogEntry{}, false
	}

	entry := models.ProgressLogEntry{
		ID:        newID(),
		Date:      s.now(),
		Text:      text,
		PhotoURLs: slices.Clone(photoURLs),
	}
	project.ProgressLog = append([]models.ProgressLogEntry{entry.Clone()}, project.ProgressLog...)

	s.logHistory(models.HistoryActionEdited, models.HistoryItemProject, project.Name, "")
	return entry, true
}

// ReplaceProgressLogEntry corrects an existing entry via full replace.
// Progress entries are otherwise immutable.
func (s *Store) ReplaceProgressLogEntry(projectID uuid.UUID, entry models.ProgressLogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return false
	}

	for i := range project.ProgressLog {
		if project.ProgressLog[i].ID == entry.ID {
			project.ProgressLog[i] = entry.Clone()
			s.logHistory(models.HistoryActionEdited, models.HistoryItemProject, project.Name, "")
			return true
		}
	}
	return false
}

// AssignWorker links a worker to a project. A project holds at most one
// assignment per worker, so assigning again just updates the role.
func (s *Store) AssignWorker(projectID, workerID uuid.UUID, role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return false
	}
	if _, ok := s.workers[workerID]; !ok {
		return false
	}

	for i := range project.AssignedWorkers {
		if project.AssignedWorkers[i].WorkerID == workerID {
			project.AssignedWorkers[i].Role = role
			return true
		}
	}

	project.AssignedWorkers = append(project.AssignedWorkers, models.WorkerAssignment{
		AssignmentID: newID(),
		WorkerID:     workerID,
		Role:         role,
	})
	s.logHistory(models.HistoryActionEdited, models.HistoryItemProject, project.Name, "")
	return true
}

// UnassignWorker removes a worker's assignment from a project.
func (s *Store) UnassignWorker(projectID, workerID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return false
	}

	for i, assignment := range project.AssignedWorkers {
		if assignment.WorkerID == workerID {
			project.AssignedWorkers = append(
				project.AssignedWorkers[:i],
				project.AssignedWorkers[i+1:]...,
			)
			s.logHistory(models.HistoryActionEdited, models.HistoryItemProject, project.Name, "")
			return true
		}
	}
	return false
}

// AddProjectPhoto appends a photo URL to a project.
func (s *Store) AddProjectPhoto(id uuid.UUID, photoURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return false
	}

	project.PhotoURLs = append(project.PhotoURLs, photoURL)
	s.logHistory(models.HistoryActionPhotoAdded, models.HistoryItemProject, project.Name, photoURL)
	return true
}

// RemoveProjectPhoto removes a photo URL from a project.
func (s *Store) RemoveProjectPhoto(id uuid.UUID, photoURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return false
	}

	for i, url := range project.PhotoURLs {
		if url == photoURL {
			project.PhotoURLs = append(project.PhotoURLs[:i], project.PhotoURLs[i+1:]...)
			s.logHistory(models.HistoryActionPhotoDeleted, models.HistoryItemProject, project.Name, photoURL)
			return true
		}
	}
	return false
}
