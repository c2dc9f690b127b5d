package store

import (
	"slices"

	"upkeep/internal/models"

	"github.com/google/uuid"
)

// CreateWorker stores a new worker from the given prototype, assigning its
// identity and deriving the next-visit field. The prototype is cloned first;
// the store never writes into the caller's slices.
func (s *Store) CreateWorker(prototype models.Worker) models.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker := prototype.Clone()
	worker.ID = newID()
	worker.CreatedAt = s.now()
	if worker.ScheduleType == "" {
		worker.ScheduleType = models.ScheduleTypeOneTime
	}
	for i := range worker.ScheduledVisits {
		if worker.ScheduledVisits[i].ID == uuid.Nil {
			worker.ScheduledVisits[i].ID = newID()
		}
	}

	s.workers[worker.ID] = &worker
	s.aggregation.RecomputeNextVisit(&worker)
	worker.IsScheduled = len(worker.ScheduledVisits) > 0

	s.logHistory(models.HistoryActionCreated, models.HistoryItemWorker, worker.Name, "")
	return worker.Clone()
}

// UpdateWorker replaces the editable fields of a worker. The visit list is
// owned by the visit operations below and is not replaced here.
func (s *Store) UpdateWorker(updated models.Worker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[updated.ID]
	if !ok {
		return false
	}

	worker.Name = updated.Name
	worker.Company = updated.Company
	worker.Phone = updated.Phone
	worker.Email = updated.Email
	worker.Specialization = updated.Specialization
	worker.ServiceTypes = slices.Clone(updated.ServiceTypes)
	worker.ScheduleType = updated.ScheduleType
	worker.PhotoURL = updated.PhotoURL

	s.logHistory(models.HistoryActionEdited, models.HistoryItemWorker, worker.Name, "")
	return true
}

// DeleteWorker removes a worker, its visits with it, and unassigns it from
// every project.
func (s *Store) DeleteWorker(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[id]
	if !ok {
		return false
	}

	delete(s.workers, id)

	for _, project := range s.projects {
		for i, assignment := range project.AssignedWorkers {
			if assignment.WorkerID == id {
				project.AssignedWorkers = append(
					project.AssignedWorkers[:i],
					project.AssignedWorkers[i+1:]...,
				)
				break
			}
		}
	}

	s.logHistory(models.HistoryActionDeleted, models.HistoryItemWorker, worker.Name, "")
	return true
}

// AddScheduledVisit appends a visit to a worker's list and recomputes the
// next-visit date.
func (s *Store) AddScheduledVisit(workerID uuid.UUID, visit models.ScheduledVisit) (models.Worker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return models.Worker{}, false
	}

	visit = visit.Clone()
	if visit.ID == uuid.Nil {
		visit.ID = newID()
	}
	for i := range visit.Checklist {
		if visit.Checklist[i].ID == uuid.Nil {
			visit.Checklist[i].ID = newID()
		}
	}

	worker.ScheduledVisits = append(worker.ScheduledVisits, visit)
	s.aggregation.RecomputeNextVisit(worker)
	worker.IsScheduled = true

	s.logHistory(models.HistoryActionEdited, models.HistoryItemWorker, worker.Name, "")
	return worker.Clone(), true
}

// RemoveScheduledVisit drops a visit from a worker's list and recomputes the
// next-visit date.
func (s *Store) RemoveScheduledVisit(workerID, visitID uuid.UUID) (models.Worker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return models.Worker{}, false
	}

	for i, visit := range worker.ScheduledVisits {
		if visit.ID == visitID {
			worker.ScheduledVisits = append(
				worker.ScheduledVisits[:i],
				worker.ScheduledVisits[i+1:]...,
			)
			s.aggregation.RecomputeNextVisit(worker)
			worker.IsScheduled = len(worker.ScheduledVisits) > 0
			s.logHistory(models.HistoryActionEdited, models.HistoryItemWorker, worker.Name, "")
			return worker.Clone(), true
		}
	}
	return models.Worker{}, false
}

// ToggleVisitCompletion flips a visit's done flag.
func (s *Store) ToggleVisitCompletion(workerID, visitID uuid.UUID) (models.Worker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return models.Worker{}, false
	}

	for i := range worker.ScheduledVisits {
		if worker.ScheduledVisits[i].ID == visitID {
			worker.ScheduledVisits[i].IsDone = !worker.ScheduledVisits[i].IsDone
			s.aggregation.RecomputeNextVisit(worker)
			return worker.Clone(), true
		}
	}
	return models.Worker{}, false
}

// ToggleVisitChecklistItem flips one checklist item on a visit.
func (s *Store) ToggleVisitChecklistItem(workerID, visitID, itemID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[workerID]
	if !ok {
		return false
	}

	for i := range worker.ScheduledVisits {
		if worker.ScheduledVisits[i].ID != visitID {
			continue
		}
		checklist := worker.ScheduledVisits[i].Checklist
		for j := range checklist {
			if checklist[j].ID == itemID {
				checklist[j].IsCompleted = !checklist[j].IsCompleted
				return true
			}
		}
	}
	return false
}

// LogWorkerContact records that the worker was contacted. The call itself
// (phone, message) happens in the UI layer.
func (s *Store) LogWorkerContact(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, ok := s.workers[id]
	if !ok {
		return false
	}

	s.logHistory(models.HistoryActionContacted, models.HistoryItemWorker, worker.Name, "")
	return true
}
