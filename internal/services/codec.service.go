package services

import (
	"time"

	"upkeep/internal/models"

	"github.com/google/uuid"
)

// Wire records mirror the Supabase table shapes. The json tags are the
// field-name translation table between the domain's camelCase convention and
// the wire's snake_case convention. The server-owned created_at/updated_at
// columns are accepted on decode and always omitted on encode; the client
// never asserts authority over them.

type TaskRecord struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Status                string  `json:"status"`
	Description           string  `json:"description"`
	LastCompletedDate     *string `json:"last_completed_date,omitempty"`
	IsCompleted           bool    `json:"is_completed"`
	CompletedSubtaskCount int     `json:"completed_subtask_count"`
	TotalSubtaskCount     int     `json:"total_subtask_count"`
	IsRecurring           bool    `json:"is_recurring"`
	RecurringInterval     int     `json:"recurring_interval,omitempty"`
	RecurringUnit         string  `json:"recurring_unit,omitempty"`
	CreatedAt             *string `json:"created_at,omitempty"`
	UpdatedAt             *string `json:"updated_at,omitempty"`
}

type SubtaskRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	IsCompleted bool     `json:"is_completed"`
	TaskID      string   `json:"task_id"`
	PhotoURLs   []string `json:"photo_urls"`
	CreatedAt   *string  `json:"created_at,omitempty"`
	UpdatedAt   *string  `json:"updated_at,omitempty"`
}

type ProgressLogRecord struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	Text      string   `json:"text"`
	PhotoURLs []string `json:"photo_urls"`
}

type AssignmentRecord struct {
	AssignmentID string `json:"assignment_id"`
	WorkerID     string `json:"worker_id"`
	Role         string `json:"role"`
}

type ProjectRecord struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Status          string              `json:"status"`
	Description     string              `json:"description"`
	DueDate         string              `json:"due_date"`
	NextStep        string              `json:"next_step"`
	PhotoURLs       []string            `json:"photo_urls"`
	ProgressLog     []ProgressLogRecord `json:"progress_log"`
	AssignedWorkers []AssignmentRecord  `json:"assigned_workers"`
	CreatedAt       *string             `json:"created_at,omitempty"`
	UpdatedAt       *string             `json:"updated_at,omitempty"`
}

type ChecklistItemRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

type VisitRecord struct {
	ID        string                `json:"id"`
	Date      string                `json:"date"`
	Notes     string                `json:"notes"`
	Checklist []ChecklistItemRecord `json:"checklist"`
	IsDone    bool                  `json:"is_done"`
	ProjectID *string               `json:"project_id,omitempty"`
}

type WorkerRecord struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Company         string        `json:"company"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email,omitempty"`
	Specialization  string        `json:"specialization"`
	ServiceTypes    []string      `json:"service_types"`
	ScheduleType    string        `json:"schedule_type"`
	IsScheduled     bool          `json:"is_scheduled"`
	NextVisit       *string       `json:"next_visit,omitempty"`
	ScheduledVisits []VisitRecord `json:"scheduled_visits"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	CreatedAt       *string       `json:"created_at,omitempty"`
	UpdatedAt       *string       `json:"updated_at,omitempty"`
}

type HistoryRecord struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Action    string  `json:"action"`
	ItemType  string  `json:"item_type"`
	ItemName  string  `json:"item_name"`
	PhotoURL  string  `json:"photo_url,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
}

// wireTimeLayouts is the timestamp decode fallback chain: ISO-8601 with
// fractional seconds first, then without.
var wireTimeLayouts = []string{time.RFC3339Nano, time.RFC3339}

const wireTimeEncodeLayout = "2006-01-02T15:04:05.000000Z07:00"

// EncodeTime always emits ISO-8601 with fractional seconds, in UTC.
func EncodeTime(t time.Time) string {
	return t.UTC().Format(wireTimeEncodeLayout)
}

// DecodeTime walks the fallback chain and fails with a DecodingError
// carrying the offending literal when both formats are exhausted.
func DecodeTime(literal string) (time.Time, error) {
	var lastErr error
	for _, layout := range wireTimeLayouts {
		t, err := time.Parse(layout, literal)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &DecodingError{Literal: literal, Err: lastErr}
}

func encodeTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := EncodeTime(*t)
	return &s
}

func decodeTimePtr(literal *string) (*time.Time, error) {
	if literal == nil || *literal == "" {
		return nil, nil
	}
	t, err := DecodeTime(*literal)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func decodeUUID(literal string) (uuid.UUID, error) {
	id, err := uuid.Parse(literal)
	if err != nil {
		return uuid.Nil, &DecodingError{Literal: literal, Err: err}
	}
	return id, nil
}

func decodeUUIDPtr(literal *string) (*uuid.UUID, error) {
	if literal == nil || *literal == "" {
		return nil, nil
	}
	id, err := decodeUUID(*literal)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// decodeTaskStatus substitutes TaskStatusUnknown for unrecognized values.
// Older task rows carry free-form statuses, so this field tolerates them.
func decodeTaskStatus(literal string) models.TaskStatus {
	switch s := models.TaskStatus(literal); s {
	case models.TaskStatusToDo, models.TaskStatusActive,
		models.TaskStatusOverdue, models.TaskStatusWaiting:
		return s
	default:
		return models.TaskStatusUnknown
	}
}

// decodeProjectStatus tolerates unrecognized values the same way task
// statuses do.
func decodeProjectStatus(literal string) models.ProjectStatus {
	switch s := models.ProjectStatus(literal); s {
	case models.ProjectStatusPlanning, models.ProjectStatusActive,
		models.ProjectStatusOnHold, models.ProjectStatusCompleted:
		return s
	default:
		return models.ProjectStatusUnknown
	}
}

// decodeScheduleType tolerates unrecognized values; workers imported from
// the contact book arrive without a meaningful schedule.
func decodeScheduleType(literal string) models.ScheduleType {
	switch s := models.ScheduleType(literal); s {
	case models.ScheduleTypeOneTime, models.ScheduleTypeWeekly,
		models.ScheduleTypeBiWeekly, models.ScheduleTypeMonthly:
		return s
	default:
		return models.ScheduleTypeUnknown
	}
}

// decodeRecurringUnit is strict: an unrecognized unit would silently break
// due-date math, so it fails decode. Empty is valid for non-recurring tasks.
func decodeRecurringUnit(literal string) (models.RecurringUnit, error) {
	switch u := models.RecurringUnit(literal); u {
	case "", models.RecurringUnitDays, models.RecurringUnitWeeks, models.RecurringUnitMonths:
		return u, nil
	default:
		return "", &DecodingError{Literal: literal}
	}
}

// decodeHistoryAction is strict; history is a closed vocabulary.
func decodeHistoryAction(literal string) (models.HistoryAction, error) {
	switch a := models.HistoryAction(literal); a {
	case models.HistoryActionCreated, models.HistoryActionCompleted,
		models.HistoryActionEdited, models.HistoryActionDeleted,
		models.HistoryActionPhotoAdded, models.HistoryActionPhotoDeleted,
		models.HistoryActionContacted:
		return a, nil
	default:
		return "", &DecodingError{Literal: literal}
	}
}

func decodeHistoryItemType(literal string) (models.HistoryItemType, error) {
	switch it := models.HistoryItemType(literal); it {
	case models.HistoryItemTask, models.HistoryItemProject,
		models.HistoryItemWorker, models.HistoryItemSubtask:
		return it, nil
	default:
		return "", &DecodingError{Literal: literal}
	}
}

func EncodeTask(t models.Task) TaskRecord {
	return TaskRecord{
		ID:                    t.ID.String(),
		Name:                  t.Name,
		Status:                string(t.Status),
		Description:           t.Description,
		LastCompletedDate:     encodeTimePtr(t.LastCompletedDate),
		IsCompleted:           t.IsCompleted,
		CompletedSubtaskCount: t.CompletedSubtaskCount,
		TotalSubtaskCount:     t.TotalSubtaskCount,
		IsRecurring:           t.IsRecurring,
		RecurringInterval:     t.RecurringInterval,
		RecurringUnit:         string(t.RecurringUnit),
	}
}

func DecodeTask(r TaskRecord) (models.Task, error) {
	id, err := decodeUUID(r.ID)
	if err != nil {
		return models.Task{}, err
	}

	lastCompleted, err := decodeTimePtr(r.LastCompletedDate)
	if err != nil {
		return models.Task{}, err
	}

	unit, err := decodeRecurringUnit(r.RecurringUnit)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:                    id,
		Name:                  r.Name,
		Status:                decodeTaskStatus(r.Status),
		Description:           r.Description,
		LastCompletedDate:     lastCompleted,
		IsCompleted:           r.IsCompleted,
		CompletedSubtaskCount: r.CompletedSubtaskCount,
		TotalSubtaskCount:     r.TotalSubtaskCount,
		IsRecurring:           r.IsRecurring,
		RecurringInterval:     r.RecurringInterval,
		RecurringUnit:         unit,
	}

	if r.CreatedAt != nil {
		createdAt, err := DecodeTime(*r.CreatedAt)
		if err != nil {
			return models.Task{}, err
		}
		task.CreatedAt = createdAt
	}

	return task, nil
}

func EncodeSubtask(s models.Subtask) SubtaskRecord {
	return SubtaskRecord{
		ID:          s.ID.String(),
		Name:        s.Name,
		IsCompleted: s.IsCompleted,
		TaskID:      s.TaskID.String(),
		PhotoURLs:   s.PhotoURLs,
	}
}

func DecodeSubtask(r SubtaskRecord) (models.Subtask, error) {
	id, err := decodeUUID(r.ID)
	if err != nil {
		return models.Subtask{}, err
	}

	taskID, err := decodeUUID(r.TaskID)
	if err != nil {
		return models.Subtask{}, err
	}

	return models.Subtask{
		ID:          id,
		Name:        r.Name,
		IsCompleted: r.IsCompleted,
		TaskID:      taskID,
		PhotoURLs:   r.PhotoURLs,
	}, nil
}

func EncodeProject(p models.Project) ProjectRecord {
	progressLog := make([]ProgressLogRecord, 0, len(p.ProgressLog))
	for _, entry := range p.ProgressLog {
		progressLog = append(progressLog, ProgressLogRecord{
			ID:        entry.ID.String(),
			Date:      EncodeTime(entry.Date),
			Text:      entry.Text,
			PhotoURLs: entry.PhotoURLs,
		})
	}

	assignments := make([]AssignmentRecord, 0, len(p.AssignedWorkers))
	for _, assignment := range p.AssignedWorkers {
		assignments = append(assignments, AssignmentRecord{
			AssignmentID: assignment.AssignmentID.String(),
			WorkerID:     assignment.WorkerID.String(),
			Role:         assignment.Role,
		})
	}

	return ProjectRecord{
		ID:              p.ID.String(),
		Name:            p.Name,
		Status:          string(p.Status),
		Description:     p.Description,
		DueDate:         EncodeTime(p.DueDate),
		NextStep:        p.NextStep,
		PhotoURLs:       p.PhotoURLs,
		ProgressLog:     progressLog,
		AssignedWorkers: assignments,
	}
}

func DecodeProject(r ProjectRecord) (models.Project, error) {
	id, err := decodeUUID(r.ID)
	if err != nil {
		return models.Project{}, err
	}

	dueDate, err := DecodeTime(r.DueDate)
	if err != nil {
		return models.Project{}, err
	}

	progressLog := make([]models.ProgressLogEntry, 0, len(r.ProgressLog))
	for _, entry := range r.ProgressLog {
		entryID, err := decodeUUID(entry.ID)
		if err != nil {
			return models.Project{}, err
		}
		date, err := DecodeTime(entry.Date)
		if err != nil {
			return models.Project{}, err
		}
		progressLog = append(progressLog, models.ProgressLogEntry{
			ID:        entryID,
			Date:      date,
			Text:      entry.Text,
			PhotoURLs: entry.PhotoURLs,
		})
	}

	assignments := make([]models.WorkerAssignment, 0, len(r.AssignedWorkers))
	for _, assignment := range r.AssignedWorkers {
		assignmentID, err := decodeUUID(assignment.AssignmentID)
		if err != nil {
			return models.Project{}, err
		}
		workerID, err := decodeUUID(assignment.WorkerID)
		if err != nil {
			return models.Project{}, err
		}
		assignments = append(assignments, models.WorkerAssignment{
			AssignmentID: assignmentID,
			WorkerID:     workerID,
			Role:         assignment.Role,
		})
	}

	project := models.Project{
		ID:              id,
		Name:            r.Name,
		Status:          decodeProjectStatus(r.Status),
		Description:     r.Description,
		DueDate:         dueDate,
		NextStep:        r.NextStep,
		PhotoURLs:       r.PhotoURLs,
		ProgressLog:     progressLog,
		AssignedWorkers: assignments,
	}

	if r.CreatedAt != nil {
		createdAt, err := DecodeTime(*r.CreatedAt)
		if err != nil {
			return models.Project{}, err
		}
		project.CreatedAt = createdAt
	}

	return project, nil
}

func EncodeWorker(w models.Worker) WorkerRecord {
	visits := make([]VisitRecord, 0, len(w.ScheduledVisits))
	for _, visit := range w.ScheduledVisits {
		checklist := make([]ChecklistItemRecord, 0, len(visit.Checklist))
		for _, item := range visit.Checklist {
			checklist = append(checklist, ChecklistItemRecord{
				ID:          item.ID.String(),
				Title:       item.Title,
				IsCompleted: item.IsCompleted,
			})
		}

		record := VisitRecord{
			ID:        visit.ID.String(),
			Date:      EncodeTime(visit.Date),
			Notes:     visit.Notes,
			Checklist: checklist,
			IsDone:    visit.IsDone,
		}
		if visit.ProjectID != nil {
			projectID := visit.ProjectID.String()
			record.ProjectID = &projectID
		}
		visits = append(visits, record)
	}

	return WorkerRecord{
		ID:              w.ID.String(),
		Name:            w.Name,
		Company:         w.Company,
		Phone:           w.Phone,
		Email:           w.Email,
		Specialization:  w.Specialization,
		ServiceTypes:    w.ServiceTypes,
		ScheduleType:    string(w.ScheduleType),
		IsScheduled:     w.IsScheduled,
		NextVisit:       encodeTimePtr(w.NextVisit),
		ScheduledVisits: visits,
		PhotoURL:        w.PhotoURL,
	}
}

func DecodeWorker(r WorkerRecord) (models.Worker, error) {
	id, err := decodeUUID(r.ID)
	if err != nil {
		return models.Worker{}, err
	}

	nextVisit, err := decodeTimePtr(r.NextVisit)
	if err != nil {
		return models.Worker{}, err
	}

	visits := make([]models.ScheduledVisit, 0, len(r.ScheduledVisits))
	for _, record := range r.ScheduledVisits {
		visitID, err := decodeUUID(record.ID)
		if err != nil {
			return models.Worker{}, err
		}
		date, err := DecodeTime(record.Date)
		if err != nil {
			return models.Worker{}, err
		}
		projectID, err := decodeUUIDPtr(record.ProjectID)
		if err != nil {
			return models.Worker{}, err
		}

		checklist := make([]models.ChecklistItem, 0, len(record.Checklist))
		for _, item := range record.Checklist {
			itemID, err := decodeUUID(item.ID)
			if err != nil {
				return models.Worker{}, err
			}
			checklist = append(checklist, models.ChecklistItem{
				ID:          itemID,
				Title:       item.Title,
				IsCompleted: item.IsCompleted,
			})
		}

		visits = append(visits, models.ScheduledVisit{
			ID:        visitID,
			Date:      date,
			Notes:     record.Notes,
			Checklist: checklist,
			IsDone:    record.IsDone,
			ProjectID: projectID,
		})
	}

	worker := models.Worker{
		ID:              id,
		Name:            r.Name,
		Company:         r.Company,
		Phone:           r.Phone,
		Email:           r.Email,
		Specialization:  r.Specialization,
		ServiceTypes:    r.ServiceTypes,
		ScheduleType:    decodeScheduleType(r.ScheduleType),
		IsScheduled:     r.IsScheduled,
		NextVisit:       nextVisit,
		ScheduledVisits: visits,
		PhotoURL:        r.PhotoURL,
	}

	if r.CreatedAt != nil {
		createdAt, err := DecodeTime(*r.CreatedAt)
		if err != nil {
			return models.Worker{}, err
		}
		worker.CreatedAt = createdAt
	}

	return worker, nil
}

func EncodeHistoryEntry(h models.HistoryEntry) HistoryRecord {
	return HistoryRecord{
		ID:        h.ID.String(),
		Timestamp: EncodeTime(h.Timestamp),
		Action:    string(h.Action),
		ItemType:  string(h.ItemType),
		ItemName:  h.ItemName,
		PhotoURL:  h.PhotoURL,
	}
}

func DecodeHistoryEntry(r HistoryRecord) (models.HistoryEntry, error) {
	id, err := decodeUUID(r.ID)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	timestamp, err := DecodeTime(r.Timestamp)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	action, err := decodeHistoryAction(r.Action)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	itemType, err := decodeHistoryItemType(r.ItemType)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	return models.HistoryEntry{
		ID:        id,
		Timestamp: timestamp,
		Action:    action,
		ItemType:  itemType,
		ItemName:  r.ItemName,
		PhotoURL:  r.PhotoURL,
	}, nil
}
