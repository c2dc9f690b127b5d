package services

import (
	"testing"
	"time"

	"upkeep/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTime_FallbackChain(t *testing.T) {
	t.Run("fractional seconds", func(t *testing.T) {
		decoded, err := DecodeTime("2025-06-01T12:30:45.123456+00:00")

		require.NoError(t, err)
		assert.Equal(t, 2025, decoded.Year())
		assert.Equal(t, 123456000, decoded.Nanosecond())
	})

	t.Run("without fractional seconds", func(t *testing.T) {
		decoded, err := DecodeTime("2025-06-01T12:30:45Z")

		require.NoError(t, err)
		assert.Equal(t, 45, decoded.Second())
		assert.Equal(t, 0, decoded.Nanosecond())
	})

	t.Run("both formats exhausted", func(t *testing.T) {
		_, err := DecodeTime("June 1st, 2025")

		var decodingErr *DecodingError
		require.ErrorAs(t, err, &decodingErr)
		assert.Equal(t, "June 1st, 2025", decodingErr.Literal)
	})
}

func TestEncodeTime_AlwaysFractionalUTC(t *testing.T) {
	encoded := EncodeTime(time.Date(2025, 6, 1, 12, 30, 45, 123456789, time.FixedZone("CET", 3600)))

	assert.Equal(t, "2025-06-01T11:30:45.123456Z", encoded)
}

func TestTaskRoundTrip(t *testing.T) {
	completed := time.Date(2025, 5, 20, 9, 15, 0, 0, time.UTC)
	task := models.Task{
		ID:                    uuid.Must(uuid.NewV7()),
		Name:                  "Clean Gutters",
		Status:                models.TaskStatusActive,
		Description:           "Front and back",
		LastCompletedDate:     &completed,
		IsCompleted:           false,
		CompletedSubtaskCount: 1,
		TotalSubtaskCount:     2,
		CreatedAt:             time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsRecurring:           true,
		RecurringInterval:     3,
		RecurringUnit:         models.RecurringUnitMonths,
	}

	record := EncodeTask(task)

	// The client never asserts authority over server-owned columns.
	assert.Nil(t, record.CreatedAt)
	assert.Nil(t, record.UpdatedAt)

	decoded, err := DecodeTask(record)
	require.NoError(t, err)

	// Equal in all fields except the server-only creation timestamp, which
	// only the echo carries.
	expected := task
	expected.CreatedAt = time.Time{}
	assert.Equal(t, expected, decoded)
}

func TestDecodeTask_ServerFields(t *testing.T) {
	createdAt := "2025-02-03T04:05:06.789+00:00"
	record := TaskRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      "Replace Filters",
		Status:    "To-Do",
		CreatedAt: &createdAt,
	}

	decoded, err := DecodeTask(record)

	require.NoError(t, err)
	assert.Equal(t, 2025, decoded.CreatedAt.Year())
	assert.Equal(t, models.TaskStatusToDo, decoded.Status)
}

func TestDecodeTask_UnknownStatusFallsBack(t *testing.T) {
	record := TaskRecord{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Name:   "Old Row",
		Status: "someday maybe",
	}

	decoded, err := DecodeTask(record)

	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusUnknown, decoded.Status)
}

func TestDecodeTask_BadRecurringUnitFails(t *testing.T) {
	record := TaskRecord{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Name:          "Water Plants",
		Status:        "Active",
		RecurringUnit: "fortnights",
	}

	_, err := DecodeTask(record)

	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "fortnights", decodingErr.Literal)
}

func TestDecodeTask_BadUUIDFails(t *testing.T) {
	_, err := DecodeTask(TaskRecord{ID: "not-a-uuid"})

	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "not-a-uuid", decodingErr.Literal)
}

func TestDecodeTask_BadTimestampFails(t *testing.T) {
	bad := "yesterday"
	record := TaskRecord{
		ID:                uuid.Must(uuid.NewV7()).String(),
		Status:            "Active",
		LastCompletedDate: &bad,
	}

	_, err := DecodeTask(record)

	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "yesterday", decodingErr.Literal)
}

func TestSubtaskRoundTrip(t *testing.T) {
	subtask := models.Subtask{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "Sand the door",
		IsCompleted: true,
		TaskID:      uuid.Must(uuid.NewV7()),
		PhotoURLs:   []string{"https://example.com/a.jpg"},
	}

	decoded, err := DecodeSubtask(EncodeSubtask(subtask))

	require.NoError(t, err)
	assert.Equal(t, subtask, decoded)
}

func TestWorkerRoundTrip(t *testing.T) {
	projectID := uuid.Must(uuid.NewV7())
	visitDate := time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC)
	worker := models.Worker{
		ID:             uuid.Must(uuid.NewV7()),
		Name:           "Sam Rivera",
		Company:        "Rivera Plumbing",
		Phone:          "555-0134",
		Email:          "sam@example.com",
		Specialization: "Plumbing",
		ServiceTypes:   []string{"plumbing", "heating"},
		ScheduleType:   models.ScheduleTypeBiWeekly,
		IsScheduled:    true,
		NextVisit:      &visitDate,
		ScheduledVisits: []models.ScheduledVisit{
			{
				ID:    uuid.Must(uuid.NewV7()),
				Date:  visitDate,
				Notes: "Check water heater",
				Checklist: []models.ChecklistItem{
					{ID: uuid.Must(uuid.NewV7()), Title: "Flush tank", IsCompleted: true},
				},
				ProjectID: &projectID,
			},
		},
		PhotoURL: "https://example.com/sam.jpg",
	}

	decoded, err := DecodeWorker(EncodeWorker(worker))

	require.NoError(t, err)
	assert.Equal(t, worker, decoded)
}

func TestDecodeWorker_UnknownScheduleTypeFallsBack(t *testing.T) {
	record := WorkerRecord{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         "Imported Contact",
		ScheduleType: "whenever",
	}

	decoded, err := DecodeWorker(record)

	require.NoError(t, err)
	assert.Equal(t, models.ScheduleTypeUnknown, decoded.ScheduleType)
}

func TestProjectRoundTrip(t *testing.T) {
	project := models.Project{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        "Deck Rebuild",
		Status:      models.ProjectStatusActive,
		Description: "Replace rotted boards",
		DueDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		NextStep:    "Order lumber",
		PhotoURLs:   []string{"https://example.com/deck.jpg"},
		ProgressLog: []models.ProgressLogEntry{
			{
				ID:        uuid.Must(uuid.NewV7()),
				Date:      time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
				Text:      "Demo complete",
				PhotoURLs: []string{},
			},
		},
		AssignedWorkers: []models.WorkerAssignment{
			{
				AssignmentID: uuid.Must(uuid.NewV7()),
				WorkerID:     uuid.Must(uuid.NewV7()),
				Role:         "Carpenter",
			},
		},
	}

	decoded, err := DecodeProject(EncodeProject(project))

	require.NoError(t, err)
	assert.Equal(t, project, decoded)
}

func TestHistoryEntryRoundTrip(t *testing.T) {
	entry := models.HistoryEntry{
		ID:        uuid.Must(uuid.NewV7()),
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Action:    models.HistoryActionPhotoAdded,
		ItemType:  models.HistoryItemSubtask,
		ItemName:  "Sand the door",
		PhotoURL:  "https://example.com/door.jpg",
	}

	decoded, err := DecodeHistoryEntry(EncodeHistoryEntry(entry))

	require.NoError(t, err)
	assert.Equal(t, entry, decoded)
}

func TestDecodeHistoryEntry_UnknownActionFails(t *testing.T) {
	record := HistoryRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Timestamp: EncodeTime(time.Now()),
		Action:    "archived",
		ItemType:  "task",
	}

	_, err := DecodeHistoryEntry(record)

	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "archived", decodingErr.Literal)
}

func TestDecodeHistoryEntry_UnknownItemTypeFails(t *testing.T) {
	record := HistoryRecord{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Timestamp: EncodeTime(time.Now()),
		Action:    "created",
		ItemType:  "appliance",
	}

	_, err := DecodeHistoryEntry(record)

	var decodingErr *DecodingError
	require.ErrorAs(t, err, &decodingErr)
	assert.Equal(t, "appliance", decodingErr.Literal)
}
