package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"upkeep/config"
	"upkeep/internal/models"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncedStore(t *testing.T, handler http.Handler) (*Store, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	supabase, err := services.NewSupabaseService(config.Config{
		SupabaseURL:    server.URL,
		SupabaseKey:    "test-anon-key",
		SupabaseBucket: "photos",
	})
	require.NoError(t, err)

	return New(supabase, nil), server
}

// echoHandler replays the posted row back as a one-element array, stamping
// the server-owned timestamp the way PostgREST does.
func echoHandler(t *testing.T, createdAt string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var row map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		row["created_at"] = createdAt
		require.NoError(t, json.NewEncoder(w).Encode([]map[string]any{row}))
	})
}

func TestCreateTaskRemote_EchoCarriesServerTimestamp(t *testing.T) {
	s, _ := newSyncedStore(t, echoHandler(t, "2025-06-01T12:00:00.000000+00:00"))

	task := s.CreateTask("Paint Fence", "Back yard", 2, models.RecurringUnitWeeks, nil)

	synced, err := s.CreateTaskRemote(context.Background(), task.ID)

	require.NoError(t, err)
	assert.Equal(t, task.ID, synced.ID)
	assert.Equal(t, "Paint Fence", synced.Name)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), synced.CreatedAt.UTC())

	// The echo overwrote the local record too.
	current, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, synced.CreatedAt, current.CreatedAt)
}

func TestSaveTaskRemote_HTTPErrorLeavesLocalStateAlone(t *testing.T) {
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("conflict"))
	}))

	task := s.CreateTask("Paint Fence", "", 0, "", nil)
	before, _ := s.Task(task.ID)

	_, err := s.SaveTaskRemote(context.Background(), task.ID)

	var httpErr *services.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)

	after, _ := s.Task(task.ID)
	assert.Equal(t, before, after)
}

func TestSyncRemote_UnknownEntity(t *testing.T) {
	s, _ := newSyncedStore(t, echoHandler(t, "2025-06-01T12:00:00+00:00"))

	_, err := s.CreateTaskRemote(context.Background(), uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SaveWorkerRemote(context.Background(), uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateHistoryEntryRemote(context.Background(), uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveTaskRemote_EmptyRepresentation(t *testing.T) {
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))

	task := s.CreateTask("Paint Fence", "", 0, "", nil)

	_, err := s.SaveTaskRemote(context.Background(), task.ID)

	assert.ErrorIs(t, err, services.ErrInvalidResponse)
}

func TestDeleteTaskRemote_TargetsRow(t *testing.T) {
	var capturedMethod, capturedURL string
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedMethod = r.Method
		capturedURL = r.URL.String()
		w.WriteHeader(http.StatusNoContent)
	}))

	task := s.CreateTask("Paint Fence", "", 0, "", nil)

	require.NoError(t, s.DeleteTaskRemote(context.Background(), task.ID))

	assert.Equal(t, http.MethodDelete, capturedMethod)
	assert.Equal(t, "/rest/v1/tasks?id=eq."+task.ID.String(), capturedURL)
}

func TestSaveWorkerRemote_EchoReplacesLocalWorker(t *testing.T) {
	s, _ := newSyncedStore(t, echoHandler(t, "2025-06-01T12:00:00+00:00"))

	worker := s.CreateWorker(models.Worker{
		Name:         "Sam Rivera",
		ScheduleType: models.ScheduleTypeWeekly,
	})

	synced, err := s.SaveWorkerRemote(context.Background(), worker.ID)

	require.NoError(t, err)
	assert.Equal(t, worker.ID, synced.ID)
	assert.Equal(t, "Sam Rivera", synced.Name)

	current, ok := s.Worker(worker.ID)
	require.True(t, ok)
	assert.Equal(t, synced, current)
}

func TestCreateHistoryEntryRemote(t *testing.T) {
	var capturedPath string
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		var row map[string]any
		_ = json.NewDecoder(r.Body).Decode(&row)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
	}))

	s.CreateTask("Paint Fence", "", 0, "", nil)
	entry := s.History()[0]

	synced, err := s.CreateHistoryEntryRemote(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/history", capturedPath)
	assert.Equal(t, entry.ID, synced.ID)
	assert.Equal(t, models.HistoryActionCreated, synced.Action)
}

func TestFetchTasksRemote_ReplacesLocalCollection(t *testing.T) {
	remoteID := uuid.Must(uuid.NewV7())
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":         remoteID.String(),
				"name":       "Remote Task",
				"status":     "Active",
				"created_at": "2025-05-01T00:00:00+00:00",
			},
		})
	}))

	stale := s.CreateTask("Stale Local Task", "", 0, "", nil)

	tasks, err := s.FetchTasksRemote(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Remote Task", tasks[0].Name)
	assert.Equal(t, models.TaskStatusActive, tasks[0].Status)

	_, ok := s.Task(stale.ID)
	assert.False(t, ok)
	fetched, ok := s.Task(remoteID)
	require.True(t, ok)
	assert.Equal(t, "Remote Task", fetched.Name)
}

func TestFetchTasksRemote_PrunesOrphanedSubtasks(t *testing.T) {
	remoteID := uuid.Must(uuid.NewV7())
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":         remoteID.String(),
				"name":       "Remote Task",
				"status":     "Active",
				"created_at": "2025-05-01T00:00:00+00:00",
			},
		})
	}))

	stale := s.CreateTask("Stale Local Task", "", 0, "", []string{"Sand", "Paint"})
	staleSubtasks := s.SubtasksForTask(stale.ID)
	require.Len(t, staleSubtasks, 2)

	_, err := s.FetchTasksRemote(context.Background())

	require.NoError(t, err)
	// The replaced task's subtasks go with it; none may survive a deleted
	// parent.
	assert.Empty(t, s.SubtasksForTask(stale.ID))
	for _, subtask := range staleSubtasks {
		_, ok := s.Subtask(subtask.ID)
		assert.False(t, ok)
	}
}

func TestFetchTasksRemote_RecountsSurvivingTasks(t *testing.T) {
	var localID uuid.UUID
	s, _ := newSyncedStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The remote row carries counts that disagree with the local
		// subtask set; the local rows win the recount.
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":                      localID.String(),
				"name":                    "Paint Fence",
				"status":                  "Active",
				"is_completed":            true,
				"completed_subtask_count": 5,
				"total_subtask_count":     5,
				"created_at":              "2025-05-01T00:00:00+00:00",
			},
		})
	}))

	task := s.CreateTask("Paint Fence", "", 0, "", []string{"Sand", "Paint"})
	localID = task.ID
	subtasks := s.SubtasksForTask(task.ID)
	_, ok := s.ToggleSubtaskCompletion(subtasks[0].ID)
	require.True(t, ok)

	tasks, err := s.FetchTasksRemote(context.Background())

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].TotalSubtaskCount)
	assert.Equal(t, 1, tasks[0].CompletedSubtaskCount)
	assert.False(t, tasks[0].IsCompleted)

	current, found := s.Task(task.ID)
	require.True(t, found)
	assert.Equal(t, 2, current.TotalSubtaskCount)
	assert.Equal(t, 1, current.CompletedSubtaskCount)
	assert.False(t, current.IsCompleted)
	assert.Len(t, s.SubtasksForTask(task.ID), 2)
}

func TestSaveSubtaskRemote_EchoReplacesLocalSubtask(t *testing.T) {
	s, _ := newSyncedStore(t, echoHandler(t, "2025-06-01T12:00:00+00:00"))

	task := s.CreateTask("Paint Fence", "", 0, "", []string{"Sand"})
	subtask := s.SubtasksForTask(task.ID)[0]

	synced, err := s.SaveSubtaskRemote(context.Background(), subtask.ID)

	require.NoError(t, err)
	assert.Equal(t, subtask.ID, synced.ID)
	assert.Equal(t, "Sand", synced.Name)
	assert.Equal(t, task.ID, synced.TaskID)
}

func TestSaveProjectRemote_EchoReplacesLocalProject(t *testing.T) {
	s, _ := newSyncedStore(t, echoHandler(t, "2025-06-01T12:00:00+00:00"))

	project := s.CreateProject(models.Project{
		Name:    "Deck Rebuild",
		DueDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	synced, err := s.SaveProjectRemote(context.Background(), project.ID)

	require.NoError(t, err)
	assert.Equal(t, project.ID, synced.ID)
	assert.Equal(t, "Deck Rebuild", synced.Name)
	assert.Equal(t, models.ProjectStatusPlanning, synced.Status)
}
