package jobs

import (
	"context"
	"testing"

	"upkeep/internal/services"
	"upkeep/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueRefreshJob(t *testing.T) {
	domainStore := store.New(nil, nil)
	job := NewOverdueRefreshJob(domainStore, services.Hourly)

	assert.Equal(t, "OverdueStatusRefresh", job.Name())
	assert.Equal(t, services.Hourly, job.Schedule())

	// No tasks yet; the refresh is a no-op and must not fail.
	require.NoError(t, job.Execute(context.Background()))
}

func TestOverdueRefreshJob_RegistersWithScheduler(t *testing.T) {
	scheduler := services.NewSchedulerService()
	job := NewOverdueRefreshJob(store.New(nil, nil), services.Hourly)

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.Start(context.Background()))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(context.Background()))
	assert.False(t, scheduler.IsRunning())
}
