package jobs

import (
	"context"

	"upkeep/internal/services"
	"upkeep/internal/store"
	"upkeep/pkg/logger"
)

// OverdueRefreshJob periodically recomputes the Overdue status of recurring
// tasks so that a task whose due date passes while the app is idle still
// shows up as overdue. Purely local; it never triggers a remote sync.
type OverdueRefreshJob struct {
	store    *store.Store
	log      logger.Logger
	schedule services.Schedule
}

func NewOverdueRefreshJob(domainStore *store.Store, schedule services.Schedule) *OverdueRefreshJob {
	log := logger.New("overdueRefreshJob")
	log.Info("Creating new overdue refresh job", "schedule", schedule)

	return &OverdueRefreshJob{
		store:    domainStore,
		log:      log,
		schedule: schedule,
	}
}

func (j *OverdueRefreshJob) Name() string {
	return "OverdueStatusRefresh"
}

func (j *OverdueRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	changed := j.store.RefreshOverdueStatuses()
	if changed > 0 {
		log.Info("Refreshed overdue statuses", "changed", changed)
	} else {
		log.Debug("No overdue status changes")
	}

	return nil
}

func (j *OverdueRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
