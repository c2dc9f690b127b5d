package app

import (
	"context"

	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/jobs"
	"upkeep/internal/services"
	"upkeep/internal/store"
	"upkeep/pkg/logger"
)

type App struct {
	Config   config.Config
	Database database.DB
	Supabase *services.SupabaseService

	// Services
	SchedulerService *services.SchedulerService

	// Store
	Store *store.Store
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	supabase, err := services.NewSupabaseService(config)
	if err != nil {
		return &App{}, log.Err("failed to create Supabase service", err)
	}

	schedulerService := services.NewSchedulerService()
	domainStore := store.New(supabase, &db)

	if config.SchedulerEnabled {
		overdueJob := jobs.NewOverdueRefreshJob(domainStore, services.Hourly)
		if err := schedulerService.AddJob(overdueJob); err != nil {
			return &App{}, log.Err("failed to register overdue refresh job", err)
		}
		log.Info("Registered overdue refresh job with scheduler")
	}

	app := &App{
		Config:           config,
		Database:         db,
		Supabase:         supabase,
		SchedulerService: schedulerService,
		Store:            domainStore,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Supabase,
		a.SchedulerService,
		a.Store,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.SchedulerService != nil {
		if closeErr := a.SchedulerService.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
