package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"upkeep/internal/app"
	"upkeep/pkg/logger"
)

func gracefulShutdown(app *app.App, done chan bool, log logger.Logger) {
	log = log.Function("gracefulShutdown")

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")

	if err := app.Close(); err != nil {
		log.Er("failed to close app", err)
	}

	log.Info("Tracker exiting")
	done <- true
}

func main() {
	log := logger.New("main")

	app, err := app.New()
	if err != nil {
		os.Exit(1)
	}

	if err := app.SchedulerService.Start(context.Background()); err != nil {
		log.Er("failed to start scheduler", err)
		os.Exit(1)
	}

	log.Info("Tracker started", "environment", app.Config.Environment)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(app, done, log)

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete.")
}
