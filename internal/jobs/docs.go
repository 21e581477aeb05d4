// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the order fulfillment service.
//
// # Available Jobs
//
// 1. OverdueSalesJob - Runs every minute to flag unpaid sales whose due date has passed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(markOverdueSalesHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The overdue scan uses the cron expression "0 * * * * *", running at the
// top of every minute. Due dates carry day precision, so a tighter
// schedule would only rescan the same rows.
//
// # Error Handling
//
// - Overdue scan errors are logged and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
