package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OverdueSalesJob manages the scheduled scan for unpaid sales past their
// due date. Runs every minute and moves matching sales to OVERDUE.
type OverdueSalesJob struct {
	handler commands.MarkOverdueSalesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOverdueSalesJob creates a new job for flagging overdue sales.
// Uses MarkOverdueSalesCommandHandler to process the scan every minute.
func NewOverdueSalesJob(handler commands.MarkOverdueSalesCommandHandler, logger *slog.Logger) *OverdueSalesJob {
	return &OverdueSalesJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "overdue_sales_job"),
	}
}

// Start begins the overdue sales job to run every minute.
func (j *OverdueSalesJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewMarkOverdueSalesCommand(time.Now().UTC())
		if err != nil {
			j.logger.ErrorContext(ctx, "Overdue sales job misconfigured", "error", err)
			return
		}

		marked, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Overdue sales job failed", "error", err)
			return
		}
		if marked > 0 {
			j.logger.InfoContext(ctx, "Marked overdue sales", "count", marked)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Overdue sales job started (running every minute)")
	return nil
}

// Stop stops the overdue sales job.
func (j *OverdueSalesJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Overdue sales job stopped")
}
