package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/veranemoloko/tinyshare/internal/domain"
	"github.com/veranemoloko/tinyshare/internal/mailbox"
	"github.com/veranemoloko/tinyshare/internal/metrics"
	"github.com/veranemoloko/tinyshare/internal/worker"
)

// Activator runs share activations: one worker task and one controller each.
type Activator struct {
	worker *worker.ShareWorker
	host   Host
	logger *slog.Logger
}

// NewActivator creates a new Activator.
func NewActivator(w *worker.ShareWorker, host Host, logger *slog.Logger) *Activator {
	return &Activator{
		worker: w,
		host:   host,
		logger: logger,
	}
}

// Activate shares req.OriginalURL and returns once the controller has ended
// the activation. The worker is not waited for: an HTTP call still in flight
// finishes on its own and its result is dropped.
func (a *Activator) Activate(ctx context.Context, req domain.Request) domain.Report {
	id := generateID()
	logger := a.logger.With("activation_id", id)

	metrics.ActivationsTotal.Inc()
	logger.Info("activation started", "url", req.OriginalURL)

	mb := mailbox.New()
	task := a.worker.NewTask(req).WithLogger(logger)

	// The task only stops on its own; the controller's lever is closing the mailbox.
	taskCtx := context.WithoutCancel(ctx)
	go func() {
		if _, err := task.Run(taskCtx, mb); err != nil {
			logger.Error("worker task did not run", "error", err)
		}
	}()

	report := NewController(a.host, req, logger).Run(ctx, mb)
	report.ActivationID = id

	logger.Info("activation finished",
		"shared_url", report.SharedURL,
		"copied", report.Copied,
		"dropped_messages", mb.Dropped(),
	)
	return report
}

func generateID() string {
	return uuid.New().String()
}
