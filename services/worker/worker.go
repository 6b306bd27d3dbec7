package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"pricetracker/internal/model"
	"pricetracker/logger"
)

// BatchRunner runs one pass over all active sources. Implemented by the
// scrape orchestrator.
type BatchRunner interface {
	ScrapeAllActive(ctx context.Context) (*model.BatchResult, error)
}

// Worker triggers batch scrapes on a fixed cadence. The cadence lives here,
// in configuration; the orchestrator itself exposes no scheduling logic.
type Worker struct {
	ctx      context.Context
	runner   BatchRunner
	schedule string
	cron     *cron.Cron
	log      *logger.Logger
}

// NewWorker creates a worker that runs the batch on the given cron schedule
// (e.g. "@every 1h").
func NewWorker(ctx context.Context, runner BatchRunner, schedule string) *Worker {
	return &Worker{
		ctx:      ctx,
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(),
		log:      logger.ForWorker(),
	}
}

// Start registers the schedule, runs one batch immediately, and blocks until
// the worker's context is cancelled.
func (w *Worker) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.runBatch); err != nil {
		return fmt.Errorf("invalid scrape schedule %q: %w", w.schedule, err)
	}

	w.log.Info().Str("schedule", w.schedule).Msg("Starting scrape worker")

	w.runBatch()
	w.cron.Start()

	<-w.ctx.Done()

	stopCtx := w.cron.Stop()
	// Let an in-flight batch finish before reporting shutdown.
	<-stopCtx.Done()
	w.log.Info().Msg("Scrape worker stopped")
	return nil
}

// runBatch executes one batch pass and logs its outcome.
func (w *Worker) runBatch() {
	start := time.Now()

	result, err := w.runner.ScrapeAllActive(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Batch scrape failed")
		return
	}

	w.log.Info().
		Int("success", result.Success).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("Batch scrape pass complete")
}
