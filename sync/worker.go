package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"notes-server/models"
	"notes-server/pkg/keylock"
	"notes-server/storage"

	"github.com/robfig/cron/v3"
)

// Repository is the read side of the note store needed by the reconciler
type Repository interface {
	ListNotes(ctx context.Context, search string) ([]models.Note, error)
	GetNote(ctx context.Context, id int64) (*models.Note, error)
}

// Worker repairs divergence between the notes table and the mirror directory.
// See executor.go for the sweep itself.
type Worker struct {
	repo     Repository
	mirror   storage.Mirror
	locks    *keylock.Locker
	logger   *slog.Logger
	schedule string
	cron     *cron.Cron
	running  bool
	mu       sync.Mutex
	sweepMu  sync.Mutex
}

// NewWorker creates a reconciler. locks must be the same locker the note service uses.
// An empty schedule disables background sweeps; Reconcile can still be called directly.
func NewWorker(repo Repository, mirror storage.Mirror, locks *keylock.Locker, logger *slog.Logger, schedule string) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		repo:     repo,
		mirror:   mirror,
		locks:    locks,
		logger:   logger.With("component", "reconciler"),
		schedule: schedule,
	}
}

// Start begins scheduled background sweeps
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running || w.schedule == "" {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, w.runScheduled); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", w.schedule, err)
	}

	w.logger.Info("starting background reconciler", "schedule", w.schedule)
	c.Start()
	w.cron = c
	w.running = true
	return nil
}

// Stop halts scheduling and waits for a sweep in progress to finish
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.cron = nil
	w.mu.Unlock()

	w.logger.Info("stopping background reconciler")
	<-c.Stop().Done()
}

func (w *Worker) runScheduled() {
	report, err := w.Reconcile(context.Background(), false)
	if err != nil {
		w.logger.Error("scheduled sweep failed", "error", err)
		return
	}
	if report.Repaired() > 0 || len(report.Failed) > 0 {
		w.logger.Info("scheduled sweep repaired mirror",
			"restored", len(report.Restored),
			"rewritten", len(report.Rewritten),
			"removed", len(report.Removed),
			"failed", len(report.Failed),
		)
	}
}
