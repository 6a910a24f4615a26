package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reconciler removes enrollments no lecture references.
type Reconciler interface {
	ReconcileOrphans(ctx context.Context) (int, error)
}

// ReconcileWorker periodically sweeps orphaned attended subjects, left behind
// when a crash interrupts an enrollment between its two writes.
type ReconcileWorker struct {
	reconciler Reconciler
	interval   time.Duration
	log        zerolog.Logger
}

// NewReconcileWorker creates a new ReconcileWorker. An interval of zero or
// less disables it.
func NewReconcileWorker(reconciler Reconciler, interval time.Duration, log zerolog.Logger) *ReconcileWorker {
	return &ReconcileWorker{
		reconciler: reconciler,
		interval:   interval,
		log:        log.With().Str("component", "reconcile_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is done, then sweeps one last time.
// Call in a goroutine.
func (w *ReconcileWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info().Msg("Worker disabled")
		return
	}
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping, running final sweep...")
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.sweep(drainCtx)
			cancel()
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ReconcileWorker) sweep(ctx context.Context) {
	removed, err := w.reconciler.ReconcileOrphans(ctx)
	if err != nil {
		w.log.Error().Err(err).Int("removed", removed).Msg("Reconcile failed")
		return
	}
	w.log.Debug().Int("removed", removed).Msg("Reconcile complete")
}
