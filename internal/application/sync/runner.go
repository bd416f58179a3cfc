package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

// Runner executes sync runs through the orchestrator and records their
// reports. Persistence is best effort: a run whose report cannot be saved
// still returns its results.
type Runner struct {
	orchestrator *Orchestrator
	runs         RunRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewRunner creates a runner. The repository may be nil, in which case
// reports are not recorded.
func NewRunner(orchestrator *Orchestrator, runs RunRepository, logger *zap.Logger) *Runner {
	return &Runner{
		orchestrator: orchestrator,
		runs:         runs,
		logger:       logger.Named("sync.runner"),
		now:          time.Now,
	}
}

// RunInventory imports inventory from all enabled connectors
func (r *Runner) RunInventory(ctx context.Context, filter connector.InventoryFilter) *Run {
	started := r.now()
	results := r.orchestrator.SyncInventory(ctx, filter)
	return r.record(ctx, RunKindInventory, started, results)
}

// RunOrders imports orders from all enabled connectors
func (r *Runner) RunOrders(ctx context.Context, filter connector.OrderFilter) *Run {
	started := r.now()
	results := r.orchestrator.SyncOrders(ctx, filter)
	return r.record(ctx, RunKindOrders, started, results)
}

// RunInventoryExport pushes inventory to the named connector, or all
// enabled connectors when code is empty.
func (r *Runner) RunInventoryExport(ctx context.Context, records []connector.InventoryRecord, code string) *Run {
	started := r.now()
	results := r.orchestrator.ExportInventory(ctx, records, code)
	return r.record(ctx, RunKindInventoryExport, started, results)
}

// RunOrdersExport pushes orders to the named connector, or all enabled
// connectors when code is empty.
func (r *Runner) RunOrdersExport(ctx context.Context, records []connector.OrderRecord, code string) *Run {
	started := r.now()
	results := r.orchestrator.ExportOrders(ctx, records, code)
	return r.record(ctx, RunKindOrdersExport, started, results)
}

func (r *Runner) record(ctx context.Context, kind RunKind, started time.Time, results connector.ResultMap) *Run {
	run := NewRun(kind, started, r.now(), results)

	r.logger.Info("Sync run completed",
		zap.String("kind", string(kind)),
		zap.Int("succeeded", run.Succeeded()),
		zap.Int("failed", run.Failed()),
		zap.Duration("duration", run.Duration()),
	)

	if r.runs != nil {
		if err := r.runs.Save(ctx, run); err != nil {
			r.logger.Error("Failed to save sync run report",
				zap.String("kind", string(kind)), zap.Error(err))
		}
	}
	return run
}
