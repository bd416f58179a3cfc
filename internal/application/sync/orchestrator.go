package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/domain/shared"
)

// defaultMaxConcurrent bounds the connector fan-out when no limit is set
const defaultMaxConcurrent = 4

// Orchestrator drives sync runs across all enabled connectors. Each
// connector executes in its own failure domain: an error or panic in one
// is converted into that connector's SyncResult and never interrupts the
// others. Operations on different connectors run in parallel, bounded by
// maxConcurrent.
type Orchestrator struct {
	registry      connector.Registry
	bus           shared.EventBus
	logger        *zap.Logger
	maxConcurrent int
}

// NewOrchestrator creates a sync orchestrator
func NewOrchestrator(registry connector.Registry, bus shared.EventBus, logger *zap.Logger, maxConcurrent int) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Orchestrator{
		registry:      registry,
		bus:           bus,
		logger:        logger.Named("sync"),
		maxConcurrent: maxConcurrent,
	}
}

// SyncInventory imports inventory from every enabled connector. Imported
// records are published as an InventoryImported event for downstream
// consumers; the orchestrator itself does not persist stock.
func (o *Orchestrator) SyncInventory(ctx context.Context, filter connector.InventoryFilter) connector.ResultMap {
	return o.fanOut(ctx, o.registry.Enabled(ctx), func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult {
		o.logger.Info("Starting inventory sync", zap.String("connector", code))

		records, err := conn.ImportInventory(ctx, filter)
		if err != nil {
			o.logger.Error("Error syncing inventory",
				zap.String("connector", code), zap.Error(err))
			return connector.SyncResult{Success: false, Message: err.Error()}
		}

		if len(records) == 0 {
			return connector.SyncResult{
				Success: true,
				Message: fmt.Sprintf("No inventory items to import from %s", conn.Name()),
			}
		}

		if err := o.bus.Publish(ctx, connector.NewInventoryImported(code, records)); err != nil {
			o.logger.Error("Failed to publish inventory import event",
				zap.String("connector", code), zap.Error(err))
		}

		return connector.SyncResult{
			Success:  true,
			Imported: len(records),
			Message:  fmt.Sprintf("Successfully imported %d items from %s", len(records), conn.Name()),
		}
	})
}

// SyncOrders imports orders from every enabled connector
func (o *Orchestrator) SyncOrders(ctx context.Context, filter connector.OrderFilter) connector.ResultMap {
	return o.fanOut(ctx, o.registry.Enabled(ctx), func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult {
		o.logger.Info("Starting order sync", zap.String("connector", code))

		records, err := conn.ImportOrders(ctx, filter)
		if err != nil {
			o.logger.Error("Error syncing orders",
				zap.String("connector", code), zap.Error(err))
			return connector.SyncResult{Success: false, Message: err.Error()}
		}

		if len(records) == 0 {
			return connector.SyncResult{
				Success: true,
				Message: fmt.Sprintf("No orders to import from %s", conn.Name()),
			}
		}

		if err := o.bus.Publish(ctx, connector.NewOrdersImported(code, records)); err != nil {
			o.logger.Error("Failed to publish order import event",
				zap.String("connector", code), zap.Error(err))
		}

		return connector.SyncResult{
			Success:  true,
			Imported: len(records),
			Message:  fmt.Sprintf("Successfully imported %d orders from %s", len(records), conn.Name()),
		}
	})
}

// ExportInventory pushes inventory records to the named connector, or to
// every enabled connector when code is empty.
func (o *Orchestrator) ExportInventory(ctx context.Context, records []connector.InventoryRecord, code string) connector.ResultMap {
	targets, miss := o.exportTargets(ctx, code)
	if miss != nil {
		return miss
	}
	return o.fanOut(ctx, targets, func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult {
		o.logger.Info("Exporting inventory", zap.String("connector", code), zap.Int("count", len(records)))

		if err := conn.ExportInventory(ctx, records); err != nil {
			o.logger.Error("Error exporting inventory",
				zap.String("connector", code), zap.Error(err))
			return connector.SyncResult{Success: false, Message: err.Error()}
		}
		return connector.SyncResult{
			Success:  true,
			Exported: len(records),
			Message:  fmt.Sprintf("Successfully exported %d items to %s", len(records), conn.Name()),
		}
	})
}

// ExportOrders pushes order records to the named connector, or to every
// enabled connector when code is empty.
func (o *Orchestrator) ExportOrders(ctx context.Context, records []connector.OrderRecord, code string) connector.ResultMap {
	targets, miss := o.exportTargets(ctx, code)
	if miss != nil {
		return miss
	}
	return o.fanOut(ctx, targets, func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult {
		o.logger.Info("Exporting orders", zap.String("connector", code), zap.Int("count", len(records)))

		if err := conn.ExportOrders(ctx, records); err != nil {
			o.logger.Error("Error exporting orders",
				zap.String("connector", code), zap.Error(err))
			return connector.SyncResult{Success: false, Message: err.Error()}
		}
		return connector.SyncResult{
			Success:  true,
			Exported: len(records),
			Message:  fmt.Sprintf("Successfully exported %d orders to %s", len(records), conn.Name()),
		}
	})
}

// exportTargets resolves which connectors an export addresses. A named
// connector that is unknown or disabled produces an immediate failed
// result map instead of an empty run.
func (o *Orchestrator) exportTargets(ctx context.Context, code string) (map[string]connector.Connector, connector.ResultMap) {
	if code == "" {
		return o.registry.Enabled(ctx), nil
	}

	conn, ok := o.registry.Get(code)
	if !ok || !conn.IsEnabled(ctx) {
		return nil, connector.ResultMap{code: {
			Success: false,
			Message: fmt.Sprintf("Integration %s is not enabled or does not exist", code),
		}}
	}
	return map[string]connector.Connector{code: conn}, nil
}

// fanOut runs one task per connector in parallel and aggregates the
// per-connector results. A canceled context still yields a result for
// every target: started tasks report what their connector returned,
// unstarted ones inherit the cancellation error.
func (o *Orchestrator) fanOut(
	ctx context.Context,
	targets map[string]connector.Connector,
	task func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult,
) connector.ResultMap {
	results := make(connector.ResultMap, len(targets))
	if len(targets) == 0 {
		return results
	}

	var (
		g  errgroup.Group
		mu stdsync.Mutex
	)
	g.SetLimit(o.maxConcurrent)

	for code, conn := range targets {
		code, conn := code, conn
		g.Go(func() error {
			var res connector.SyncResult
			if err := ctx.Err(); err != nil {
				res = connector.SyncResult{Success: false, Message: err.Error()}
			} else {
				res = o.runIsolated(ctx, code, conn, task)
			}
			mu.Lock()
			results[code] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// runIsolated executes a task and converts a panic into a failed result
func (o *Orchestrator) runIsolated(
	ctx context.Context,
	code string,
	conn connector.Connector,
	task func(ctx context.Context, code string, conn connector.Connector) connector.SyncResult,
) (res connector.SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Connector panicked during sync",
				zap.String("connector", code),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
			res = connector.SyncResult{Success: false, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	return task(ctx, code, conn)
}
