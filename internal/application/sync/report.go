package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

// RunKind identifies which direction and record type a sync run covered
type RunKind string

const (
	RunKindInventory       RunKind = "inventory"
	RunKindOrders          RunKind = "orders"
	RunKindInventoryExport RunKind = "inventory_export"
	RunKindOrdersExport    RunKind = "orders_export"
)

// IsValid returns true if the run kind is known
func (k RunKind) IsValid() bool {
	switch k {
	case RunKindInventory, RunKindOrders, RunKindInventoryExport, RunKindOrdersExport:
		return true
	default:
		return false
	}
}

// Run is the report of one sync run across connectors
type Run struct {
	ID         uuid.UUID
	Kind       RunKind
	StartedAt  time.Time
	FinishedAt time.Time
	Results    connector.ResultMap
}

// NewRun creates a run report
func NewRun(kind RunKind, startedAt, finishedAt time.Time, results connector.ResultMap) *Run {
	return &Run{
		ID:         uuid.New(),
		Kind:       kind,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Results:    results,
	}
}

// Succeeded returns the number of connectors that completed successfully
func (r *Run) Succeeded() int { return r.Results.Succeeded() }

// Failed returns the number of connectors that failed
func (r *Run) Failed() int { return r.Results.Failed() }

// Duration returns how long the run took
func (r *Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// RunRepository persists sync run reports
type RunRepository interface {
	// Save stores a run report
	Save(ctx context.Context, run *Run) error

	// List returns the most recent runs, newest first
	List(ctx context.Context, limit int) ([]*Run, error)
}
