package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

// memoryRunRepository is an in-memory RunRepository for runner tests
type memoryRunRepository struct {
	mu      stdsync.Mutex
	saved   []*Run
	saveErr error
}

func (r *memoryRunRepository) Save(ctx context.Context, run *Run) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, run)
	return nil
}

func (r *memoryRunRepository) List(ctx context.Context, limit int) ([]*Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := append([]*Run(nil), r.saved...)
	if limit > 0 && len(runs) > limit {
		runs = runs[len(runs)-limit:]
	}
	return runs, nil
}

func newTestRunner(repo RunRepository, conns ...*fakeConnector) *Runner {
	o := newTestOrchestrator(newFakeRegistry(conns...), &capturingBus{})
	return NewRunner(o, repo, zap.NewNop())
}

func TestRunnerRunInventory(t *testing.T) {
	ctx := context.Background()

	repo := &memoryRunRepository{}
	sap := &fakeConnector{code: "sap", name: "SAP ERP", enabled: true, inventory: someInventory(7)}
	broken := &fakeConnector{code: "netsuite", name: "NetSuite", enabled: true, importErr: errors.New("boom")}
	runner := newTestRunner(repo, sap, broken)

	run := runner.RunInventory(ctx, connector.InventoryFilter{})

	require.NotNil(t, run)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, RunKindInventory, run.Kind)
	assert.Equal(t, 1, run.Succeeded())
	assert.Equal(t, 1, run.Failed())
	assert.False(t, run.StartedAt.After(run.FinishedAt))

	require.Len(t, repo.saved, 1)
	assert.Same(t, run, repo.saved[0])
}

func TestRunnerRunOrders(t *testing.T) {
	repo := &memoryRunRepository{}
	sap := &fakeConnector{code: "sap", name: "SAP ERP", enabled: true, orders: []connector.OrderRecord{{ExternalID: "1"}}}
	runner := newTestRunner(repo, sap)

	run := runner.RunOrders(context.Background(), connector.OrderFilter{})

	assert.Equal(t, RunKindOrders, run.Kind)
	assert.Equal(t, 1, run.Succeeded())
	require.Len(t, repo.saved, 1)
}

func TestRunnerExports(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRunRepository{}
	sap := &fakeConnector{code: "sap", name: "SAP ERP", enabled: true}
	runner := newTestRunner(repo, sap)

	inv := runner.RunInventoryExport(ctx, someInventory(3), "sap")
	assert.Equal(t, RunKindInventoryExport, inv.Kind)
	assert.Equal(t, connector.SyncResult{
		Success:  true,
		Exported: 3,
		Message:  "Successfully exported 3 items to SAP ERP",
	}, inv.Results["sap"])

	ord := runner.RunOrdersExport(ctx, []connector.OrderRecord{{ExternalID: "1"}}, "")
	assert.Equal(t, RunKindOrdersExport, ord.Kind)
	assert.Equal(t, 1, ord.Succeeded())

	assert.Len(t, repo.saved, 2)
}

func TestRunnerWithoutRepository(t *testing.T) {
	sap := &fakeConnector{code: "sap", name: "SAP ERP", enabled: true}
	runner := newTestRunner(nil, sap)

	run := runner.RunInventory(context.Background(), connector.InventoryFilter{})
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Succeeded())
}

func TestRunnerSaveFailureStillReturnsRun(t *testing.T) {
	repo := &memoryRunRepository{saveErr: errors.New("db unavailable")}
	sap := &fakeConnector{code: "sap", name: "SAP ERP", enabled: true}
	runner := newTestRunner(repo, sap)

	run := runner.RunInventory(context.Background(), connector.InventoryFilter{})
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Succeeded())
	assert.Empty(t, repo.saved)
}

func TestRunKindIsValid(t *testing.T) {
	for _, k := range []RunKind{RunKindInventory, RunKindOrders, RunKindInventoryExport, RunKindOrdersExport} {
		assert.True(t, k.IsValid(), string(k))
	}
	assert.False(t, RunKind("full_resync").IsValid())
}

func TestRunDuration(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := NewRun(RunKindInventory, started, started.Add(3*time.Second), connector.ResultMap{})
	assert.Equal(t, 3*time.Second, run.Duration())
}
