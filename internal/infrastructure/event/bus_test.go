package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/domain/shared"
)

// recordingHandler captures events it receives
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.fail
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestInMemoryEventBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to matching handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		inventory := &recordingHandler{types: []string{connector.EventTypeInventoryImported}}
		orders := &recordingHandler{types: []string{connector.EventTypeOrdersImported}}
		bus.Subscribe(inventory)
		bus.Subscribe(orders)

		evt := connector.NewInventoryImported("sap", make([]connector.InventoryRecord, 5))
		require.NoError(t, bus.Publish(ctx, evt))

		assert.Len(t, inventory.received, 1)
		assert.Empty(t, orders.received)
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx,
			connector.NewInventoryImported("sap", make([]connector.InventoryRecord, 5)),
			connector.NewOrdersImported("shipstation", make([]connector.OrderRecord, 2)),
		))
		assert.Len(t, all.received, 2)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{connector.EventTypeInventoryImported}, fail: errors.New("boom")}
		healthy := &recordingHandler{types: []string{connector.EventTypeInventoryImported}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, connector.NewInventoryImported("sap", make([]connector.InventoryRecord, 1))))
		assert.Len(t, healthy.received, 1)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{connector.EventTypeInventoryImported}, panics: true}
		healthy := &recordingHandler{types: []string{connector.EventTypeInventoryImported}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			require.NoError(t, bus.Publish(ctx, connector.NewInventoryImported("sap", make([]connector.InventoryRecord, 1))))
		})
		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{connector.EventTypeInventoryImported}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), connector.NewInventoryImported("sap", make([]connector.InventoryRecord, 1))))
	assert.Empty(t, h.received)
}
