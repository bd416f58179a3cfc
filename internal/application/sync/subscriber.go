package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/domain/shared"
)

// ImportSubscriber receives imported records from the event bus and hands
// them to downstream processing. Stock and order persistence live outside
// the sync layer; this subscriber is the hand-off point and logs what
// crossed it.
type ImportSubscriber struct {
	logger *zap.Logger
}

// NewImportSubscriber creates the subscriber
func NewImportSubscriber(logger *zap.Logger) *ImportSubscriber {
	return &ImportSubscriber{logger: logger.Named("sync.import")}
}

// EventTypes implements shared.EventHandler
func (s *ImportSubscriber) EventTypes() []string {
	return []string{
		connector.EventTypeInventoryImported,
		connector.EventTypeOrdersImported,
	}
}

// Handle implements shared.EventHandler
func (s *ImportSubscriber) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *connector.InventoryImported:
		s.logger.Info("Inventory records received",
			zap.String("connector", e.ConnectorCode),
			zap.Int("count", len(e.Records)),
		)
	case *connector.OrdersImported:
		s.logger.Info("Order records received",
			zap.String("connector", e.ConnectorCode),
			zap.Int("count", len(e.Records)),
		)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*ImportSubscriber)(nil)
