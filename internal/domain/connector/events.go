package connector

import "github.com/nicksmagento/syncbridge/internal/domain/shared"

const (
	// EventTypeInventoryImported is published after a connector import
	// returned a nonzero number of inventory records
	EventTypeInventoryImported = "connector.inventory.imported"
	// EventTypeOrdersImported is published after a connector import
	// returned a nonzero number of order records
	EventTypeOrdersImported = "connector.orders.imported"
)

// InventoryImported carries imported inventory records to downstream
// consumers (local stock persistence is a collaborator, not part of the
// sync core).
type InventoryImported struct {
	shared.BaseDomainEvent
	ConnectorCode string            `json:"connector_code"`
	Records       []InventoryRecord `json:"records"`
}

// NewInventoryImported creates an InventoryImported event
func NewInventoryImported(code string, records []InventoryRecord) *InventoryImported {
	return &InventoryImported{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryImported),
		ConnectorCode:   code,
		Records:         records,
	}
}

// OrdersImported carries imported order records to downstream consumers
type OrdersImported struct {
	shared.BaseDomainEvent
	ConnectorCode string        `json:"connector_code"`
	Records       []OrderRecord `json:"records"`
}

// NewOrdersImported creates an OrdersImported event
func NewOrdersImported(code string, records []OrderRecord) *OrdersImported {
	return &OrdersImported{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrdersImported),
		ConnectorCode:   code,
		Records:         records,
	}
}
