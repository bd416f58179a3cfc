package connector

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Connector Type
// ---------------------------------------------------------------------------

// Type classifies an external system by the role it plays in the supply chain
type Type string

const (
	// TypeERP represents enterprise resource planning systems
	TypeERP Type = "erp"
	// TypeIMS represents inventory management systems
	TypeIMS Type = "ims"
	// TypeOMS represents order management systems
	TypeOMS Type = "oms"
	// TypeWMS represents warehouse management systems
	TypeWMS Type = "wms"
	// TypeMarketplace represents sales marketplaces
	TypeMarketplace Type = "marketplace"
	// TypeOther represents systems outside the known taxonomy
	TypeOther Type = "other"
)

// IsValid returns true if the type is part of the known taxonomy
func (t Type) IsValid() bool {
	switch t {
	case TypeERP, TypeIMS, TypeOMS, TypeWMS, TypeMarketplace, TypeOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// typeByCode is the static code -> type classification for all known
// connector codes. Codes registered at runtime that are not listed here
// classify as TypeOther.
var typeByCode = map[string]Type{
	"sap":         TypeERP,
	"netsuite":    TypeERP,
	"dynamics":    TypeERP,
	"brightpearl": TypeIMS,
	"cin7":        TypeIMS,
	"tradegecko":  TypeIMS,
	"zoho":        TypeIMS,
	"fishbowl":    TypeIMS,
	"katana":      TypeIMS,
	"orderbot":    TypeOMS,
	"shipstation": TypeOMS,
	"linnworks":   TypeOMS,
	"orderhive":   TypeOMS,
	"skubana":     TypeOMS,
	"manhattan":   TypeWMS,
	"highjump":    TypeWMS,
	"logiwa":      TypeWMS,
	"shiphero":    TypeWMS,
	"threepl":     TypeWMS,
	"amazon":      TypeMarketplace,
	"walmart":     TypeMarketplace,
	"ebay":        TypeMarketplace,
	"etsy":        TypeMarketplace,
	"target":      TypeMarketplace,
}

// TypeOf returns the connector type for a code, falling back to TypeOther
// for codes outside the static classification.
func TypeOf(code string) Type {
	if t, ok := typeByCode[code]; ok {
		return t
	}
	return TypeOther
}

// ---------------------------------------------------------------------------
// Wire Records
// ---------------------------------------------------------------------------

// InventoryRecord is the unit of inventory exchange with an external system.
// Import mapping produces it from the remote's native schema; export mapping
// consumes it in the reverse direction.
type InventoryRecord struct {
	// SKU is the stock keeping unit identifier
	SKU string `json:"sku"`
	// SourceCode is the local warehouse/source identifier
	SourceCode string `json:"source_code"`
	// Quantity is the available stock quantity
	Quantity decimal.Decimal `json:"quantity"`
	// InStock indicates whether the item is sellable (quantity > 0 on import)
	InStock bool `json:"in_stock"`
}

// OrderItem is a single line item of an order
type OrderItem struct {
	// SKU is the stock keeping unit identifier
	SKU string `json:"sku"`
	// Quantity is the ordered quantity
	Quantity decimal.Decimal `json:"quantity"`
	// Price is the unit price
	Price decimal.Decimal `json:"price"`
}

// Address holds the shipping address fields of an order
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// OrderRecord is the unit of order exchange with an external system
type OrderRecord struct {
	// ExternalID is the order identifier on the external system
	ExternalID string `json:"external_id"`
	// CustomerEmail identifies the customer
	CustomerEmail string `json:"customer_email"`
	// CustomerFirstName is the customer's first name
	CustomerFirstName string `json:"customer_first_name"`
	// CustomerLastName is the customer's last name
	CustomerLastName string `json:"customer_last_name"`
	// Items contains the ordered line items
	Items []OrderItem `json:"items"`
	// ShippingAddress is the delivery address
	ShippingAddress Address `json:"shipping_address"`
}

// ---------------------------------------------------------------------------
// Filters
// ---------------------------------------------------------------------------

// InventoryFilter constrains an inventory import. Zero values mean
// "no constraint".
type InventoryFilter struct {
	// SKU restricts the import to a single stock keeping unit
	SKU string `json:"sku,omitempty"`
	// Warehouse restricts the import to a single local warehouse code
	Warehouse string `json:"warehouse,omitempty"`
}

// IsZero returns true if the filter applies no constraints
func (f InventoryFilter) IsZero() bool {
	return f.SKU == "" && f.Warehouse == ""
}

// OrderFilter constrains an order import. Zero time values mean
// "no constraint".
type OrderFilter struct {
	// DateFrom restricts the import to orders created at or after this instant
	DateFrom time.Time `json:"date_from,omitempty"`
	// DateTo restricts the import to orders created at or before this instant
	DateTo time.Time `json:"date_to,omitempty"`
}

// IsZero returns true if the filter applies no constraints
func (f OrderFilter) IsZero() bool {
	return f.DateFrom.IsZero() && f.DateTo.IsZero()
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// SyncResult is the per-connector outcome of one sync operation. A sync run
// across N connectors aggregates into map[code]SyncResult; a partial batch
// (some entries failed) is a normal, reportable outcome, not an error state.
type SyncResult struct {
	// Success indicates whether the operation completed against the remote
	Success bool `json:"success"`
	// Imported is the number of records pulled from the remote
	Imported int `json:"imported,omitempty"`
	// Exported is the number of records pushed to the remote
	Exported int `json:"exported,omitempty"`
	// Message is a human-readable summary, or the error text on failure
	Message string `json:"message"`
}

// ResultMap aggregates per-connector outcomes for one sync run
type ResultMap map[string]SyncResult

// Succeeded returns the number of successful entries
func (m ResultMap) Succeeded() int {
	n := 0
	for _, r := range m {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of failed entries
func (m ResultMap) Failed() int {
	return len(m) - m.Succeeded()
}

// Status is the live diagnostic state of a connector. It is recomputed on
// every call; nothing is persisted.
type Status struct {
	// Connected indicates the remote answered its health endpoint
	Connected bool `json:"connected"`
	// Version is the remote system version, when reported
	Version string `json:"version,omitempty"`
	// LastSync is the remote's last sync marker, when reported
	LastSync string `json:"last_sync,omitempty"`
	// PendingItems is the remote's pending item count, when reported
	PendingItems int `json:"pending_items,omitempty"`
	// Error holds the failure description when Connected is false
	Error string `json:"error,omitempty"`
}
