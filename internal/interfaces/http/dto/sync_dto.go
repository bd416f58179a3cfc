package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// InventorySyncRequest narrows an inventory import to one SKU or warehouse
type InventorySyncRequest struct {
	SKU       string `json:"sku"`
	Warehouse string `json:"warehouse"`
}

// ToFilter converts the request to a domain filter
func (r InventorySyncRequest) ToFilter() connector.InventoryFilter {
	return connector.InventoryFilter{
		SKU:       r.SKU,
		Warehouse: r.Warehouse,
	}
}

// OrderSyncRequest narrows an order import to a creation window
type OrderSyncRequest struct {
	DateFrom *time.Time `json:"date_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DateTo   *time.Time `json:"date_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ToFilter converts the request to a domain filter
func (r OrderSyncRequest) ToFilter() connector.OrderFilter {
	filter := connector.OrderFilter{}
	if r.DateFrom != nil {
		filter.DateFrom = *r.DateFrom
	}
	if r.DateTo != nil {
		filter.DateTo = *r.DateTo
	}
	return filter
}

// InventoryItemRequest is one inventory record in an export request
type InventoryItemRequest struct {
	SKU        string          `json:"sku" binding:"required"`
	SourceCode string          `json:"source_code"`
	Quantity   decimal.Decimal `json:"quantity"`
	InStock    bool            `json:"in_stock"`
}

// ExportInventoryRequest pushes inventory records to one connector, or to
// every enabled connector when code is empty.
type ExportInventoryRequest struct {
	Code  string                 `json:"code"`
	Items []InventoryItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToRecords converts the request items to domain records
func (r ExportInventoryRequest) ToRecords() []connector.InventoryRecord {
	records := make([]connector.InventoryRecord, len(r.Items))
	for i, item := range r.Items {
		records[i] = connector.InventoryRecord{
			SKU:        item.SKU,
			SourceCode: item.SourceCode,
			Quantity:   item.Quantity,
			InStock:    item.InStock,
		}
	}
	return records
}

// OrderItemRequest is one line item of an order export
type OrderItemRequest struct {
	SKU      string          `json:"sku" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// AddressRequest is the shipping address of an order export
type AddressRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

// OrderRequest is one order in an export request
type OrderRequest struct {
	ExternalID        string             `json:"external_id" binding:"required"`
	CustomerEmail     string             `json:"customer_email"`
	CustomerFirstName string             `json:"customer_first_name"`
	CustomerLastName  string             `json:"customer_last_name"`
	Items             []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress   AddressRequest     `json:"shipping_address"`
}

// ExportOrdersRequest pushes orders to one connector, or to every enabled
// connector when code is empty.
type ExportOrdersRequest struct {
	Code   string         `json:"code"`
	Orders []OrderRequest `json:"orders" binding:"required,min=1,dive"`
}

// ToRecords converts the request orders to domain records
func (r ExportOrdersRequest) ToRecords() []connector.OrderRecord {
	records := make([]connector.OrderRecord, len(r.Orders))
	for i, o := range r.Orders {
		items := make([]connector.OrderItem, len(o.Items))
		for j, item := range o.Items {
			items[j] = connector.OrderItem{
				SKU:      item.SKU,
				Quantity: item.Quantity,
				Price:    item.Price,
			}
		}
		records[i] = connector.OrderRecord{
			ExternalID:        o.ExternalID,
			CustomerEmail:     o.CustomerEmail,
			CustomerFirstName: o.CustomerFirstName,
			CustomerLastName:  o.CustomerLastName,
			Items:             items,
			ShippingAddress: connector.Address{
				FirstName:   o.ShippingAddress.FirstName,
				LastName:    o.ShippingAddress.LastName,
				Street:      o.ShippingAddress.Street,
				City:        o.ShippingAddress.City,
				Region:      o.ShippingAddress.Region,
				PostalCode:  o.ShippingAddress.PostalCode,
				CountryCode: o.ShippingAddress.CountryCode,
				Phone:       o.ShippingAddress.Phone,
			},
		}
	}
	return records
}

// ConnectionTestRequest carries candidate settings for a one-off connection
// test. Empty fields fall back to the stored configuration.
type ConnectionTestRequest struct {
	APIURL           string            `json:"api_url"`
	ClientID         string            `json:"client_id"`
	ClientSecret     string            `json:"client_secret"`
	TimeoutSeconds   int               `json:"timeout_seconds"`
	WarehouseMapping string            `json:"warehouse_mapping"`
	Extras           map[string]string `json:"extras"`
}

// ToSettings converts the request to connector settings
func (r ConnectionTestRequest) ToSettings() config.ConnectorSettings {
	return config.ConnectorSettings{
		APIURL:           r.APIURL,
		ClientID:         r.ClientID,
		ClientSecret:     r.ClientSecret,
		TimeoutSeconds:   r.TimeoutSeconds,
		WarehouseMapping: r.WarehouseMapping,
		Extras:           r.Extras,
	}
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

// ConnectorSummary is one entry of the connector list. Status is populated
// for enabled connectors only; probing a disabled connector would always
// report not configured.
type ConnectorSummary struct {
	Code    string            `json:"code"`
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	Enabled bool              `json:"enabled"`
	Status  *connector.Status `json:"status,omitempty"`
}

// ConnectionTestResponse reports the outcome of a connection test
type ConnectionTestResponse struct {
	Code      string `json:"code"`
	Connected bool   `json:"connected"`
}

// SyncRunResponse is the API shape of one sync run report
type SyncRunResponse struct {
	ID         string              `json:"id"`
	Kind       string              `json:"kind"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Succeeded  int                 `json:"succeeded"`
	Failed     int                 `json:"failed"`
	Results    connector.ResultMap `json:"results"`
}

// NewSyncRunResponse converts a run report to its API shape
func NewSyncRunResponse(run *sync.Run) SyncRunResponse {
	return SyncRunResponse{
		ID:         run.ID.String(),
		Kind:       string(run.Kind),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Succeeded:  run.Succeeded(),
		Failed:     run.Failed(),
		Results:    run.Results,
	}
}

// NewSyncRunResponses converts a list of run reports
func NewSyncRunResponses(runs []*sync.Run) []SyncRunResponse {
	responses := make([]SyncRunResponse, len(runs))
	for i, run := range runs {
		responses[i] = NewSyncRunResponse(run)
	}
	return responses
}
