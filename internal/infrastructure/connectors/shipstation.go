package connectors

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// ShipStation API paths
const (
	shipstationWarehousesPath  = "warehouses"
	shipstationOrdersPath      = "orders"
	shipstationCreateOrderPath = "orders/createorder"
)

// shipstationTimeFormat is the timestamp layout ShipStation accepts in filters
const shipstationTimeFormat = "2006-01-02 15:04:05"

// ShipStationConnector integrates with the ShipStation order management
// API. Authentication is HTTP Basic with the API key and secret, so no
// token source is involved.
type ShipStationConnector struct {
	client *APIClient
}

// NewShipStationConnector creates the ShipStation adapter
func NewShipStationConnector(source config.ConnectorSource, logger *zap.Logger) *ShipStationConnector {
	return &ShipStationConnector{
		client: NewAPIClient("shipstation", "ShipStation", source, logger),
	}
}

// Code implements connector.Connector
func (c *ShipStationConnector) Code() string { return c.client.Code() }

// Name implements connector.Connector
func (c *ShipStationConnector) Name() string { return c.client.Name() }

// Type implements connector.Connector
func (c *ShipStationConnector) Type() connector.Type { return connector.TypeOMS }

// IsEnabled implements connector.Connector
func (c *ShipStationConnector) IsEnabled(ctx context.Context) bool {
	_, err := c.client.Settings()
	return err == nil
}

// Initialize verifies the API key pair needed for Basic auth is present
func (c *ShipStationConnector) Initialize(ctx context.Context) bool {
	c.client.LogActivity("initialize", "Initializing ShipStation integration")

	settings, err := c.client.Settings()
	if err != nil {
		c.client.Logger().Error("ShipStation initialization error", zap.Error(err))
		return false
	}
	if settings.ClientID == "" || settings.ClientSecret == "" {
		c.client.Logger().Error("ShipStation API credentials are not configured")
		return false
	}
	return true
}

// TestConnection lists warehouses as a lightweight authenticated call
func (c *ShipStationConnector) TestConnection(ctx context.Context) bool {
	c.client.LogActivity("test_connection", "Testing ShipStation connection")

	var resp shipstationWarehousesResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: shipstationWarehousesPath}, &resp); err != nil {
		c.client.Logger().Error("ShipStation connection test error", zap.Error(err))
		return false
	}
	return true
}

// ImportInventory is not supported: ShipStation tracks shipments, not
// stock levels. The orchestrator reports this as a per-connector failure.
func (c *ShipStationConnector) ImportInventory(ctx context.Context, filter connector.InventoryFilter) ([]connector.InventoryRecord, error) {
	return nil, fmt.Errorf("%w: shipstation does not expose inventory", connector.ErrRequestFailed)
}

// ExportInventory is not supported, see ImportInventory
func (c *ShipStationConnector) ExportInventory(ctx context.Context, records []connector.InventoryRecord) error {
	return fmt.Errorf("%w: shipstation does not accept inventory updates", connector.ErrRequestFailed)
}

// ImportOrders pulls orders created in the given window
func (c *ShipStationConnector) ImportOrders(ctx context.Context, filter connector.OrderFilter) ([]connector.OrderRecord, error) {
	c.client.LogActivity("import_orders", "Importing orders from ShipStation")

	query := url.Values{}
	if !filter.DateFrom.IsZero() {
		query.Set("createDateStart", filter.DateFrom.Format(shipstationTimeFormat))
	}
	if !filter.DateTo.IsZero() {
		query.Set("createDateEnd", filter.DateTo.Format(shipstationTimeFormat))
	}

	var resp shipstationOrdersResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: shipstationOrdersPath, Query: query}, &resp); err != nil {
		return nil, err
	}

	orders := make([]connector.OrderRecord, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		items := make([]connector.OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, connector.OrderItem{
				SKU:      item.SKU,
				Quantity: item.Quantity,
				Price:    item.UnitPrice,
			})
		}
		first, last := splitName(o.ShipTo.Name)
		orders = append(orders, connector.OrderRecord{
			ExternalID:        o.OrderNumber,
			CustomerEmail:     o.CustomerEmail,
			CustomerFirstName: first,
			CustomerLastName:  last,
			Items:             items,
			ShippingAddress: connector.Address{
				FirstName:   first,
				LastName:    last,
				Street:      o.ShipTo.Street1,
				City:        o.ShipTo.City,
				Region:      o.ShipTo.State,
				PostalCode:  o.ShipTo.PostalCode,
				CountryCode: o.ShipTo.Country,
				Phone:       o.ShipTo.Phone,
			},
		})
	}
	return orders, nil
}

// ExportOrders pushes orders one at a time, the API has no batch endpoint
func (c *ShipStationConnector) ExportOrders(ctx context.Context, records []connector.OrderRecord) error {
	c.client.LogActivity("export_orders", "Exporting orders to ShipStation", zap.Int("count", len(records)))

	for _, rec := range records {
		items := make([]shipstationOrderItem, 0, len(rec.Items))
		for _, item := range rec.Items {
			items = append(items, shipstationOrderItem{
				SKU:       item.SKU,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
			})
		}
		order := shipstationOrder{
			OrderNumber:   rec.ExternalID,
			CustomerEmail: rec.CustomerEmail,
			ShipTo: shipstationAddress{
				Name:       strings.TrimSpace(rec.ShippingAddress.FirstName + " " + rec.ShippingAddress.LastName),
				Street1:    rec.ShippingAddress.Street,
				City:       rec.ShippingAddress.City,
				State:      rec.ShippingAddress.Region,
				PostalCode: rec.ShippingAddress.PostalCode,
				Country:    rec.ShippingAddress.CountryCode,
				Phone:      rec.ShippingAddress.Phone,
			},
			Items: items,
		}
		req := Request{Method: "POST", Path: shipstationCreateOrderPath, Body: order}
		if err := c.authorizedJSON(ctx, req, nil); err != nil {
			return fmt.Errorf("order %s: %w", rec.ExternalID, err)
		}
	}
	return nil
}

// Status reports reachability. ShipStation exposes no version or sync
// markers, so only Connected and Error are populated.
func (c *ShipStationConnector) Status(ctx context.Context) connector.Status {
	c.client.LogActivity("get_status", "Getting ShipStation integration status")

	var resp shipstationWarehousesResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: shipstationWarehousesPath}, &resp); err != nil {
		c.client.Logger().Error("ShipStation status check error", zap.Error(err))
		return connector.Status{Connected: false, Error: err.Error()}
	}
	return connector.Status{Connected: true}
}

// authorizedJSON attaches the Basic auth header and decodes the response
func (c *ShipStationConnector) authorizedJSON(ctx context.Context, req Request, out any) error {
	settings, err := c.client.Settings()
	if err != nil {
		return err
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(settings.ClientID + ":" + settings.ClientSecret))
	if req.Headers == nil {
		req.Headers = make(map[string]string, 1)
	}
	req.Headers["Authorization"] = "Basic " + credentials
	return c.client.DoJSON(ctx, req, out)
}

// splitName splits a full name into first and last parts
func splitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

var _ connector.Connector = (*ShipStationConnector)(nil)
