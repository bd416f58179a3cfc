package connectors

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// SAP REST gateway paths
const (
	sapStatusPath          = "api/v1/system/status"
	sapInventoryPath       = "api/v1/inventory"
	sapInventoryUpdatePath = "api/v1/inventory/update"
	sapOrdersPath          = "api/v1/orders"
	sapOrdersCreatePath    = "api/v1/orders/create"
	sapTokenPath           = "api/v1/auth/token"
)

// sapTimeFormat is the timestamp layout the SAP gateway accepts in filters
const sapTimeFormat = "2006-01-02 15:04:05"

// SAPConnector integrates with an SAP ERP system over its REST gateway.
// Authentication is OAuth2 client credentials with the access token cached
// in the token store; every call additionally carries the client ID in the
// x-sap-client-id header as the gateway requires.
type SAPConnector struct {
	client *APIClient
	tokens *TokenSource
}

// NewSAPConnector creates the SAP adapter
func NewSAPConnector(source config.ConnectorSource, store TokenStore, logger *zap.Logger) *SAPConnector {
	client := NewAPIClient("sap", "SAP ERP", source, logger)
	return &SAPConnector{
		client: client,
		tokens: NewTokenSource("sap", store, ClientCredentialsGrant(client, sapTokenPath)),
	}
}

// Code implements connector.Connector
func (c *SAPConnector) Code() string { return c.client.Code() }

// Name implements connector.Connector
func (c *SAPConnector) Name() string { return c.client.Name() }

// Type implements connector.Connector
func (c *SAPConnector) Type() connector.Type { return connector.TypeERP }

// IsEnabled implements connector.Connector
func (c *SAPConnector) IsEnabled(ctx context.Context) bool {
	_, err := c.client.Settings()
	return err == nil
}

// Initialize verifies the credentials needed for the client_credentials
// grant are present. Missing configuration is reported as false, not error.
func (c *SAPConnector) Initialize(ctx context.Context) bool {
	c.client.LogActivity("initialize", "Initializing SAP integration")

	settings, err := c.client.Settings()
	if err != nil {
		c.client.Logger().Error("SAP initialization error", zap.Error(err))
		return false
	}
	if settings.ClientID == "" || settings.ClientSecret == "" {
		c.client.Logger().Error("SAP credentials are not configured")
		return false
	}
	return true
}

// TestConnection calls the gateway status endpoint with live credentials
func (c *SAPConnector) TestConnection(ctx context.Context) bool {
	c.client.LogActivity("test_connection", "Testing SAP connection")

	var resp sapStatusResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: sapStatusPath}, &resp); err != nil {
		c.client.Logger().Error("SAP connection test error", zap.Error(err))
		return false
	}
	return resp.Status == "ok"
}

// ImportInventory pulls stock levels, mapping SAP material numbers and
// warehouse IDs into local SKUs and source codes.
func (c *SAPConnector) ImportInventory(ctx context.Context, filter connector.InventoryFilter) ([]connector.InventoryRecord, error) {
	c.client.LogActivity("import_inventory", "Importing inventory from SAP",
		zap.String("sku", filter.SKU), zap.String("warehouse", filter.Warehouse))

	wm, err := c.warehouseMap()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if filter.SKU != "" {
		query.Set("material_number", filter.SKU)
	}
	if filter.Warehouse != "" {
		query.Set("warehouse_id", wm.Remote(filter.Warehouse))
	}

	var resp sapInventoryResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: sapInventoryPath, Query: query}, &resp); err != nil {
		return nil, err
	}

	records := make([]connector.InventoryRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, connector.InventoryRecord{
			SKU:        item.MaterialNumber,
			SourceCode: wm.Local(item.WarehouseID),
			Quantity:   item.AvailableStock,
			InStock:    item.AvailableStock.IsPositive(),
		})
	}
	return records, nil
}

// ExportInventory pushes stock levels to SAP in its native schema
func (c *SAPConnector) ExportInventory(ctx context.Context, records []connector.InventoryRecord) error {
	c.client.LogActivity("export_inventory", "Exporting inventory to SAP", zap.Int("count", len(records)))

	wm, err := c.warehouseMap()
	if err != nil {
		return err
	}

	items := make([]sapInventoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, sapInventoryItem{
			MaterialNumber: rec.SKU,
			WarehouseID:    wm.Remote(rec.SourceCode),
			AvailableStock: rec.Quantity,
		})
	}

	var resp sapWriteResponse
	req := Request{Method: "POST", Path: sapInventoryUpdatePath, Body: sapInventoryUpdateRequest{Items: items}}
	if err := c.authorizedJSON(ctx, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: inventory update rejected: %s", connector.ErrRequestFailed, resp.Message)
	}
	return nil
}

// ImportOrders pulls orders created in the given window
func (c *SAPConnector) ImportOrders(ctx context.Context, filter connector.OrderFilter) ([]connector.OrderRecord, error) {
	c.client.LogActivity("import_orders", "Importing orders from SAP")

	query := url.Values{}
	if !filter.DateFrom.IsZero() {
		query.Set("created_from", filter.DateFrom.Format(sapTimeFormat))
	}
	if !filter.DateTo.IsZero() {
		query.Set("created_to", filter.DateTo.Format(sapTimeFormat))
	}

	var resp sapOrdersResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: sapOrdersPath, Query: query}, &resp); err != nil {
		return nil, err
	}

	orders := make([]connector.OrderRecord, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		items := make([]connector.OrderItem, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, connector.OrderItem{
				SKU:      item.MaterialNumber,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
		orders = append(orders, connector.OrderRecord{
			ExternalID:        o.OrderNumber,
			CustomerEmail:     o.Customer.Email,
			CustomerFirstName: o.Customer.FirstName,
			CustomerLastName:  o.Customer.LastName,
			Items:             items,
			ShippingAddress: connector.Address{
				FirstName:   o.Shipping.FirstName,
				LastName:    o.Shipping.LastName,
				Street:      o.Shipping.Street,
				City:        o.Shipping.City,
				Region:      o.Shipping.Region,
				PostalCode:  o.Shipping.PostalCode,
				CountryCode: o.Shipping.CountryCode,
				Phone:       o.Shipping.Phone,
			},
		})
	}
	return orders, nil
}

// ExportOrders pushes orders to SAP in its native schema
func (c *SAPConnector) ExportOrders(ctx context.Context, records []connector.OrderRecord) error {
	c.client.LogActivity("export_orders", "Exporting orders to SAP", zap.Int("count", len(records)))

	orders := make([]sapOrder, 0, len(records))
	for _, rec := range records {
		items := make([]sapOrderItem, 0, len(rec.Items))
		for _, item := range rec.Items {
			items = append(items, sapOrderItem{
				MaterialNumber: item.SKU,
				Quantity:       item.Quantity,
				Price:          item.Price,
			})
		}
		orders = append(orders, sapOrder{
			OrderNumber: rec.ExternalID,
			Customer: sapCustomer{
				Email:     rec.CustomerEmail,
				FirstName: rec.CustomerFirstName,
				LastName:  rec.CustomerLastName,
			},
			Items: items,
			Shipping: sapShipping{
				FirstName:   rec.ShippingAddress.FirstName,
				LastName:    rec.ShippingAddress.LastName,
				Street:      rec.ShippingAddress.Street,
				City:        rec.ShippingAddress.City,
				Region:      rec.ShippingAddress.Region,
				PostalCode:  rec.ShippingAddress.PostalCode,
				CountryCode: rec.ShippingAddress.CountryCode,
				Phone:       rec.ShippingAddress.Phone,
			},
		})
	}

	var resp sapWriteResponse
	req := Request{Method: "POST", Path: sapOrdersCreatePath, Body: sapOrdersCreateRequest{Orders: orders}}
	if err := c.authorizedJSON(ctx, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: order creation rejected: %s", connector.ErrRequestFailed, resp.Message)
	}
	return nil
}

// Status reports live gateway state. It never fails: any internal error is
// reported as Connected=false with the Error field set.
func (c *SAPConnector) Status(ctx context.Context) connector.Status {
	c.client.LogActivity("get_status", "Getting SAP integration status")

	var resp sapStatusResponse
	if err := c.authorizedJSON(ctx, Request{Method: "GET", Path: sapStatusPath}, &resp); err != nil {
		c.client.Logger().Error("SAP status check error", zap.Error(err))
		return connector.Status{Connected: false, Error: err.Error()}
	}

	version := resp.Version
	if version == "" {
		version = "unknown"
	}
	return connector.Status{
		Connected:    resp.Status == "ok",
		Version:      version,
		LastSync:     resp.LastSync,
		PendingItems: resp.PendingItems,
	}
}

// authorizedJSON attaches the bearer token and SAP client header to a
// request and decodes the JSON response.
func (c *SAPConnector) authorizedJSON(ctx context.Context, req Request, out any) error {
	settings, err := c.client.Settings()
	if err != nil {
		return err
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if req.Headers == nil {
		req.Headers = make(map[string]string, 2)
	}
	req.Headers["Authorization"] = "Bearer " + token
	req.Headers["x-sap-client-id"] = settings.ClientID
	return c.client.DoJSON(ctx, req, out)
}

// warehouseMap builds the local/remote warehouse code mapping from settings
func (c *SAPConnector) warehouseMap() (connector.WarehouseMap, error) {
	settings, err := c.client.Settings()
	if err != nil {
		return connector.WarehouseMap{}, err
	}
	return connector.ParseWarehouseMap(settings.WarehouseMapping), nil
}

var _ connector.Connector = (*SAPConnector)(nil)
