package connectors

import "github.com/shopspring/decimal"

// Wire types for the ShipStation API.

type shipstationWarehousesResponse []shipstationWarehouse

type shipstationWarehouse struct {
	WarehouseID int    `json:"warehouseId"`
	Name        string `json:"warehouseName"`
}

type shipstationOrderItem struct {
	SKU       string          `json:"sku"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type shipstationAddress struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type shipstationOrder struct {
	OrderNumber   string                 `json:"orderNumber"`
	CustomerEmail string                 `json:"customerEmail"`
	ShipTo        shipstationAddress     `json:"shipTo"`
	Items         []shipstationOrderItem `json:"items"`
}

type shipstationOrdersResponse struct {
	Orders []shipstationOrder `json:"orders"`
	Total  int                `json:"total"`
}
