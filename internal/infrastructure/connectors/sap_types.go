package connectors

import "github.com/shopspring/decimal"

// Wire types for the SAP REST gateway.

type sapStatusResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	LastSync     string `json:"last_sync"`
	PendingItems int    `json:"pending_items"`
}

type sapInventoryItem struct {
	MaterialNumber string          `json:"material_number"`
	WarehouseID    string          `json:"warehouse_id"`
	AvailableStock decimal.Decimal `json:"available_stock"`
}

type sapInventoryResponse struct {
	Items []sapInventoryItem `json:"items"`
}

type sapInventoryUpdateRequest struct {
	Items []sapInventoryItem `json:"items"`
}

type sapWriteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sapCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type sapOrderItem struct {
	MaterialNumber string          `json:"material_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
}

type sapShipping struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

type sapOrder struct {
	OrderNumber string         `json:"order_number"`
	Customer    sapCustomer    `json:"customer"`
	Items       []sapOrderItem `json:"items"`
	Shipping    sapShipping    `json:"shipping"`
}

type sapOrdersResponse struct {
	Orders []sapOrder `json:"orders"`
}

type sapOrdersCreateRequest struct {
	Orders []sapOrder `json:"orders"`
}
