package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/domain/shared"
	"github.com/nicksmagento/syncbridge/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubConnector is a scriptable Connector for handler tests
type stubConnector struct {
	code      string
	name      string
	typ       connector.Type
	enabled   bool
	inventory []connector.InventoryRecord
	orders    []connector.OrderRecord
	importErr error
	exportErr error
	status    connector.Status
}

func (s *stubConnector) Code() string                        { return s.code }
func (s *stubConnector) Name() string                        { return s.name }
func (s *stubConnector) Type() connector.Type                { return s.typ }
func (s *stubConnector) IsEnabled(context.Context) bool      { return s.enabled }
func (s *stubConnector) Initialize(context.Context) bool     { return s.enabled }
func (s *stubConnector) TestConnection(context.Context) bool { return s.status.Connected }

func (s *stubConnector) ImportInventory(context.Context, connector.InventoryFilter) ([]connector.InventoryRecord, error) {
	return s.inventory, s.importErr
}

func (s *stubConnector) ExportInventory(context.Context, []connector.InventoryRecord) error {
	return s.exportErr
}

func (s *stubConnector) ImportOrders(context.Context, connector.OrderFilter) ([]connector.OrderRecord, error) {
	return s.orders, s.importErr
}

func (s *stubConnector) ExportOrders(context.Context, []connector.OrderRecord) error {
	return s.exportErr
}

func (s *stubConnector) Status(context.Context) connector.Status { return s.status }

// stubRegistry serves a fixed connector set in registration order
type stubRegistry struct {
	connectors map[string]connector.Connector
	order      []string
}

func newStubRegistry(conns ...*stubConnector) *stubRegistry {
	r := &stubRegistry{connectors: make(map[string]connector.Connector)}
	for _, c := range conns {
		r.connectors[c.code] = c
		r.order = append(r.order, c.code)
	}
	return r
}

func (r *stubRegistry) Get(code string) (connector.Connector, bool) {
	c, ok := r.connectors[code]
	return c, ok
}

func (r *stubRegistry) Codes() []string { return r.order }

func (r *stubRegistry) Enabled(ctx context.Context) map[string]connector.Connector {
	enabled := make(map[string]connector.Connector)
	for code, c := range r.connectors {
		if c.IsEnabled(ctx) {
			enabled[code] = c
		}
	}
	return enabled
}

func (r *stubRegistry) RegisterFactory(code string, factory connector.Factory) {}

type nopBus struct{}

func (nopBus) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }
func (nopBus) Subscribe(handler shared.EventHandler, eventTypes ...string)     {}
func (nopBus) Unsubscribe(handler shared.EventHandler)                         {}

// performRequest runs one request against the engine and decodes the envelope
func performRequest(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	var envelope dto.Response
	if recorder.Body.Len() > 0 && recorder.Header().Get("Content-Type") != "" {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	}
	return recorder, envelope
}

// dataAs re-decodes the envelope data into a typed value
func dataAs[T any](t *testing.T, envelope dto.Response) T {
	t.Helper()
	encoded, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(encoded, &out))
	return out
}

func newEngine(registrars ...interface {
	RegisterRoutes(rg *gin.RouterGroup)
}) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return engine
}
