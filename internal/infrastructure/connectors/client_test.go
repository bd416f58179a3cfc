package connectors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

func TestAPIClientSettings(t *testing.T) {
	t.Run("unknown code maps to ErrNotConfigured", func(t *testing.T) {
		c := NewAPIClient("sap", "SAP ERP", staticSource{}, testLogger())
		_, err := c.Settings()
		assert.ErrorIs(t, err, connector.ErrNotConfigured)
	})

	t.Run("disabled code maps to ErrNotEnabled", func(t *testing.T) {
		source := staticSource{"sap": {Enabled: false, APIURL: "https://erp.example.com"}}
		c := NewAPIClient("sap", "SAP ERP", source, testLogger())
		_, err := c.Settings()
		assert.ErrorIs(t, err, connector.ErrNotEnabled)
	})
}

func TestAPIClientEndpoint(t *testing.T) {
	c := NewAPIClient("sap", "SAP ERP", staticSource{}, testLogger())

	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://erp.example.com", "api/v1/inventory", "https://erp.example.com/api/v1/inventory"},
		{"https://erp.example.com/", "api/v1/inventory", "https://erp.example.com/api/v1/inventory"},
		{"https://erp.example.com", "/api/v1/inventory", "https://erp.example.com/api/v1/inventory"},
		{"https://erp.example.com/", "/api/v1/inventory", "https://erp.example.com/api/v1/inventory"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Endpoint(tt.base, tt.path))
	}
}

func TestAPIClientDo(t *testing.T) {
	ctx := context.Background()

	t.Run("sends JSON headers and query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "token-1", r.Header.Get("X-Custom"))
			assert.Equal(t, "WIDGET-1", r.URL.Query().Get("material_number"))
			w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		body, err := c.Do(ctx, Request{
			Method:  "GET",
			Path:    "api/v1/inventory",
			Query:   map[string][]string{"material_number": {"WIDGET-1"}},
			Headers: map[string]string{"X-Custom": "token-1"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("non-2xx surfaces as APIError wrapping ErrRequestFailed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		_, err := c.Do(ctx, Request{Method: "GET", Path: "api/v1/inventory"})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.ErrorIs(t, err, connector.ErrRequestFailed)
	})

	t.Run("4xx is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad request", http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		_, err := c.Do(ctx, Request{Method: "GET", Path: "api/v1/inventory"})
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("5xx is retried until success", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		body, err := c.Do(ctx, Request{Method: "GET", Path: "api/v1/inventory"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("request body is JSON encoded", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var payload map[string]any
			require.NoError(t, jsonDecode(r, &payload))
			assert.Equal(t, "WIDGET-1", payload["sku"])
			w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		_, err := c.Do(ctx, Request{Method: "POST", Path: "update", Body: map[string]string{"sku": "WIDGET-1"}})
		require.NoError(t, err)
	})
}

func TestAPIClientDoJSON(t *testing.T) {
	t.Run("decodes the response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok","version":"2.4"}`))
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		var resp sapStatusResponse
		require.NoError(t, c.DoJSON(context.Background(), Request{Method: "GET", Path: "status"}, &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "2.4", resp.Version)
	})

	t.Run("garbage body maps to ErrInvalidResponse", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		}))
		defer srv.Close()

		c := NewAPIClient("sap", "SAP ERP", staticSource{"sap": enabledSettings(srv.URL)}, testLogger())
		var resp sapStatusResponse
		err := c.DoJSON(context.Background(), Request{Method: "GET", Path: "status"}, &resp)
		assert.ErrorIs(t, err, connector.ErrInvalidResponse)
	})
}

func TestAPIClientSeesSourceChanges(t *testing.T) {
	// Settings are resolved per call, so an overlay or config change takes
	// effect without rebuilding the client.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	source := staticSource{"sap": {Enabled: false, APIURL: srv.URL}}
	c := NewAPIClient("sap", "SAP ERP", source, testLogger())

	_, err := c.Do(context.Background(), Request{Method: "GET", Path: "status"})
	assert.ErrorIs(t, err, connector.ErrNotEnabled)

	overlay := config.NewOverlay(source, "sap", config.ConnectorSettings{})
	c2 := NewAPIClient("sap", "SAP ERP", overlay, testLogger())
	_, err = c2.Do(context.Background(), Request{Method: "GET", Path: "status"})
	assert.NoError(t, err)
}

func jsonDecode(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
