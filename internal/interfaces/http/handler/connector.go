package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/cache"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/connectors"
	"github.com/nicksmagento/syncbridge/internal/interfaces/http/dto"
)

// ConnectorHandler exposes the connector inventory of the service: what is
// registered, whether it is reachable, and ad-hoc connection tests against
// candidate credentials.
type ConnectorHandler struct {
	BaseHandler
	registry connector.Registry
	source   config.ConnectorSource
	logger   *zap.Logger
}

// NewConnectorHandler creates a new ConnectorHandler
func NewConnectorHandler(
	registry connector.Registry,
	source config.ConnectorSource,
	logger *zap.Logger,
) *ConnectorHandler {
	return &ConnectorHandler{
		registry: registry,
		source:   source,
		logger:   logger.Named("handler.connector"),
	}
}

// RegisterRoutes registers the connector routes
func (h *ConnectorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/connectors")
	group.GET("", h.List)
	group.GET("/:code/status", h.Status)
	group.POST("/:code/test", h.Test)
}

// List returns every registered connector with its enablement state and,
// for enabled connectors, the live remote status.
func (h *ConnectorHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	codes := h.registry.Codes()
	summaries := make([]dto.ConnectorSummary, 0, len(codes))
	for _, code := range codes {
		conn, ok := h.registry.Get(code)
		if !ok {
			continue
		}
		summary := dto.ConnectorSummary{
			Code:    conn.Code(),
			Name:    conn.Name(),
			Type:    conn.Type().String(),
			Enabled: conn.IsEnabled(ctx),
		}
		if summary.Enabled {
			status := conn.Status(ctx)
			summary.Status = &status
		}
		summaries = append(summaries, summary)
	}
	h.Success(c, summaries)
}

// Status returns the live diagnostic state of one connector
func (h *ConnectorHandler) Status(c *gin.Context) {
	code := c.Param("code")
	conn, ok := h.registry.Get(code)
	if !ok {
		h.NotFound(c, fmt.Sprintf("unknown connector %s", code))
		return
	}
	h.Success(c, conn.Status(c.Request.Context()))
}

// Test runs a connection test for one connector. Settings in the request
// body overlay the stored configuration, so a new secret can be verified
// before it is saved.
func (h *ConnectorHandler) Test(c *gin.Context) {
	code := c.Param("code")
	if _, ok := h.registry.Get(code); !ok {
		h.NotFound(c, fmt.Sprintf("unknown connector %s", code))
		return
	}

	var req dto.ConnectionTestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}

	// The probe gets its own token store so a token granted by candidate
	// credentials never reaches the live connector, and a token cached by
	// the live connector never vouches for candidate credentials.
	overlay := config.NewOverlay(h.source, code, req.ToSettings())
	probe, err := connectors.Build(code, overlay, cache.NewInMemoryTokenStore(), h.logger)
	if err != nil {
		h.Error(c, http.StatusUnprocessableEntity, "TEST_FAILED", err.Error())
		return
	}

	connected := probe.TestConnection(c.Request.Context())
	h.logger.Info("Connection test finished",
		zap.String("connector", code),
		zap.Bool("connected", connected),
	)

	h.Success(c, dto.ConnectionTestResponse{
		Code:      code,
		Connected: connected,
	})
}
