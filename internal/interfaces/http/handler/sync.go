package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/interfaces/http/dto"
)

const maxRunListLimit = 200

var errInvalidLimit = errors.New("limit must be an integer between 0 and 200")

// SyncHandler exposes the sync operations: imports and exports across
// connectors, and the recorded run history.
type SyncHandler struct {
	BaseHandler
	runner *sync.Runner
	runs   sync.RunRepository
	logger *zap.Logger
}

// NewSyncHandler creates a new SyncHandler. The run repository may be nil
// when history recording is disabled.
func NewSyncHandler(runner *sync.Runner, runs sync.RunRepository, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		runner: runner,
		runs:   runs,
		logger: logger.Named("handler.sync"),
	}
}

// RegisterRoutes registers the sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync")
	syncGroup.POST("/inventory", h.SyncInventory)
	syncGroup.POST("/orders", h.SyncOrders)
	syncGroup.GET("/runs", h.ListRuns)

	exportGroup := rg.Group("/export")
	exportGroup.POST("/inventory", h.ExportInventory)
	exportGroup.POST("/orders", h.ExportOrders)
}

// SyncInventory imports inventory from all enabled connectors
func (h *SyncHandler) SyncInventory(c *gin.Context) {
	var req dto.InventorySyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}

	run := h.runner.RunInventory(c.Request.Context(), req.ToFilter())
	h.Success(c, dto.NewSyncRunResponse(run))
}

// SyncOrders imports orders from all enabled connectors
func (h *SyncHandler) SyncOrders(c *gin.Context) {
	var req dto.OrderSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}

	run := h.runner.RunOrders(c.Request.Context(), req.ToFilter())
	h.Success(c, dto.NewSyncRunResponse(run))
}

// ExportInventory pushes inventory records to the requested connector, or
// to every enabled connector when no code is given.
func (h *SyncHandler) ExportInventory(c *gin.Context) {
	var req dto.ExportInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	run := h.runner.RunInventoryExport(c.Request.Context(), req.ToRecords(), req.Code)
	h.Success(c, dto.NewSyncRunResponse(run))
}

// ExportOrders pushes orders to the requested connector, or to every
// enabled connector when no code is given.
func (h *SyncHandler) ExportOrders(c *gin.Context) {
	var req dto.ExportOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	run := h.runner.RunOrdersExport(c.Request.Context(), req.ToRecords(), req.Code)
	h.Success(c, dto.NewSyncRunResponse(run))
}

// ListRuns returns the most recent sync run reports, newest first
func (h *SyncHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		h.Success(c, []dto.SyncRunResponse{})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxRunListLimit {
			h.BadRequest(c, errInvalidLimit)
			return
		}
		limit = parsed
	}

	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list sync runs", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list sync runs")
		return
	}

	h.Success(c, dto.NewSyncRunResponses(runs))
}
