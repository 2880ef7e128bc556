package handler

import (
	"github.com/coffeetrade/backend/internal/application/reconcile"
	"github.com/coffeetrade/backend/internal/application/store"
	"github.com/coffeetrade/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// BatchHandler handles inventory batch API endpoints, including the
// resync trigger that folds unlinked lot remainders into batches.
type BatchHandler struct {
	BaseHandler
	queryService     *store.BatchQueryService
	reconcileService *reconcile.Service
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(queryService *store.BatchQueryService, reconcileService *reconcile.Service) *BatchHandler {
	return &BatchHandler{
		queryService:     queryService,
		reconcileService: reconcileService,
	}
}

// RegisterRoutes registers batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.GET("", h.List)
		batches.GET("/:id", h.Get)
		batches.POST("/resync", h.Resync)
	}
}

// List returns inventory batches with pagination
func (h *BatchHandler) List(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := toFilter(req)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if coffeeType := c.Query("coffee_type"); coffeeType != "" {
		filter.Filters["coffee_type"] = coffeeType
	}

	page, err := h.queryService.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single batch with its source lots
func (h *BatchHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	b, err := h.queryService.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Resync runs one batch reconciliation pass and returns its summary
func (h *BatchHandler) Resync(c *gin.Context) {
	summary, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
