package handler

import (
	"github.com/coffeetrade/backend/internal/application/store"
	"github.com/coffeetrade/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleDeductionHandler handles sale deduction API endpoints
type SaleDeductionHandler struct {
	BaseHandler
	deductionService *store.DeductionService
}

// NewSaleDeductionHandler creates a new SaleDeductionHandler
func NewSaleDeductionHandler(deductionService *store.DeductionService) *SaleDeductionHandler {
	return &SaleDeductionHandler{deductionService: deductionService}
}

// CreateDeductionRequest represents a request to record a sale deduction
type CreateDeductionRequest struct {
	CoffeeLotID string  `json:"coffee_lot_id" binding:"required,uuid"`
	QuantityKg  float64 `json:"quantity_kg" binding:"required,gt=0"`
	Reference   string  `json:"reference" binding:"max=100"`
}

// RegisterRoutes registers sale deduction routes
func (h *SaleDeductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deductions := rg.Group("/deductions")
	{
		deductions.POST("", h.Create)
		deductions.GET("", h.List)
	}
	rg.GET("/lots/:id/deductions", h.ListForLot)
}

// Create records a sale deduction against a coffee lot
func (h *SaleDeductionHandler) Create(c *gin.Context) {
	var req CreateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lotID, err := uuid.Parse(req.CoffeeLotID)
	if err != nil {
		h.BadRequest(c, "Invalid coffee lot ID")
		return
	}

	deduction, err := h.deductionService.RecordDeduction(c.Request.Context(), store.CreateDeductionInput{
		CoffeeLotID: lotID,
		QuantityKg:  req.QuantityKg,
		Reference:   req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deduction)
}

// List returns sale deductions with pagination
func (h *SaleDeductionHandler) List(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.deductionService.ListDeductions(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListForLot returns all deductions against one coffee lot
func (h *SaleDeductionHandler) ListForLot(c *gin.Context) {
	lotID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	deductions, err := h.deductionService.ListDeductionsForLot(c.Request.Context(), lotID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, deductions)
}
