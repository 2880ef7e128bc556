package handler

import (
	"time"

	"github.com/coffeetrade/backend/internal/application/store"
	"github.com/coffeetrade/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CoffeeLotHandler handles coffee lot API endpoints
type CoffeeLotHandler struct {
	BaseHandler
	lotService *store.LotService
}

// NewCoffeeLotHandler creates a new CoffeeLotHandler
func NewCoffeeLotHandler(lotService *store.LotService) *CoffeeLotHandler {
	return &CoffeeLotHandler{lotService: lotService}
}

// CreateLotRequest represents a request to receive a new coffee lot
type CreateLotRequest struct {
	CoffeeType   string     `json:"coffee_type" binding:"required,coffeetype,max=100"`
	Kilograms    float64    `json:"kilograms" binding:"required,gt=0"`
	SupplierName string     `json:"supplier_name" binding:"max=200"`
	ReceivedDate *time.Time `json:"received_date"`
}

// RegisterRoutes registers coffee lot routes
func (h *CoffeeLotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lots := rg.Group("/lots")
	{
		lots.POST("", h.Create)
		lots.GET("", h.List)
		lots.GET("/:id", h.Get)
		lots.DELETE("/:id", h.Delete)
	}
}

// Create receives a new coffee lot into inventory
func (h *CoffeeLotHandler) Create(c *gin.Context) {
	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := store.CreateLotInput{
		CoffeeType:   req.CoffeeType,
		Kilograms:    req.Kilograms,
		SupplierName: req.SupplierName,
	}
	if req.ReceivedDate != nil {
		input.ReceivedDate = *req.ReceivedDate
	}

	lot, err := h.lotService.ReceiveLot(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lot)
}

// List returns coffee lots with pagination
func (h *CoffeeLotHandler) List(c *gin.Context) {
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

	page, err := h.lotService.ListLots(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single coffee lot
func (h *CoffeeLotHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	lot, err := h.lotService.GetLot(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lot)
}

// Delete removes a coffee lot
func (h *CoffeeLotHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	if err := h.lotService.DeleteLot(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
