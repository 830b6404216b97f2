package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambev-sales/sales-service/pkg/errors"
	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/middleware"

	"github.com/ambev-sales/sales-service/internal/application"
)

// SaleService is the application surface the HTTP layer depends on
type SaleService interface {
	CreateSale(ctx context.Context, cmd application.CreateSaleCommand) (*application.SaleDTO, error)
	GetSale(ctx context.Context, query application.GetSaleQuery) (*application.SaleDTO, error)
	ListSales(ctx context.Context, query application.ListSalesQuery) ([]application.SaleDTO, error)
	UpdateSale(ctx context.Context, cmd application.UpdateSaleCommand) (*application.SaleDTO, error)
	DeleteSale(ctx context.Context, cmd application.DeleteSaleCommand) (*application.DeleteSaleResult, error)
	CancelSale(ctx context.Context, cmd application.CancelSaleCommand) (*application.SaleDTO, error)
	CancelItem(ctx context.Context, cmd application.CancelItemCommand) (*application.SaleDTO, error)
	ListSaleItems(ctx context.Context, query application.ListSaleItemsQuery) ([]application.SaleItemDTO, error)
	GetSaleItem(ctx context.Context, query application.GetSaleItemQuery) (*application.SaleItemDTO, error)
}

// Response is the envelope for successful responses
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SaleHandlers contains handlers for sale operations
type SaleHandlers struct {
	service SaleService
	logger  *logging.Logger
}

// NewSaleHandlers creates a new SaleHandlers
func NewSaleHandlers(service SaleService, logger *logging.Logger) *SaleHandlers {
	return &SaleHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers sale routes on the router
func (h *SaleHandlers) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSale)
		sales.PUT("/:id", h.UpdateSale)
		sales.DELETE("/:id", h.DeleteSale)
		sales.PATCH("/cancel/:id", h.CancelSale)
		sales.PATCH("/cancel-item/:saleId/:itemId", h.CancelItem)
		sales.GET("/:id/items", h.ListSaleItems)
		sales.GET("/:id/items/:itemId", h.GetSaleItem)
	}
}

type saleItemRequest struct {
	Product   string          `json:"product" binding:"safe_string,max=100"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"money"`
}

type createSaleRequest struct {
	SaleNumber string            `json:"saleNumber" binding:"safe_string,max=50"`
	Customer   string            `json:"customer" binding:"safe_string,max=100"`
	Branch     string            `json:"branch" binding:"safe_string,max=100"`
	Items      []saleItemRequest `json:"items" binding:"dive"`
}

type updateSaleRequest struct {
	SaleNumber  string `json:"saleNumber" binding:"safe_string,max=50"`
	Customer    string `json:"customer" binding:"safe_string,max=100"`
	Branch      string `json:"branch" binding:"safe_string,max=100"`
	IsCancelled *bool  `json:"isCancelled"`
}

func parseID(c *gin.Context, responder *middleware.ErrorResponder, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		responder.RespondBadRequest("invalid " + param + ": must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// CreateSale handles sale creation
func (h *SaleHandlers) CreateSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req createSaleRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.number": req.SaleNumber,
		"sale.items":  len(req.Items),
	})

	cmd := application.CreateSaleCommand{
		SaleNumber: req.SaleNumber,
		Customer:   req.Customer,
		Branch:     req.Branch,
		Items:      make([]application.SaleItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.SaleItemInput{
			Product:   item.Product,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	sale, err := h.service.CreateSale(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Message: "Sale created successfully", Data: sale})
}

// GetSale handles getting a sale by ID
func (h *SaleHandlers) GetSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, responder, "id")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id": id.String(),
	})

	sale, err := h.service.GetSale(c.Request.Context(), application.GetSaleQuery{ID: id})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sale retrieved successfully", Data: sale})
}

// ListSales handles listing all sales
func (h *SaleHandlers) ListSales(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	sales, err := h.service.ListSales(c.Request.Context(), application.ListSalesQuery{})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sales.count": len(sales),
	})

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sales listed successfully", Data: sales})
}

// UpdateSale handles updating a sale header
func (h *SaleHandlers) UpdateSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, responder, "id")
	if !ok {
		return
	}

	var req updateSaleRequest
	if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
		responder.RespondWithAppError(appErr)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id":     id.String(),
		"sale.number": req.SaleNumber,
	})

	cmd := application.UpdateSaleCommand{
		ID:          id,
		SaleNumber:  req.SaleNumber,
		Customer:    req.Customer,
		Branch:      req.Branch,
		IsCancelled: req.IsCancelled,
	}

	sale, err := h.service.UpdateSale(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sale updated successfully", Data: sale})
}

// DeleteSale handles deleting a sale. A missing sale is reported with 404 and the result message.
func (h *SaleHandlers) DeleteSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, responder, "id")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id": id.String(),
	})

	result, err := h.service.DeleteSale(c.Request.Context(), application.DeleteSaleCommand{ID: id})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}
	c.JSON(status, Response{Success: result.Success, Message: result.Message})
}

// CancelSale handles cancelling a sale and all of its items
func (h *SaleHandlers) CancelSale(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, responder, "id")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id": id.String(),
	})

	sale, err := h.service.CancelSale(c.Request.Context(), application.CancelSaleCommand{ID: id})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sale cancelled successfully", Data: sale})
}

// CancelItem handles cancelling a single item of a sale
func (h *SaleHandlers) CancelItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	saleID, ok := parseID(c, responder, "saleId")
	if !ok {
		return
	}
	itemID, ok := parseID(c, responder, "itemId")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id":      saleID.String(),
		"sale.item.id": itemID.String(),
	})

	sale, err := h.service.CancelItem(c.Request.Context(), application.CancelItemCommand{SaleID: saleID, ItemID: itemID})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Item cancelled successfully", Data: sale})
}

// ListSaleItems handles listing the items of a sale
func (h *SaleHandlers) ListSaleItems(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	saleID, ok := parseID(c, responder, "id")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id": saleID.String(),
	})

	items, err := h.service.ListSaleItems(c.Request.Context(), application.ListSaleItemsQuery{SaleID: saleID})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sale items listed successfully", Data: items})
}

// GetSaleItem handles getting one item of a sale
func (h *SaleHandlers) GetSaleItem(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	saleID, ok := parseID(c, responder, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, responder, "itemId")
	if !ok {
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"sale.id":      saleID.String(),
		"sale.item.id": itemID.String(),
	})

	item, err := h.service.GetSaleItem(c.Request.Context(), application.GetSaleItemQuery{SaleID: saleID, ItemID: itemID})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Sale item retrieved successfully", Data: item})
}
