package handler

import (
	"net/http"
	"time"

	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/domains/order/service"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/internal/shared/export"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/internal/shared/response"
	"bookstore-marketplace/internal/shared/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderHandler - HTTP handler cho /order
type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder - POST /order, body {bookId}
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), identity, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Order created successfully", order)
}

// ListOrders - GET /order?status=&sellerId=&userId=&bookId= (Admin)
func (h *OrderHandler) ListOrders(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)

	page, err := h.orderService.ListOrders(c.Request.Context(), identity, filter, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Paginated(c, page)
}

// ListUserOrders - GET /order/user, mặc định 9 order/trang
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.BuyerOrderHistoryLimit)

	page, err := h.orderService.ListOrdersForUser(c.Request.Context(), identity.UserID, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Paginated(c, page)
}

// ListSellerOrders - GET /order/seller
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)

	page, err := h.orderService.ListOrdersForSeller(c.Request.Context(), identity.UserID, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Paginated(c, page)
}

// ExportSellerOrders - GET /order/seller/export
func (h *OrderHandler) ExportSellerOrders(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	f, err := h.orderService.ExportOrdersForSeller(c.Request.Context(), identity.UserID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	filename := utils.ExportFileName("orders", identity.UserID.String()[:8], time.Now())
	if err := export.Write(c, filename, f); err != nil {
		log.Error().Err(err).Str("seller_id", identity.UserID.String()).Msg("Failed to stream order export")
	}
}

// ListBookOrders - GET /order/book/:bookId
func (h *OrderHandler) ListBookOrders(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	bookID, err := uuid.Parse(c.Param("bookId"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidBookID)
		return
	}
	params := catalog.ParseParams(c.Query("page"), c.Query("limit"), catalog.DefaultLimit)

	page, err := h.orderService.ListOrdersForBook(c.Request.Context(), identity, bookID, params)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Paginated(c, page)
}

// GetOrder - GET /order/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// UpdateOrder - PUT /order/:id, body {status?, totalPrice?}
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), identity, id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Order updated successfully", order)
}

// DeleteOrder - DELETE /order/:id (Admin)
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), identity, id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Order deleted successfully", nil)
}

// ========================================
// HELPERS
// ========================================

func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidOrderID)
		return uuid.Nil, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (model.OrderFilter, error) {
	var filter model.OrderFilter
	var err error

	if filter.SellerID, err = utils.ParseOptionalUUID(c.Query("sellerId")); err != nil {
		return filter, model.ErrInvalidFilter.WithMessage("Invalid sellerId")
	}
	if filter.UserID, err = utils.ParseOptionalUUID(c.Query("userId")); err != nil {
		return filter, model.ErrInvalidFilter.WithMessage("Invalid userId")
	}
	if filter.BookID, err = utils.ParseOptionalUUID(c.Query("bookId")); err != nil {
		return filter, model.ErrInvalidFilter.WithMessage("Invalid bookId")
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}
	return filter, nil
}
