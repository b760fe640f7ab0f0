package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/internal/domains/payment/service"
	"bookstore-marketplace/internal/shared/middleware"
	"bookstore-marketplace/internal/shared/response"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentIntent - POST /create-razorpay-order, body {amount, orderId?}
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req model.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), identity, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// VerifyPayment - POST /verify-razorpay-signature, body {orderId, paymentId, signature}
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	identity, ok := middleware.RequireIdentity(c)
	if !ok {
		return
	}

	var req model.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.VerifyPayment(c.Request.Context(), identity, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Payment verified successfully", result)
}
