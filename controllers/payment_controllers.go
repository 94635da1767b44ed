package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/services"
	"github.com/yeremiapane/dinein-backend/utils"
)

// PaymentController menangani pembayaran kartu (Midtrans) dan tunai.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(svc *services.Container) *PaymentController {
	return &PaymentController{payments: svc.Payments}
}

type orderRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// CreateIntent -> POST /api/payments/create-intent
func (pc *PaymentController) CreateIntent(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := pc.payments.CreateIntent(c.Request.Context(), customerID(c), req.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment intent created", result)
}

// Webhook -> notifikasi dari payment gateway, tanpa auth (signature diverifikasi)
func (pc *PaymentController) Webhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		utils.RespondFail(c, http.StatusBadRequest, "Empty notification body")
		return
	}
	if err := pc.payments.HandleWebhook(c.Request.Context(), body); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification processed", nil)
}

// RecordCash -> POST /api/payments/cash (staff)
func (pc *PaymentController) RecordCash(c *gin.Context) {
	var req orderRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := pc.payments.RecordCashPayment(c.Request.Context(), restaurantID(c), actorFrom(c).UserID, req.OrderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Cash payment recorded", payment)
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.payments.GetCustomerPayment(c.Request.Context(), customerID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment retrieved successfully", payment)
}

func (pc *PaymentController) ListOrderPayments(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}
	payments, err := pc.payments.ListOrderPayments(c.Request.Context(), restaurantID(c), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payments retrieved successfully", payments)
}
