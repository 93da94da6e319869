package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type PaymentHandler struct {
	BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService, logger utils.Logger) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    NewBaseHandler(logger),
		paymentService: paymentService,
	}
}

var paymentErrors = errorMessages{NotFound: "Payment not found"}

// CreatePayment records a payment for the caller and opens a checkout when configured
// @Summary Create payment
// @Description Records a pending payment for the caller and opens a checkout when a gateway is configured
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body validator.CreatePaymentRequest true "Payment data"
// @Success 201 {object} SuccessResponse{data=object{payment=models.Payment}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	var req validator.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err, paymentErrors)
		return
	}

	h.log(c).Info("Payment recorded", "payment_id", payment.ID, "amount", payment.Amount)
	h.respond(c, http.StatusCreated, "Payment record created successfully", gin.H{"payment": payment})
}

// ListPayments returns the caller's payments, newest first
// @Summary List payments
// @Description Returns the caller's payments, newest first
// @Tags payments
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Payment}
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	payments, err := h.paymentService.List(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, paymentErrors)
		return
	}

	count := len(payments)
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Count:   &count,
		Data:    gin.H{"payments": payments},
	})
}

// GetPayment
// @Summary Get payment
// @Description Returns one payment owned by the caller
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} SuccessResponse{data=object{payment=models.Payment}}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	payment, err := h.paymentService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, paymentErrors)
		return
	}
	h.respond(c, http.StatusOK, "", gin.H{"payment": payment})
}

// UpdatePaymentStatus
// @Summary Update payment status
// @Description Sets a payment record to Pending, Completed, Failed or Refunded
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param status body validator.PaymentStatusRequest true "New status"
// @Success 200 {object} SuccessResponse{data=object{payment=models.Payment}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments/{id}/status [patch]
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	userID, _ := GetUserIDFromContext(c)

	var req validator.PaymentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, paymentErrors)
		return
	}
	h.respond(c, http.StatusOK, "Payment status updated successfully", gin.H{"payment": payment})
}
