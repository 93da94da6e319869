package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

// SuccessResponse is the envelope of every 2xx body.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope of every error body.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	// Degraded is set when the live store stopped answering.
	Degraded bool `json:"degraded,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.LoggerFrom(c, h.logger)
}

func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	h.log(c).Debug(msg, append(args, "path", c.FullPath())...)
}

func (h BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	h.log(c).Error(msg, append(args, "error", err)...)
}

func (h BaseHandler) respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

func (h BaseHandler) fail(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   code,
		Message: message,
		Details: details,
	})
}

// bindJSON decodes the body; it writes the 400 itself and returns false on failure.
func (h BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid_payload", "Invalid request payload", err.Error())
		return false
	}
	return true
}

// errorMessages overrides the default message per error class.
type errorMessages struct {
	Validation string
	NotFound   string
	Forbidden  string
}

func (h BaseHandler) handleServiceError(c *gin.Context, err error, msgs errorMessages) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		var details interface{} = err.Error()
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details = verrs
		}
		h.fail(c, http.StatusBadRequest, "validation_failed", or(msgs.Validation, "Validation failed"), details)
	case errors.Is(err, services.ErrDuplicateEmail):
		h.fail(c, http.StatusBadRequest, "duplicate_email", "User with this email already exists", nil)
	case errors.Is(err, services.ErrNotStudent):
		h.fail(c, http.StatusBadRequest, "not_student", "User is not a student", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		h.fail(c, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
	case errors.Is(err, services.ErrUnauthorized):
		h.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
	case errors.Is(err, services.ErrForbidden):
		h.fail(c, http.StatusForbidden, "forbidden", or(msgs.Forbidden, "You do not have permission to perform this action"), nil)
	case errors.Is(err, services.ErrNotFound):
		h.fail(c, http.StatusNotFound, "not_found", or(msgs.NotFound, "Resource not found"), nil)
	case errors.Is(err, services.ErrStoreUnavailable):
		h.LogError(c, err, "Live store unavailable")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Success:  false,
			Error:    "store_unavailable",
			Message:  "Live data is temporarily unavailable",
			Degraded: true,
		})
	case errors.Is(err, services.ErrPaymentGateway):
		h.LogError(c, err, "Checkout gateway failed")
		h.fail(c, http.StatusBadGateway, "payment_gateway", "Payment provider is unavailable", nil)
	default:
		h.LogError(c, err, "Unexpected service error")
		h.fail(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
