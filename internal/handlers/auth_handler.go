package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Register creates an account and returns a session token
// @Summary Register student
// @Description Creates a student account and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validator.RegisterRequest true "Registration data"
// @Success 201 {object} SuccessResponse{data=services.AuthResult}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req validator.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, errorMessages{})
		return
	}

	h.respond(c, http.StatusCreated, "User registered successfully", res)
}

// Login exchanges credentials for a session token
// @Summary Login
// @Description Exchanges email and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body validator.LoginRequest true "Login credentials"
// @Success 200 {object} SuccessResponse{data=services.AuthResult}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, errorMessages{Validation: "Please provide email and password"})
		return
	}

	h.respond(c, http.StatusOK, "Login successful", res)
}

// Profile returns the authenticated user
// @Summary Get profile
// @Description Returns the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse{data=object{user=models.User}}
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err, errorMessages{NotFound: "User not found"})
		return
	}

	h.respond(c, http.StatusOK, "", gin.H{"user": user})
}
