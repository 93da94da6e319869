package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
)

type HealthHandler struct {
	BaseHandler
	healthService services.HealthService
}

func NewHealthHandler(healthService services.HealthService, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler:   NewBaseHandler(logger),
		healthService: healthService,
	}
}

// HealthResponse always reports 200; a degraded store shows up as mode "mock".
type HealthResponse struct {
	Success        bool              `json:"success"`
	Message        string            `json:"message"`
	DBConnected    bool              `json:"dbConnected"`
	Mode           repositories.Mode `json:"mode"`
	CacheConnected bool              `json:"cacheConnected"`
}

// Health
// @Summary Health check
// @Description Reports data mode and backing store connectivity
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthService.Check(c.Request.Context())
	c.JSON(http.StatusOK, HealthResponse{
		Success:        true,
		Message:        "Server is running",
		DBConnected:    status.DBConnected,
		Mode:           status.Mode,
		CacheConnected: status.CacheConnected,
	})
}
