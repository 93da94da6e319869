package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	studentHandler *StudentHandler
	adminHandler   *AdminHandler
	paymentHandler *PaymentHandler
	healthHandler  *HealthHandler
	authMiddleware *AuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		studentHandler: NewStudentHandler(serviceManager.Student(), logger),
		adminHandler:   NewAdminHandler(serviceManager.Admin(), serviceManager.Export(), logger),
		paymentHandler: NewPaymentHandler(serviceManager.Payment(), logger),
		healthHandler:  NewHealthHandler(serviceManager.Health(), logger),
		authMiddleware: NewAuthMiddleware(serviceManager.Auth(), logger),
	}
}

// SetupRoutes mounts every route under /api and again at the root.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	hm.registerRoutes(router.Group("/api"))
	hm.registerRoutes(router.Group(""))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Success: false,
			Error:   "not_found",
			Message: "Route not found",
		})
	})
}

func (hm *HandlerManager) registerRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", hm.healthHandler.Health)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.GET("/profile", hm.authMiddleware.Authenticate(), hm.authHandler.Profile)
	}

	student := rg.Group("/student")
	student.Use(hm.authMiddleware.Authenticate(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
	{
		student.PATCH("/profile", hm.studentHandler.UpdateProfile)
		student.POST("/upload-document", hm.studentHandler.UploadDocument)
		student.POST("/upload-payment-receipt", hm.studentHandler.UploadPaymentReceipt)
	}

	admin := rg.Group("/admin")
	admin.Use(hm.authMiddleware.Authenticate(), hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
	{
		admin.GET("/test", hm.adminHandler.Test)
		admin.GET("/financial-stats", hm.adminHandler.FinancialStats)

		admin.GET("/students", hm.adminHandler.ListStudents)
		admin.GET("/students/export", hm.adminHandler.ExportStudents)
		admin.PATCH("/students/batch-payment", hm.adminHandler.BatchMarkPaid)
		admin.PATCH("/students/:id", hm.adminHandler.TogglePaymentStatus)
		admin.PATCH("/students/:id/course", hm.adminHandler.SetCourse)
		admin.PATCH("/students/:id/clearance", hm.adminHandler.SetClearance)
	}

	payments := rg.Group("/payments")
	payments.Use(hm.authMiddleware.Authenticate())
	{
		payments.POST("", hm.paymentHandler.CreatePayment)
		payments.GET("", hm.paymentHandler.ListPayments)
		payments.GET("/:id", hm.paymentHandler.GetPayment)
		payments.PATCH("/:id/status", hm.paymentHandler.UpdatePaymentStatus)
	}
}
