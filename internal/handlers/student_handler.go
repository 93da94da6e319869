package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

var studentErrors = errorMessages{
	NotFound:  "User not found",
	Forbidden: "Only students can update their profile",
}

// UpdateProfile changes phone, bio and emergency contact
// @Summary Update student profile
// @Description Changes phone, bio and emergency contact of the calling student
// @Tags student
// @Accept json
// @Produce json
// @Param profile body validator.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse{data=object{user=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /student/profile [patch]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
		return
	}

	var req validator.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.studentService.UpdateProfile(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err, studentErrors)
		return
	}

	h.respond(c, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}

// UploadDocument stores a reference to an identity document
// @Summary Upload document
// @Description Stores a reference to the student's identity document
// @Tags student
// @Accept json
// @Produce json
// @Param document body validator.DocumentRequest true "Document URL"
// @Success 200 {object} SuccessResponse{data=object{user=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /student/upload-document [post]
func (h *StudentHandler) UploadDocument(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
		return
	}

	var req validator.DocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.studentService.UploadDocument(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err, studentErrors)
		return
	}

	h.respond(c, http.StatusOK, "Document uploaded successfully", gin.H{"user": user})
}

// UploadPaymentReceipt stores a reference to a payment receipt
// @Summary Upload payment receipt
// @Description Stores a reference to the student's payment receipt
// @Tags student
// @Accept json
// @Produce json
// @Param receipt body validator.ReceiptRequest true "Receipt URL"
// @Success 200 {object} SuccessResponse{data=object{user=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /student/upload-payment-receipt [post]
func (h *StudentHandler) UploadPaymentReceipt(c *gin.Context) {
	studentID, err := GetUserIDFromContext(c)
	if err != nil {
		h.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
		return
	}

	var req validator.ReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.studentService.UploadPaymentReceipt(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleServiceError(c, err, studentErrors)
		return
	}

	h.respond(c, http.StatusOK, "Payment receipt uploaded successfully", gin.H{"user": user})
}
