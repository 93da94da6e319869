package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	BaseHandler
	adminService  services.AdminService
	exportService services.ExportService
}

func NewAdminHandler(adminService services.AdminService, exportService services.ExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		adminService:  adminService,
		exportService: exportService,
	}
}

var studentTargetErrors = errorMessages{NotFound: "Student not found"}

// Test reports the live student count
// @Summary Admin connection test
// @Description Reports whether the live store answers and how many students it holds
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse{data=object{totalStudents=int}}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/test [get]
func (h *AdminHandler) Test(c *gin.Context) {
	n, err := h.adminService.CountStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, errorMessages{})
		return
	}
	h.respond(c, http.StatusOK, "Connection active", gin.H{"totalStudents": n})
}

// ListStudents returns every student, newest first
// @Summary List students
// @Description Returns every student, newest first
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.User}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	list, err := h.adminService.ListStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, errorMessages{})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Count:   &list.Count,
		Data:    list,
	})
}

// FinancialStats returns collected and outstanding revenue
// @Summary Financial stats
// @Description Returns collected and outstanding revenue across students
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.FinancialStats}
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/financial-stats [get]
func (h *AdminHandler) FinancialStats(c *gin.Context) {
	stats, err := h.adminService.FinancialStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, errorMessages{})
		return
	}
	h.respond(c, http.StatusOK, "", stats)
}

// TogglePaymentStatus flips a student between Pending and Paid
// @Summary Toggle payment status
// @Description Flips a student between Pending and Paid
// @Tags admin
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} SuccessResponse{data=object{student=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/students/{id} [patch]
func (h *AdminHandler) TogglePaymentStatus(c *gin.Context) {
	adminID, _ := GetUserIDFromContext(c)

	student, err := h.adminService.TogglePaymentStatus(c.Request.Context(), adminID, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, studentTargetErrors)
		return
	}
	h.respond(c, http.StatusOK, "Payment status updated successfully", gin.H{"student": student})
}

// BatchMarkPaid marks several students as paid
// @Summary Batch mark paid
// @Description Marks the listed students as paid; unknown IDs are skipped
// @Tags admin
// @Accept json
// @Produce json
// @Param ids body validator.BatchPaymentRequest true "Student IDs"
// @Success 200 {object} SuccessResponse{data=object{count=int}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/students/batch-payment [patch]
func (h *AdminHandler) BatchMarkPaid(c *gin.Context) {
	adminID, _ := GetUserIDFromContext(c)

	var req validator.BatchPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	count, err := h.adminService.BatchMarkPaid(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleServiceError(c, err, errorMessages{Validation: "Please provide an array of student IDs"})
		return
	}
	h.respond(c, http.StatusOK, fmt.Sprintf("Payment status updated for %d students", count), gin.H{"count": count})
}

// SetCourse reassigns a student's course
// @Summary Set course
// @Description Reassigns a student's enrolled course
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param course body validator.CourseRequest true "Course"
// @Success 200 {object} SuccessResponse{data=object{student=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/students/{id}/course [patch]
func (h *AdminHandler) SetCourse(c *gin.Context) {
	adminID, _ := GetUserIDFromContext(c)

	var req validator.CourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.adminService.SetCourse(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, studentTargetErrors)
		return
	}
	h.respond(c, http.StatusOK, "Student course updated successfully", gin.H{"student": student})
}

// SetClearance grants or revokes admin clearance
// @Summary Set clearance
// @Description Grants or revokes admin clearance for a student
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param clearance body validator.ClearanceRequest true "Clearance flag"
// @Success 200 {object} SuccessResponse{data=object{student=models.User}}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/students/{id}/clearance [patch]
func (h *AdminHandler) SetClearance(c *gin.Context) {
	adminID, _ := GetUserIDFromContext(c)

	var req validator.ClearanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.adminService.SetClearance(c.Request.Context(), adminID, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err, studentTargetErrors)
		return
	}
	h.respond(c, http.StatusOK, "Student clearance updated successfully", gin.H{"student": student})
}

// ExportStudents downloads the roster as an xlsx workbook
// @Summary Export students
// @Description Downloads the student roster as an xlsx workbook
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/students/export [get]
func (h *AdminHandler) ExportStudents(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteRoster(c.Request.Context(), &buf); err != nil {
		h.handleServiceError(c, err, errorMessages{})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.RosterFilename(time.Now())))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
