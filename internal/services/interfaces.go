package services

import (
	"context"
	"io"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

// ===== RESPONSE DTOs =====

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type StudentList struct {
	Count    int            `json:"count"`
	Students []*models.User `json:"students"`
}

type HealthStatus struct {
	DBConnected    bool              `json:"dbConnected"`
	Mode           repositories.Mode `json:"mode"`
	CacheConnected bool              `json:"cacheConnected"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)

	// Authenticate verifies a bearer token and loads its user from the store.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type StudentService interface {
	UpdateProfile(ctx context.Context, studentID string, req *validator.UpdateProfileRequest) (*models.User, error)
	UploadDocument(ctx context.Context, studentID string, req *validator.DocumentRequest) (*models.User, error)
	UploadPaymentReceipt(ctx context.Context, studentID string, req *validator.ReceiptRequest) (*models.User, error)
}

type AdminService interface {
	ListStudents(ctx context.Context) (*StudentList, error)
	CountStudents(ctx context.Context) (int64, error)
	FinancialStats(ctx context.Context) (models.FinancialStats, error)

	TogglePaymentStatus(ctx context.Context, adminID, studentID string) (*models.User, error)
	BatchMarkPaid(ctx context.Context, adminID string, req *validator.BatchPaymentRequest) (int, error)
	SetCourse(ctx context.Context, adminID, studentID string, req *validator.CourseRequest) (*models.User, error)
	SetClearance(ctx context.Context, adminID, studentID string, req *validator.ClearanceRequest) (*models.User, error)
}

type PaymentService interface {
	Create(ctx context.Context, userID string, req *validator.CreatePaymentRequest) (*models.Payment, error)
	List(ctx context.Context, userID string) ([]*models.Payment, error)
	Get(ctx context.Context, userID, paymentID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, userID, paymentID string, req *validator.PaymentStatusRequest) (*models.Payment, error)
}

type ExportService interface {
	// WriteRoster writes an xlsx workbook with the roster and revenue totals.
	WriteRoster(ctx context.Context, w io.Writer) error
}

type HealthService interface {
	Check(ctx context.Context) HealthStatus
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Student() StudentService
	Admin() AdminService
	Payment() PaymentService
	Export() ExportService
	Health() HealthService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
