package repositories

import (
	"context"

	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// UserRepository covers both roles. Student-only operations skip or reject admins
// as documented per method.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ListStudents returns students newest first.
	ListStudents(ctx context.Context) ([]*models.User, error)
	CountStudents(ctx context.Context) (int64, error)

	// Update saves every field of the user.
	Update(ctx context.Context, user *models.User) error

	// TogglePaymentStatus flips Pending <-> Paid on a student.
	TogglePaymentStatus(ctx context.Context, id string) (*models.User, error)
	// BatchMarkPaid marks the students among ids as paid and returns how many matched.
	// Unknown ids and non-students are skipped.
	BatchMarkPaid(ctx context.Context, ids []string) (int, error)
	SetCourse(ctx context.Context, id, course string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	SetDocumentURL(ctx context.Context, id, url string) (*models.User, error)
	SetPaymentReceiptURL(ctx context.Context, id, url string) (*models.User, error)
	SetAdminClearance(ctx context.Context, id string, cleared bool) (*models.User, error)

	FinancialStats(ctx context.Context) (models.FinancialStats, error)
}

// PaymentRepository scopes reads and writes to the owning user.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	// ListByUser returns payments newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Payment, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Payment, error)
	UpdateStatusForUser(ctx context.Context, id, userID string, status models.PaymentRecordStatus) (*models.Payment, error)
}
