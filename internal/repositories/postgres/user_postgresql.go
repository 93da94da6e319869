package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) students(ctx context.Context) *gorm.DB {
	return u.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleStudent)
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, mapError("get user", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, mapError("check email", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) ListStudents(ctx context.Context) ([]*models.User, error) {
	var students []*models.User
	if err := u.students(ctx).Order("created_at DESC, id ASC").Find(&students).Error; err != nil {
		return nil, mapError("list students", err)
	}
	return students, nil
}

func (u *UserPostgreSQL) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	if err := u.students(ctx).Count(&count).Error; err != nil {
		return 0, mapError("count students", err)
	}
	return count, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	result := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Select("*").Omit("created_at").Updates(user)
	if result.Error != nil {
		return mapError("update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// mutate locks the row, applies fn and saves it in one transaction.
func (u *UserPostgreSQL) mutate(ctx context.Context, op, id string, fn func(*models.User)) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		fn(&user)
		user.UpdatedAt = time.Now()
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, mapError(op, err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) TogglePaymentStatus(ctx context.Context, id string) (*models.User, error) {
	return u.mutate(ctx, "toggle payment status", id, func(user *models.User) { user.TogglePaymentStatus() })
}

// BatchMarkPaid updates every matched student in a single transaction.
func (u *UserPostgreSQL) BatchMarkPaid(ctx context.Context, ids []string) (int, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	count := 0
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var students []*models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND role = ?", ids, models.RoleStudent).
			Find(&students).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, s := range students {
			s.MarkPaid()
			s.UpdatedAt = now
			if err := tx.Save(s).Error; err != nil {
				return err
			}
		}
		count = len(students)
		return nil
	})
	if err != nil {
		return 0, mapError("batch mark paid", err)
	}
	return count, nil
}

func (u *UserPostgreSQL) SetCourse(ctx context.Context, id, course string) (*models.User, error) {
	return u.mutate(ctx, "set course", id, func(user *models.User) { user.EnrolledCourse = course })
}

func (u *UserPostgreSQL) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	return u.mutate(ctx, "update profile", id, update.Apply)
}

func (u *UserPostgreSQL) SetDocumentURL(ctx context.Context, id, url string) (*models.User, error) {
	return u.mutate(ctx, "set document url", id, func(user *models.User) { user.DocumentURL = url })
}

func (u *UserPostgreSQL) SetPaymentReceiptURL(ctx context.Context, id, url string) (*models.User, error) {
	return u.mutate(ctx, "set payment receipt url", id, func(user *models.User) { user.PaymentReceiptURL = url })
}

func (u *UserPostgreSQL) SetAdminClearance(ctx context.Context, id string, cleared bool) (*models.User, error) {
	return u.mutate(ctx, "set admin clearance", id, func(user *models.User) { user.AdminClearance = cleared })
}

// FinancialStats aggregates in SQL with the same rules as models.ComputeFinancialStats.
func (u *UserPostgreSQL) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	var row struct {
		TotalRevenue   float64
		RevenuePending float64
	}
	err := u.students(ctx).Select(`
		COALESCE(SUM(CASE WHEN payment_status = ? THEN
			CASE WHEN amount_paid > 0 THEN amount_paid WHEN amount_due > 0 THEN amount_due ELSE 0 END
		ELSE 0 END), 0) AS total_revenue,
		COALESCE(SUM(CASE WHEN payment_status = ? THEN amount_due ELSE 0 END), 0) AS revenue_pending`,
		models.PaymentPaid, models.PaymentPending,
	).Scan(&row).Error
	if err != nil {
		return models.FinancialStats{}, mapError("compute financial stats", err)
	}
	return models.FinancialStats{TotalRevenue: row.TotalRevenue, RevenuePending: row.RevenuePending}, nil
}
