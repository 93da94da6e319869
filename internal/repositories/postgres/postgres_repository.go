package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

// PostgreSQLRepository implements repositories.DataStore on gorm.
type PostgreSQLRepository struct {
	db *gorm.DB

	user    repositories.UserRepository
	payment repositories.PaymentRepository
}

func NewPostgreSQLRepository(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:      db,
		user:    NewUserPostgreSQL(db),
		payment: NewPaymentPostgreSQL(db),
	}
}

// Migrate creates or updates the users and payments tables.
func (r *PostgreSQLRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Payment{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (r *PostgreSQLRepository) Users() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Payments() repositories.PaymentRepository {
	return r.payment
}

func (r *PostgreSQLRepository) Mode() repositories.Mode {
	return repositories.ModeDatabase
}

// Ping checks the health of the database connection
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the connection pool
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
