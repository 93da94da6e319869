package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

type PaymentPostgreSQL struct {
	db *gorm.DB
}

func NewPaymentPostgreSQL(db *gorm.DB) repositories.PaymentRepository {
	return &PaymentPostgreSQL{db: db}
}

func (p *PaymentPostgreSQL) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentRecordPending
	}
	if err := p.db.WithContext(ctx).Create(payment).Error; err != nil {
		return mapError("create payment", err)
	}
	return nil
}

func (p *PaymentPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0)
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, mapError("list payments", err)
	}
	return payments, nil
}

func (p *PaymentPostgreSQL) GetForUser(ctx context.Context, id, userID string) (*models.Payment, error) {
	var payment models.Payment
	err := p.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&payment).Error
	if err != nil {
		return nil, mapError("get payment", err)
	}
	return &payment, nil
}

func (p *PaymentPostgreSQL) UpdateStatusForUser(ctx context.Context, id, userID string, status models.PaymentRecordStatus) (*models.Payment, error) {
	result := p.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, mapError("update payment status", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return p.GetForUser(ctx, id, userID)
}
