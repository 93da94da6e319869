package fixture

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

type paymentRepository struct {
	db *tables
}

func (repo *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	} else if _, ok := repo.db.payments[payment.ID]; ok {
		return repositories.ErrDuplicate
	}
	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	if payment.Status == "" {
		payment.Status = models.PaymentRecordPending
	}
	p := *payment
	repo.db.payments[p.ID] = &p
	return nil
}

func (repo *paymentRepository) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]*models.Payment, 0)
	for _, p := range repo.db.payments {
		if p.UserID == userID {
			c := *p
			payments = append(payments, &c)
		}
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

func (repo *paymentRepository) GetForUser(ctx context.Context, id, userID string) (*models.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	p, ok := repo.db.payments[id]
	if !ok || p.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (repo *paymentRepository) UpdateStatusForUser(ctx context.Context, id, userID string, status models.PaymentRecordStatus) (*models.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.payments[id]
	if !ok || p.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	c := *p
	return &c, nil
}
