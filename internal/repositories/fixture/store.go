package fixture

import (
	"context"
	"sync"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

type tables struct {
	mutex    sync.RWMutex
	users    map[string]*models.User
	payments map[string]*models.Payment
}

// Store is the in-memory DataStore used when no live store is reachable.
type Store struct {
	db       *tables
	users    *userRepository
	payments *paymentRepository
}

// New returns a Store holding the seeded roster.
func New() *Store {
	s := NewEmpty()
	for _, u := range SeedUsers() {
		s.db.users[u.ID] = u
	}
	return s
}

// NewEmpty returns a Store with no records.
func NewEmpty() *Store {
	db := &tables{
		users:    make(map[string]*models.User),
		payments: make(map[string]*models.Payment),
	}
	return &Store{
		db:       db,
		users:    &userRepository{db: db},
		payments: &paymentRepository{db: db},
	}
}

func (s *Store) Users() repositories.UserRepository {
	return s.users
}

func (s *Store) Payments() repositories.PaymentRepository {
	return s.payments
}

func (s *Store) Mode() repositories.Mode {
	return repositories.ModeMock
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
