package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type testEnv struct {
	store     repositories.DataStore
	tokens    *auth.TokenManager
	publisher *events.MockEventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		store:     fixture.New(),
		tokens:    auth.NewTokenManager("test-secret", time.Hour),
		publisher: events.NewMockEventPublisher(logger),
		logger:    logger,
		validator: validator.New(),
	}
}

func (e *testEnv) auth() AuthService {
	return NewAuthService(e.store, e.tokens, e.publisher, e.logger, e.validator)
}

func (e *testEnv) admin() AdminService {
	return NewAdminService(e.store, e.publisher, e.logger, e.validator)
}

func (e *testEnv) student() StudentService {
	return NewStudentService(e.store, e.publisher, e.logger, e.validator)
}

func (e *testEnv) payment(gateway CheckoutGateway) PaymentService {
	return NewPaymentService(e.store, gateway, e.publisher, e.logger, e.validator)
}

func ptr[T any](v T) *T { return &v }

// unavailableStore fails every user read the way a dropped live connection does.
type unavailableStore struct {
	repositories.DataStore
}

type unavailableUsers struct {
	repositories.UserRepository
}

func (unavailableStore) Users() repositories.UserRepository { return unavailableUsers{} }
func (unavailableStore) Mode() repositories.Mode            { return repositories.ModeDatabase }
func (unavailableStore) Ping(ctx context.Context) error     { return repositories.ErrUnavailable }

func (unavailableUsers) ListStudents(ctx context.Context) ([]*models.User, error) {
	return nil, repositories.ErrUnavailable
}

func (unavailableUsers) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	return models.FinancialStats{}, repositories.ErrUnavailable
}

func (unavailableUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, repositories.ErrUnavailable
}
