package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type authService struct {
	store     repositories.DataStore
	tokens    *auth.TokenManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewAuthService(store repositories.DataStore, tokens *auth.TokenManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AuthService {
	return &authService{
		store:     store,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		validator: v,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *validator.RegisterRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	email := models.NormalizeEmail(req.Email)
	exists, err := s.store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, storeError("check email", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	course := strings.TrimSpace(req.EnrolledCourse)
	if course == "" && role == models.RoleStudent {
		course = models.DefaultCourse
	}

	now := s.now()
	user := &models.User{
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Phone:           strings.TrimSpace(req.Phone),
		EnrolledCourse:  course,
		PaymentStatus:   models.PaymentPending,
		AmountDue:       req.AmountDue,
		EnrollmentDate:  now,
		PaymentMethods:  nonNil(req.PaymentMethod),
		TrainingMethods: nonNil(req.TrainingMethod),
		Status:          models.StatusPendingPayment,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, storeError("create user", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)
	if user.IsStudent() {
		publish(ctx, s.publisher, s.logger, events.Event{
			Type:    events.StudentRegistered,
			ActorID: user.ID,
			Data:    events.NewStudentData(user),
		})
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("load user", err)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, storeError("load profile", err)
	}
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
		}
		return nil, storeError("load user", err)
	}
	return user, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
