package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type paymentService struct {
	store     repositories.DataStore
	gateway   CheckoutGateway
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

// NewPaymentService records payments without a hosted checkout when gateway is nil.
func NewPaymentService(store repositories.DataStore, gateway CheckoutGateway, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) PaymentService {
	return &paymentService{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *paymentService) Create(ctx context.Context, userID string, req *validator.CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	payment := &models.Payment{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Status:        models.PaymentRecordPending,
		Description:   strings.TrimSpace(req.Description),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}

	if s.gateway != nil && checkoutAmount(payment.Amount) > 0 {
		payer, err := s.store.Users().GetByID(ctx, userID)
		if err != nil {
			return nil, storeError("load payer", err)
		}
		checkout, err := s.gateway.CreateCheckout(ctx, payment, payer)
		if err != nil {
			s.logger.ErrorContext(ctx, "Checkout failed", "payment_id", payment.ID, "error", err)
			return nil, err
		}
		payment.CheckoutToken = checkout.Token
		payment.CheckoutRedirectURL = checkout.RedirectURL
	}

	if err := s.store.Payments().Create(ctx, payment); err != nil {
		return nil, storeError("create payment", err)
	}

	s.logger.InfoContext(ctx, "Payment recorded", "payment_id", payment.ID, "user_id", userID, "amount", payment.Amount)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.PaymentCreated,
		ActorID: userID,
		Data:    events.NewPaymentData(payment),
	})
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, userID string) ([]*models.Payment, error) {
	payments, err := s.store.Payments().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list payments", err)
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

func (s *paymentService) Get(ctx context.Context, userID, paymentID string) (*models.Payment, error) {
	payment, err := s.store.Payments().GetForUser(ctx, paymentID, userID)
	if err != nil {
		return nil, storeError("load payment", err)
	}
	return payment, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, userID, paymentID string, req *validator.PaymentStatusRequest) (*models.Payment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	payment, err := s.store.Payments().UpdateStatusForUser(ctx, paymentID, userID, req.Status)
	if err != nil {
		return nil, storeError("update payment status", err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.PaymentStatusChanged,
		ActorID: userID,
		Data:    events.NewPaymentData(payment),
	})
	return payment, nil
}
