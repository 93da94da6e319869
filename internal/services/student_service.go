package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type studentService struct {
	store     repositories.DataStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(store repositories.DataStore, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) StudentService {
	return &studentService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// requireStudent loads the caller and rejects non-students.
func (s *studentService) requireStudent(ctx context.Context, id string) error {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return storeError("load student", err)
	}
	if !user.IsStudent() {
		return ErrForbidden
	}
	return nil
}

func (s *studentService) UpdateProfile(ctx context.Context, studentID string, req *validator.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	user, err := s.store.Users().UpdateProfile(ctx, studentID, req.ProfileUpdate())
	if err != nil {
		return nil, storeError("update profile", err)
	}

	s.logger.InfoContext(ctx, "Profile updated", "student_id", studentID)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentProfileUpdated,
		ActorID: studentID,
		Data:    events.NewStudentData(user),
	})
	return user, nil
}

func (s *studentService) UploadDocument(ctx context.Context, studentID string, req *validator.DocumentRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.store.Users().SetDocumentURL(ctx, studentID, strings.TrimSpace(req.DocumentURL))
	if err != nil {
		return nil, storeError("save document", err)
	}

	s.documentUploaded(ctx, user, "document")
	return user, nil
}

func (s *studentService) UploadPaymentReceipt(ctx context.Context, studentID string, req *validator.ReceiptRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.store.Users().SetPaymentReceiptURL(ctx, studentID, strings.TrimSpace(req.PaymentReceiptURL))
	if err != nil {
		return nil, storeError("save payment receipt", err)
	}

	s.documentUploaded(ctx, user, "payment_receipt")
	return user, nil
}

type documentData struct {
	events.StudentData
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

func (s *studentService) documentUploaded(ctx context.Context, user *models.User, kind string) {
	url := user.DocumentURL
	if kind == "payment_receipt" {
		url = user.PaymentReceiptURL
	}

	s.logger.InfoContext(ctx, "Document uploaded", "student_id", user.ID, "kind", kind)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentDocumentUploaded,
		ActorID: user.ID,
		Data:    documentData{StudentData: events.NewStudentData(user), Kind: kind, URL: url},
	})
}
