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

type adminService struct {
	store     repositories.DataStore
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAdminService(store repositories.DataStore, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AdminService {
	return &adminService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *adminService) ListStudents(ctx context.Context) (*StudentList, error) {
	students, err := s.store.Users().ListStudents(ctx)
	if err != nil {
		return nil, storeError("list students", err)
	}
	if students == nil {
		students = []*models.User{}
	}
	return &StudentList{Count: len(students), Students: students}, nil
}

func (s *adminService) CountStudents(ctx context.Context) (int64, error) {
	n, err := s.store.Users().CountStudents(ctx)
	if err != nil {
		return 0, storeError("count students", err)
	}
	return n, nil
}

func (s *adminService) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	stats, err := s.store.Users().FinancialStats(ctx)
	if err != nil {
		return models.FinancialStats{}, storeError("compute financial stats", err)
	}
	return stats, nil
}

// loadStudent returns ErrNotFound for unknown ids and ErrNotStudent for admins.
func (s *adminService) loadStudent(ctx context.Context, id string) error {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return storeError("load student", err)
	}
	if !user.IsStudent() {
		return ErrNotStudent
	}
	return nil
}

func (s *adminService) TogglePaymentStatus(ctx context.Context, adminID, studentID string) (*models.User, error) {
	if err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}

	user, err := s.store.Users().TogglePaymentStatus(ctx, studentID)
	if err != nil {
		return nil, storeError("toggle payment status", err)
	}

	s.logger.InfoContext(ctx, "Payment status toggled",
		"admin_id", adminID,
		"student_id", studentID,
		"payment_status", user.PaymentStatus)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentPaymentStatusChanged,
		ActorID: adminID,
		Data:    events.NewStudentData(user),
	})
	return user, nil
}

func (s *adminService) BatchMarkPaid(ctx context.Context, adminID string, req *validator.BatchPaymentRequest) (int, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, validationError(err)
	}

	count, err := s.store.Users().BatchMarkPaid(ctx, req.StudentIDs)
	if err != nil {
		return 0, storeError("batch mark paid", err)
	}

	s.logger.InfoContext(ctx, "Batch payment update",
		"admin_id", adminID,
		"requested", len(req.StudentIDs),
		"matched", count)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentPaymentStatusChanged,
		ActorID: adminID,
		Data:    events.BatchPaidData{StudentIDs: req.StudentIDs, Count: count},
	})
	return count, nil
}

func (s *adminService) SetCourse(ctx context.Context, adminID, studentID string, req *validator.CourseRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}

	user, err := s.store.Users().SetCourse(ctx, studentID, strings.TrimSpace(req.EnrolledCourse))
	if err != nil {
		return nil, storeError("update course", err)
	}

	s.logger.InfoContext(ctx, "Student course updated", "admin_id", adminID, "student_id", studentID)
	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentCourseChanged,
		ActorID: adminID,
		Data:    events.NewStudentData(user),
	})
	return user, nil
}

func (s *adminService) SetClearance(ctx context.Context, adminID, studentID string, req *validator.ClearanceRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.loadStudent(ctx, studentID); err != nil {
		return nil, err
	}

	user, err := s.store.Users().SetAdminClearance(ctx, studentID, *req.AdminClearance)
	if err != nil {
		return nil, storeError("update clearance", err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:    events.StudentClearanceChanged,
		ActorID: adminID,
		Data:    events.NewStudentData(user),
	})
	return user, nil
}
