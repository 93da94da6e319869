package events

import (
	"context"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/models"
)

type EventType string

const (
	StudentRegistered           EventType = "student.registered"
	StudentPaymentStatusChanged EventType = "student.payment_status_changed"
	StudentCourseChanged        EventType = "student.course_changed"
	StudentProfileUpdated       EventType = "student.profile_updated"
	StudentDocumentUploaded     EventType = "student.document_uploaded"
	StudentClearanceChanged     EventType = "student.clearance_changed"
	PaymentCreated              EventType = "payment.created"
	PaymentStatusChanged        EventType = "payment.status_changed"
)

// Event is the envelope written to the bus as JSON.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	// ActorID is the authenticated user that caused the change.
	ActorID string `json:"actorId,omitempty"`
	Data    any    `json:"data"`
}

// EventPublisher delivers domain events. Callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type StudentData struct {
	StudentID      string               `json:"studentId"`
	Email          string               `json:"email"`
	EnrolledCourse string               `json:"enrolledCourse"`
	PaymentStatus  models.PaymentStatus `json:"paymentStatus"`
	AmountDue      float64              `json:"amountDue"`
	AmountPaid     float64              `json:"amountPaid"`
	AdminClearance bool                 `json:"adminClearance"`
}

func NewStudentData(u *models.User) StudentData {
	return StudentData{
		StudentID:      u.ID,
		Email:          u.Email,
		EnrolledCourse: u.EnrolledCourse,
		PaymentStatus:  u.PaymentStatus,
		AmountDue:      u.AmountDue,
		AmountPaid:     u.AmountPaid,
		AdminClearance: u.AdminClearance,
	}
}

type PaymentData struct {
	PaymentID string                     `json:"paymentId"`
	UserID    string                     `json:"userId"`
	Amount    float64                    `json:"amount"`
	Status    models.PaymentRecordStatus `json:"status"`
}

func NewPaymentData(p *models.Payment) PaymentData {
	return PaymentData{
		PaymentID: p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Status:    p.Status,
	}
}

// BatchPaidData is published once per batch rather than per student.
type BatchPaidData struct {
	StudentIDs []string `json:"studentIds"`
	Count      int      `json:"count"`
}
