package validator

import (
	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// RegisterRequest is the enrollment form
type RegisterRequest struct {
	Email          string          `json:"email" validate:"required,email,max=255"`
	Password       string          `json:"password" validate:"required,min=6,max=72"`
	Role           models.UserRole `json:"role" validate:"omitempty,user_role"`
	FirstName      string          `json:"firstName" validate:"max=100"`
	LastName       string          `json:"lastName" validate:"max=100"`
	EnrolledCourse string          `json:"enrolledCourse" validate:"max=255"`
	AmountDue      float64         `json:"amountDue" validate:"gte=0"`
	Phone          string          `json:"phone" validate:"max=50"`
	PaymentMethod  []string        `json:"paymentMethod" validate:"omitempty,max=10,dive,max=100"`
	TrainingMethod []string        `json:"trainingMethod" validate:"omitempty,max=10,dive,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest only changes the fields that are present.
type UpdateProfileRequest struct {
	Phone            *string `json:"phone" validate:"omitempty,max=50"`
	Bio              *string `json:"bio" validate:"omitempty,max=500"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=255"`
}

func (r UpdateProfileRequest) ProfileUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		Phone:            r.Phone,
		Bio:              r.Bio,
		EmergencyContact: r.EmergencyContact,
	}
}

type DocumentRequest struct {
	DocumentURL string `json:"documentUrl" validate:"notblank,max=1000"`
}

type ReceiptRequest struct {
	PaymentReceiptURL string `json:"paymentReceiptUrl" validate:"notblank,max=1000"`
}

type CourseRequest struct {
	EnrolledCourse string `json:"enrolledCourse" validate:"notblank,max=255"`
}

type BatchPaymentRequest struct {
	StudentIDs []string `json:"studentIds" validate:"required,min=1,max=500,dive,notblank"`
}

type ClearanceRequest struct {
	AdminClearance *bool `json:"adminClearance" validate:"required"`
}

type CreatePaymentRequest struct {
	Amount        float64 `json:"amount" validate:"gte=0"`
	Description   string  `json:"description" validate:"max=500"`
	PaymentMethod string  `json:"paymentMethod" validate:"max=100"`
}

type PaymentStatusRequest struct {
	Status models.PaymentRecordStatus `json:"status" validate:"required,payment_record_status"`
}
