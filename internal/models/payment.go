package models

import (
	"time"
)

type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "Pending"
	PaymentRecordCompleted PaymentRecordStatus = "Completed"
	PaymentRecordFailed    PaymentRecordStatus = "Failed"
	PaymentRecordRefunded  PaymentRecordStatus = "Refunded"
)

func (s PaymentRecordStatus) IsValid() bool {
	switch s {
	case PaymentRecordPending, PaymentRecordCompleted, PaymentRecordFailed, PaymentRecordRefunded:
		return true
	}
	return false
}

// Payment is a student-initiated ledger entry. It is not reconciled with
// User.PaymentStatus.
type Payment struct {
	ID            string              `json:"id" gorm:"primaryKey;size:64" bson:"_id"`
	UserID        string              `json:"user" gorm:"not null;size:64;index:idx_payments_user_created,priority:1" bson:"user"`
	Amount        float64             `json:"amount" gorm:"not null" bson:"amount"`
	Status        PaymentRecordStatus `json:"status" gorm:"not null;size:20;default:Pending" bson:"status"`
	Description   string              `json:"description" gorm:"size:500" bson:"description"`
	PaymentMethod string              `json:"paymentMethod" gorm:"size:100" bson:"paymentMethod"`

	// Checkout gateway
	CheckoutToken       string `json:"checkoutToken,omitempty" gorm:"size:255" bson:"checkoutToken,omitempty"`
	CheckoutRedirectURL string `json:"checkoutRedirectUrl,omitempty" gorm:"size:1000" bson:"checkoutRedirectUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_payments_user_created,priority:2,sort:desc" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}
