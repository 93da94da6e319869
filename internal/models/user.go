package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Lifecycle labels shown on the student dashboard.
const (
	StatusPendingPayment  = "Pending Payment"
	StatusPaymentReceived = "Payment Received"
)

const (
	DefaultCourse  = "Aviation Fundamentals & Strategy"
	MinPasswordLen = 6
)

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:64" bson:"_id"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" bson:"email"`
	PasswordHash string   `json:"-" gorm:"column:password;not null" bson:"password"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:student;index" bson:"role"`

	// Profile info
	FirstName        string `json:"firstName" gorm:"size:100" bson:"firstName"`
	LastName         string `json:"lastName" gorm:"size:100" bson:"lastName"`
	Phone            string `json:"phone" gorm:"size:50" bson:"phone"`
	EmergencyContact string `json:"emergencyContact" gorm:"size:255" bson:"emergencyContact"`
	Bio              string `json:"bio" gorm:"size:500" bson:"bio"`

	// Documents
	DocumentURL       string `json:"documentUrl" gorm:"size:1000" bson:"documentUrl"`
	PaymentReceiptURL string `json:"paymentReceiptUrl" gorm:"size:1000" bson:"paymentReceiptUrl"`

	// Enrollment
	EnrolledCourse  string                      `json:"enrolledCourse" gorm:"size:255" bson:"enrolledCourse"`
	PaymentStatus   PaymentStatus               `json:"paymentStatus" gorm:"size:20;default:Pending;index" bson:"paymentStatus"`
	AmountDue       float64                     `json:"amountDue" gorm:"default:0" bson:"amountDue"`
	AmountPaid      float64                     `json:"amountPaid" gorm:"default:0" bson:"amountPaid"`
	EnrollmentDate  time.Time                   `json:"enrollmentDate" bson:"enrollmentDate"`
	PaymentMethods  datatypes.JSONSlice[string] `json:"paymentMethod" gorm:"column:payment_method" bson:"paymentMethod"`
	TrainingMethods datatypes.JSONSlice[string] `json:"trainingMethod" gorm:"column:training_method" bson:"trainingMethod"`
	Status          string                      `json:"status" gorm:"size:100" bson:"status"`
	AdminClearance  bool                        `json:"adminClearance" gorm:"default:false" bson:"adminClearance"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	// Revision is the document store's write counter for optimistic updates.
	Revision int64 `json:"-" gorm:"-" bson:"rev"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TogglePaymentStatus flips Pending <-> Paid. Marking paid moves the outstanding
// amount into AmountPaid; reverting to Pending moves it back.
func (u *User) TogglePaymentStatus() {
	if u.PaymentStatus == PaymentPaid {
		u.PaymentStatus = PaymentPending
		u.AmountDue = u.AmountPaid
		u.AmountPaid = 0
		u.Status = StatusPendingPayment
		return
	}
	u.MarkPaid()
}

// MarkPaid is a no-op for students that are already paid.
func (u *User) MarkPaid() {
	if u.PaymentStatus == PaymentPaid {
		return
	}
	u.PaymentStatus = PaymentPaid
	u.AmountPaid = u.AmountDue
	u.AmountDue = 0
	u.Status = StatusPaymentReceived
}

// RevenueContribution is what a paid student adds to total revenue. Older records
// can carry a zero AmountPaid, in which case the due amount is counted instead.
func (u *User) RevenueContribution() float64 {
	if u.PaymentStatus != PaymentPaid {
		return 0
	}
	if u.AmountPaid > 0 {
		return u.AmountPaid
	}
	if u.AmountDue > 0 {
		return u.AmountDue
	}
	return 0
}

func (u *User) PendingContribution() float64 {
	if u.PaymentStatus != PaymentPending {
		return 0
	}
	return u.AmountDue
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate carries the student-editable fields; nil means "leave unchanged".
type ProfileUpdate struct {
	Phone            *string
	Bio              *string
	EmergencyContact *string
}

func (p ProfileUpdate) Apply(u *User) {
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Bio != nil {
		u.Bio = strings.TrimSpace(*p.Bio)
	}
	if p.EmergencyContact != nil {
		u.EmergencyContact = strings.TrimSpace(*p.EmergencyContact)
	}
}

// FinancialStats are the admin dashboard revenue totals.
type FinancialStats struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	RevenuePending float64 `json:"revenuePending"`
}

// ComputeFinancialStats sums revenue over a student list.
func ComputeFinancialStats(students []*User) FinancialStats {
	var stats FinancialStats
	for _, s := range students {
		if !s.IsStudent() {
			continue
		}
		stats.TotalRevenue += s.RevenueContribution()
		stats.RevenuePending += s.PendingContribution()
	}
	return stats
}
