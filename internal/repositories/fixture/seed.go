package fixture

import (
	"sync"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// SeedPassword is shared by every seeded account.
const SeedPassword = "password123"

const (
	SeedAdminID    = "mock-admin"
	SeedAdminEmail = "admin@alpha.com"
)

var seedHash = sync.OnceValues(func() (string, error) {
	return auth.HashPassword(SeedPassword)
})

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type seedStudent struct {
	id, email, first, last, course, phone string
	status                                models.PaymentStatus
	due, paid                             float64
	enrolled                              time.Time
}

var seedStudents = []seedStudent{
	{"mock1", "student1@alpha.com", "John", "Doe", "Aviation Fundamentals & Strategy", "+2341234567890", models.PaymentPending, 5000, 0, date(2024, time.January, 15)},
	{"mock2", "student2@alpha.com", "Jane", "Smith", "Elite Cabin Crew & Safety Operations", "+2341234567891", models.PaymentPending, 7500, 0, date(2024, time.January, 20)},
	{"mock3", "student3@alpha.com", "Michael", "Johnson", "Travel & Tourism Management", "+2341234567892", models.PaymentPaid, 0, 6000, date(2024, time.January, 10)},
	{"mock4", "student4@alpha.com", "Sarah", "Williams", "Airline Customer Service & Passenger Handling", "+2341234567893", models.PaymentPending, 5500, 0, date(2024, time.January, 25)},
	{"mock5", "student5@alpha.com", "David", "Brown", "Aviation Safety & Security Awareness", "+2341234567894", models.PaymentPaid, 0, 7000, date(2024, time.January, 5)},
}

// SeedUsers returns fresh copies of the demo roster: one admin and five students.
func SeedUsers() []*models.User {
	hash, err := seedHash()
	if err != nil {
		panic(err)
	}

	users := []*models.User{{
		ID:             SeedAdminID,
		Email:          SeedAdminEmail,
		PasswordHash:   hash,
		Role:           models.RoleAdmin,
		FirstName:      "Admin",
		LastName:       "User",
		PaymentStatus:  models.PaymentPaid,
		EnrollmentDate: date(2024, time.January, 1),
		CreatedAt:      date(2024, time.January, 1),
		UpdatedAt:      date(2024, time.January, 1),
	}}

	for _, s := range seedStudents {
		status := models.StatusPendingPayment
		if s.status == models.PaymentPaid {
			status = models.StatusPaymentReceived
		}
		users = append(users, &models.User{
			ID:              s.id,
			Email:           s.email,
			PasswordHash:    hash,
			Role:            models.RoleStudent,
			FirstName:       s.first,
			LastName:        s.last,
			Phone:           s.phone,
			EnrolledCourse:  s.course,
			PaymentStatus:   s.status,
			AmountDue:       s.due,
			AmountPaid:      s.paid,
			EnrollmentDate:  s.enrolled,
			PaymentMethods:  []string{},
			TrainingMethods: []string{},
			Status:          status,
			CreatedAt:       s.enrolled,
			UpdatedAt:       s.enrolled,
		})
	}
	return users
}
