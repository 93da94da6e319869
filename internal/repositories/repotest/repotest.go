// Package repotest holds the behaviour every repositories.DataStore must share.
// Each store runs the same suite from its own package tests.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

// Factory returns an empty store. Cleanup is registered on t by the factory.
type Factory func(t *testing.T) repositories.DataStore

var base = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func newStudent(email string, due float64, created time.Time) *models.User {
	return &models.User{
		Email:          email,
		PasswordHash:   "hash:" + email,
		Role:           models.RoleStudent,
		FirstName:      "Test",
		LastName:       "Student",
		EnrolledCourse: models.DefaultCourse,
		PaymentStatus:  models.PaymentPending,
		AmountDue:      due,
		Status:         models.StatusPendingPayment,
		EnrollmentDate: created,
		PaymentMethods: []string{"Bank Transfer"},
		CreatedAt:      created,
	}
}

func mustCreate(t *testing.T, repo repositories.UserRepository, u *models.User) *models.User {
	t.Helper()
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create(%s): %v", u.Email, err)
	}
	if u.ID == "" {
		t.Fatalf("Create(%s) did not assign an id", u.Email)
	}
	return u
}

// Run executes the whole contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UserLookup", func(t *testing.T) { testUserLookup(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("ListStudents", func(t *testing.T) { testListStudents(t, newStore(t)) })
	t.Run("ToggleTwice", func(t *testing.T) { testToggleTwice(t, newStore(t)) })
	t.Run("BatchMarkPaid", func(t *testing.T) { testBatchMarkPaid(t, newStore(t)) })
	t.Run("FieldSetters", func(t *testing.T) { testFieldSetters(t, newStore(t)) })
	t.Run("UnknownIDs", func(t *testing.T) { testUnknownIDs(t, newStore(t)) })
	t.Run("FullUpdate", func(t *testing.T) { testFullUpdate(t, newStore(t)) })
	t.Run("FinancialStats", func(t *testing.T) { testFinancialStats(t, newStore(t)) })
	t.Run("Payments", func(t *testing.T) { testPayments(t, newStore(t)) })
}

func testUserLookup(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	u := mustCreate(t, users, newStudent("  Pilot@Alpha.com ", 5000, base))

	if u.Email != "pilot@alpha.com" {
		t.Errorf("expected normalised email, got %q", u.Email)
	}

	got, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "pilot@alpha.com" || got.AmountDue != 5000 || got.Role != models.RoleStudent {
		t.Errorf("unexpected user %+v", got)
	}
	if got.PasswordHash != "hash:  Pilot@Alpha.com " {
		t.Errorf("password hash not persisted: %q", got.PasswordHash)
	}
	if len(got.PaymentMethods) != 1 || got.PaymentMethods[0] != "Bank Transfer" {
		t.Errorf("payment methods not persisted: %v", got.PaymentMethods)
	}

	byEmail, err := users.GetByEmail(ctx, "PILOT@alpha.COM")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("expected %s, got %s", u.ID, byEmail.ID)
	}

	exists, err := users.ExistsByEmail(ctx, "pilot@ALPHA.com")
	if err != nil || !exists {
		t.Errorf("ExistsByEmail = %v, %v; want true", exists, err)
	}
	exists, err = users.ExistsByEmail(ctx, "nobody@alpha.com")
	if err != nil || exists {
		t.Errorf("ExistsByEmail = %v, %v; want false", exists, err)
	}
}

func testDuplicateEmail(t *testing.T, store repositories.DataStore) {
	users := store.Users()
	mustCreate(t, users, newStudent("dup@alpha.com", 0, base))

	err := users.Create(context.Background(), newStudent("DUP@alpha.com", 0, base))
	if !errors.Is(err, repositories.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func testListStudents(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()

	oldest := mustCreate(t, users, newStudent("a@alpha.com", 1, base))
	newest := mustCreate(t, users, newStudent("b@alpha.com", 2, base.Add(48*time.Hour)))
	middle := mustCreate(t, users, newStudent("c@alpha.com", 3, base.Add(24*time.Hour)))
	admin := newStudent("admin@alpha.com", 0, base.Add(72*time.Hour))
	admin.Role = models.RoleAdmin
	mustCreate(t, users, admin)

	students, err := users.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	want := []string{newest.ID, middle.ID, oldest.ID}
	if len(students) != len(want) {
		t.Fatalf("expected %d students, got %d", len(want), len(students))
	}
	for i, id := range want {
		if students[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, students[i].ID)
		}
	}

	count, err := users.CountStudents(ctx)
	if err != nil || count != 3 {
		t.Errorf("CountStudents = %d, %v; want 3", count, err)
	}
}

func testToggleTwice(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	u := mustCreate(t, users, newStudent("toggle@alpha.com", 5000, base))

	first, err := users.TogglePaymentStatus(ctx, u.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if first.PaymentStatus != models.PaymentPaid || first.AmountDue != 0 || first.AmountPaid != 5000 {
		t.Errorf("after first toggle: status=%s due=%v paid=%v", first.PaymentStatus, first.AmountDue, first.AmountPaid)
	}
	if first.Status != models.StatusPaymentReceived {
		t.Errorf("expected status %q, got %q", models.StatusPaymentReceived, first.Status)
	}

	second, err := users.TogglePaymentStatus(ctx, u.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.PaymentStatus != models.PaymentPending || second.AmountDue != 5000 || second.AmountPaid != 0 {
		t.Errorf("after second toggle: status=%s due=%v paid=%v", second.PaymentStatus, second.AmountDue, second.AmountPaid)
	}

	stored, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PaymentStatus != models.PaymentPending || stored.AmountDue != 5000 {
		t.Errorf("stored state not restored: %+v", stored)
	}
}

func testBatchMarkPaid(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	a := mustCreate(t, users, newStudent("a@alpha.com", 1000, base))
	b := mustCreate(t, users, newStudent("b@alpha.com", 2000, base))
	untouched := mustCreate(t, users, newStudent("c@alpha.com", 3000, base))
	admin := newStudent("admin@alpha.com", 0, base)
	admin.Role = models.RoleAdmin
	mustCreate(t, users, admin)

	n, err := users.BatchMarkPaid(ctx, []string{a.ID, "does-not-exist", b.ID, admin.ID})
	if err != nil {
		t.Fatalf("BatchMarkPaid: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 students marked, got %d", n)
	}

	for _, tc := range []struct {
		id   string
		paid float64
	}{{a.ID, 1000}, {b.ID, 2000}} {
		got, err := users.GetByID(ctx, tc.id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.PaymentStatus != models.PaymentPaid || got.AmountDue != 0 || got.AmountPaid != tc.paid {
			t.Errorf("student %s not marked paid: %+v", tc.id, got)
		}
	}

	got, err := users.GetByID(ctx, untouched.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PaymentStatus != models.PaymentPending {
		t.Errorf("student outside the batch was modified: %+v", got)
	}

	// Already-paid students still count as matched but keep their amounts.
	n, err = users.BatchMarkPaid(ctx, []string{a.ID})
	if err != nil || n != 1 {
		t.Errorf("second batch = %d, %v; want 1", n, err)
	}
	got, _ = users.GetByID(ctx, a.ID)
	if got.AmountPaid != 1000 {
		t.Errorf("re-marking wiped the paid amount: %+v", got)
	}
}

func testFieldSetters(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	u := newStudent("fields@alpha.com", 0, base)
	u.Phone = "+234"
	u.Bio = "original bio"
	mustCreate(t, users, u)

	bio := "  flying since 2010 "
	contact := "Mum +234"
	got, err := users.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Bio: &bio, EmergencyContact: &contact})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Phone != "+234" || got.Bio != "flying since 2010" || got.EmergencyContact != contact {
		t.Errorf("unexpected profile %+v", got)
	}

	if got, err = users.SetCourse(ctx, u.ID, "Travel & Tourism Management"); err != nil || got.EnrolledCourse != "Travel & Tourism Management" {
		t.Errorf("SetCourse = %+v, %v", got, err)
	}
	if got, err = users.SetDocumentURL(ctx, u.ID, "https://files/doc.pdf"); err != nil || got.DocumentURL != "https://files/doc.pdf" {
		t.Errorf("SetDocumentURL = %+v, %v", got, err)
	}
	if got, err = users.SetPaymentReceiptURL(ctx, u.ID, "https://files/receipt.png"); err != nil || got.PaymentReceiptURL != "https://files/receipt.png" {
		t.Errorf("SetPaymentReceiptURL = %+v, %v", got, err)
	}
	if got, err = users.SetAdminClearance(ctx, u.ID, true); err != nil || !got.AdminClearance {
		t.Errorf("SetAdminClearance = %+v, %v", got, err)
	}

	stored, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.EnrolledCourse != "Travel & Tourism Management" || !stored.AdminClearance ||
		stored.DocumentURL == "" || stored.PaymentReceiptURL == "" || stored.Bio != "flying since 2010" {
		t.Errorf("setters were not persisted: %+v", stored)
	}
}

func testUnknownIDs(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	course := "x"

	calls := map[string]func() error{
		"GetByID":             func() error { _, err := users.GetByID(ctx, "missing"); return err },
		"GetByEmail":          func() error { _, err := users.GetByEmail(ctx, "missing@alpha.com"); return err },
		"TogglePaymentStatus": func() error { _, err := users.TogglePaymentStatus(ctx, "missing"); return err },
		"SetCourse":           func() error { _, err := users.SetCourse(ctx, "missing", course); return err },
		"UpdateProfile":       func() error { _, err := users.UpdateProfile(ctx, "missing", models.ProfileUpdate{Bio: &course}); return err },
		"SetDocumentURL":      func() error { _, err := users.SetDocumentURL(ctx, "missing", course); return err },
		"SetAdminClearance":   func() error { _, err := users.SetAdminClearance(ctx, "missing", true); return err },
		"Update":              func() error { return users.Update(ctx, &models.User{ID: "missing", Email: "m@alpha.com"}) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, repositories.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func testFullUpdate(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()
	u := mustCreate(t, users, newStudent("full@alpha.com", 100, base))

	u.FirstName = "Renamed"
	u.TrainingMethods = []string{"Online", "Physical"}
	if err := users.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FirstName != "Renamed" || len(got.TrainingMethods) != 2 {
		t.Errorf("update not persisted: %+v", got)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("password hash changed: %q", got.PasswordHash)
	}
}

func testFinancialStats(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	users := store.Users()

	mustCreate(t, users, newStudent("p1@alpha.com", 7500, base))
	mustCreate(t, users, newStudent("p2@alpha.com", 5500, base))
	paid := newStudent("paid@alpha.com", 0, base)
	paid.PaymentStatus = models.PaymentPaid
	paid.AmountPaid = 6000
	mustCreate(t, users, paid)
	// Paid with no recorded amountPaid counts its amountDue.
	legacy := newStudent("legacy@alpha.com", 1200, base)
	legacy.PaymentStatus = models.PaymentPaid
	mustCreate(t, users, legacy)
	admin := newStudent("admin@alpha.com", 99999, base)
	admin.Role = models.RoleAdmin
	mustCreate(t, users, admin)

	before, err := users.FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if before.TotalRevenue != 7200 || before.RevenuePending != 13000 {
		t.Fatalf("unexpected stats %+v", before)
	}

	a := mustCreate(t, users, newStudent("scenario@alpha.com", 5000, base))
	mid, err := users.FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if _, err := users.TogglePaymentStatus(ctx, a.ID); err != nil {
		t.Fatalf("TogglePaymentStatus: %v", err)
	}
	after, err := users.FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if after.TotalRevenue-mid.TotalRevenue != 5000 {
		t.Errorf("revenue should grow by 5000: %+v -> %+v", mid, after)
	}
	if mid.RevenuePending-after.RevenuePending != 5000 {
		t.Errorf("pending should shrink by 5000: %+v -> %+v", mid, after)
	}
}

func testPayments(t *testing.T, store repositories.DataStore) {
	ctx := context.Background()
	payments := store.Payments()

	older := &models.Payment{UserID: "owner", Amount: 100, Description: "deposit", PaymentMethod: "Card", CreatedAt: base}
	newer := &models.Payment{UserID: "owner", Amount: 200, Description: "balance", PaymentMethod: "Card", CreatedAt: base.Add(time.Hour)}
	foreign := &models.Payment{UserID: "someone-else", Amount: 300, CreatedAt: base}
	for _, p := range []*models.Payment{older, newer, foreign} {
		if err := payments.Create(ctx, p); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if p.ID == "" || p.Status != models.PaymentRecordPending {
			t.Fatalf("Create did not set defaults: %+v", p)
		}
	}

	list, err := payments.ListByUser(ctx, "owner")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := payments.GetForUser(ctx, foreign.ID, "owner"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a foreign payment, got %v", err)
	}
	got, err := payments.GetForUser(ctx, older.ID, "owner")
	if err != nil || got.Amount != 100 {
		t.Errorf("GetForUser = %+v, %v", got, err)
	}

	updated, err := payments.UpdateStatusForUser(ctx, older.ID, "owner", models.PaymentRecordCompleted)
	if err != nil {
		t.Fatalf("UpdateStatusForUser: %v", err)
	}
	if updated.Status != models.PaymentRecordCompleted {
		t.Errorf("expected Completed, got %s", updated.Status)
	}
	if _, err := payments.UpdateStatusForUser(ctx, foreign.ID, "owner", models.PaymentRecordRefunded); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a foreign payment, got %v", err)
	}
}
