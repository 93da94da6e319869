package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

func TestToggleTwiceRestores(t *testing.T) {
	env := newTestEnv(t)
	svc := env.admin()
	ctx := context.Background()

	paid, err := svc.TogglePaymentStatus(ctx, fixture.SeedAdminID, "mock1")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if paid.PaymentStatus != models.PaymentPaid || paid.AmountPaid != 5000 || paid.AmountDue != 0 {
		t.Errorf("after first toggle: %+v", paid)
	}
	if paid.Status != models.StatusPaymentReceived {
		t.Errorf("status = %q", paid.Status)
	}

	pending, err := svc.TogglePaymentStatus(ctx, fixture.SeedAdminID, "mock1")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if pending.PaymentStatus != models.PaymentPending || pending.AmountDue != 5000 || pending.AmountPaid != 0 {
		t.Errorf("after second toggle: %+v", pending)
	}

	got := env.publisher.GetPublishedEvents()
	if len(got) != 2 || got[0].Type != events.StudentPaymentStatusChanged || got[0].ActorID != fixture.SeedAdminID {
		t.Errorf("unexpected events: %+v", got)
	}
}

func TestToggleRejects(t *testing.T) {
	env := newTestEnv(t)
	svc := env.admin()

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"unknown id", "nobody", ErrNotFound},
		{"admin target", fixture.SeedAdminID, ErrNotStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.TogglePaymentStatus(context.Background(), fixture.SeedAdminID, tt.id); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBatchMarkPaid(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want int
		err  error
	}{
		{"pending students", []string{"mock1", "mock2"}, 2, nil},
		{"skips unknown and admins", []string{"mock1", "ghost", fixture.SeedAdminID}, 1, nil},
		{"counts already paid", []string{"mock3", "mock4"}, 2, nil},
		{"empty list", []string{}, 0, ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			n, err := env.admin().BatchMarkPaid(context.Background(), fixture.SeedAdminID, &validator.BatchPaymentRequest{StudentIDs: tt.ids})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BatchMarkPaid: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestRevenueFollowsMarkPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.admin()

	before, err := admin.FinancialStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if before.TotalRevenue != 13000 || before.RevenuePending != 18000 {
		t.Fatalf("seeded stats = %+v", before)
	}

	res, err := env.auth().Register(ctx, &validator.RegisterRequest{
		Email:     "cadet@alpha.com",
		Password:  "secret1",
		AmountDue: 5000,
	})
	if err != nil {
		t.Fatal(err)
	}

	registered, err := admin.FinancialStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if registered.RevenuePending != before.RevenuePending+5000 {
		t.Errorf("pending after register = %v", registered.RevenuePending)
	}

	if _, err := admin.TogglePaymentStatus(ctx, fixture.SeedAdminID, res.User.ID); err != nil {
		t.Fatal(err)
	}

	after, err := admin.FinancialStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after.TotalRevenue != registered.TotalRevenue+5000 || after.RevenuePending != registered.RevenuePending-5000 {
		t.Errorf("stats after mark paid = %+v (was %+v)", after, registered)
	}
}

func TestListAndCountStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	list, err := env.admin().ListStudents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if list.Count != 5 || len(list.Students) != 5 {
		t.Errorf("count = %d, len = %d", list.Count, len(list.Students))
	}
	for _, s := range list.Students {
		if !s.IsStudent() {
			t.Errorf("non-student %s in roster", s.ID)
		}
	}

	n, err := env.admin().CountStudents(ctx)
	if err != nil || n != 5 {
		t.Errorf("CountStudents = %d, %v", n, err)
	}
}

func TestSetCourseAndClearance(t *testing.T) {
	env := newTestEnv(t)
	svc := env.admin()
	ctx := context.Background()

	u, err := svc.SetCourse(ctx, fixture.SeedAdminID, "mock2", &validator.CourseRequest{EnrolledCourse: "  Travel & Tourism Management "})
	if err != nil {
		t.Fatal(err)
	}
	if u.EnrolledCourse != "Travel & Tourism Management" {
		t.Errorf("course = %q", u.EnrolledCourse)
	}

	u, err = svc.SetClearance(ctx, fixture.SeedAdminID, "mock2", &validator.ClearanceRequest{AdminClearance: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !u.AdminClearance {
		t.Error("clearance not set")
	}

	if _, err := svc.SetCourse(ctx, fixture.SeedAdminID, "mock2", &validator.CourseRequest{}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("blank course err = %v", err)
	}
	if _, err := svc.SetCourse(ctx, fixture.SeedAdminID, fixture.SeedAdminID, &validator.CourseRequest{EnrolledCourse: "x"}); !errors.Is(err, ErrNotStudent) {
		t.Errorf("admin target err = %v", err)
	}

	types := env.publisher.Types()
	if len(types) != 2 || types[0] != events.StudentCourseChanged || types[1] != events.StudentClearanceChanged {
		t.Errorf("published %v", types)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.FailWith(errors.New("broker down"))

	u, err := env.admin().TogglePaymentStatus(context.Background(), fixture.SeedAdminID, "mock1")
	if err != nil {
		t.Fatalf("toggle failed because of publisher: %v", err)
	}
	if u.PaymentStatus != models.PaymentPaid {
		t.Errorf("status = %s", u.PaymentStatus)
	}
}

func TestStoreUnavailableSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.store = unavailableStore{}
	ctx := context.Background()

	if _, err := env.admin().ListStudents(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("ListStudents err = %v", err)
	}
	if _, err := env.admin().FinancialStats(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("FinancialStats err = %v", err)
	}
}
