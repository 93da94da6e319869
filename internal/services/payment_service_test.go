package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

type fakeGateway struct {
	err   error
	calls int
	payer string
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, payment *models.Payment, payer *models.User) (*Checkout, error) {
	g.calls++
	g.payer = payer.Email
	if g.err != nil {
		return nil, g.err
	}
	return &Checkout{Token: "snap-" + payment.ID, RedirectURL: "https://pay.example/" + payment.ID}, nil
}

func TestCreatePaymentWithoutGateway(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.payment(nil).Create(ctx, "mock1", &validator.CreatePaymentRequest{
		Amount:        2500,
		Description:   "First installment",
		PaymentMethod: "Bank Transfer",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != models.PaymentRecordPending || p.UserID != "mock1" || p.CheckoutToken != "" {
		t.Errorf("unexpected payment: %+v", p)
	}
	if types := env.publisher.Types(); len(types) != 1 || types[0] != events.PaymentCreated {
		t.Errorf("published %v", types)
	}
}

func TestCreatePaymentOpensCheckout(t *testing.T) {
	env := newTestEnv(t)
	gw := &fakeGateway{}

	p, err := env.payment(gw).Create(context.Background(), "mock1", &validator.CreatePaymentRequest{Amount: 2500})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if gw.calls != 1 || gw.payer != "student1@alpha.com" {
		t.Errorf("gateway calls = %d, payer = %q", gw.calls, gw.payer)
	}
	if p.CheckoutToken != "snap-"+p.ID || p.CheckoutRedirectURL == "" {
		t.Errorf("checkout not recorded: %+v", p)
	}
}

func TestCreatePaymentSkipsCheckoutBelowOneUnit(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		calls  int
	}{
		{"zero", 0, 0},
		{"rounds to zero", 0.4, 0},
		{"rounds up to one", 0.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			gw := &fakeGateway{}

			p, err := env.payment(gw).Create(context.Background(), "mock1", &validator.CreatePaymentRequest{Amount: tt.amount})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if gw.calls != tt.calls {
				t.Errorf("gateway calls = %d, want %d", gw.calls, tt.calls)
			}
			if p.Amount != tt.amount {
				t.Errorf("amount = %v, want %v", p.Amount, tt.amount)
			}
		})
	}
}

func TestItemName(t *testing.T) {
	long := strings.Repeat("é", 60)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "Tuition payment"},
		{"short", "Deposit", "Deposit"},
		{"multibyte truncated on rune boundary", long, strings.Repeat("é", maxItemNameLen)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemName(tt.in)
			if got != tt.want {
				t.Errorf("itemName() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("itemName() returned invalid UTF-8")
			}
		})
	}
}

func TestCreatePaymentGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	gw := &fakeGateway{err: ErrPaymentGateway}
	svc := env.payment(gw)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "mock1", &validator.CreatePaymentRequest{Amount: 100}); !errors.Is(err, ErrPaymentGateway) {
		t.Fatalf("err = %v, want ErrPaymentGateway", err)
	}
	list, err := svc.List(ctx, "mock1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("payment recorded despite failed checkout")
	}
}

func TestPaymentsAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	svc := env.payment(nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, "mock1", &validator.CreatePaymentRequest{Amount: 100})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, "mock2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user Get err = %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "mock2", p.ID, &validator.PaymentStatusRequest{Status: models.PaymentRecordCompleted}); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user UpdateStatus err = %v", err)
	}
	if list, _ := svc.List(ctx, "mock2"); len(list) != 0 {
		t.Errorf("other user sees %d payments", len(list))
	}

	updated, err := svc.UpdateStatus(ctx, "mock1", p.ID, &validator.PaymentStatusRequest{Status: models.PaymentRecordCompleted})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.PaymentRecordCompleted {
		t.Errorf("status = %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, "mock1", p.ID, &validator.PaymentStatusRequest{Status: "Lost"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("invalid status err = %v", err)
	}

	// A payment record never moves the student's own payment status.
	u, _ := env.store.Users().GetByID(ctx, "mock1")
	if u.PaymentStatus != models.PaymentPending {
		t.Errorf("user payment status changed to %s", u.PaymentStatus)
	}
}
