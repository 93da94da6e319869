package services

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/alpha-aviation/enrollment-service/internal/config"
	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// Checkout is an opened hosted-payment session.
type Checkout struct {
	Token       string
	RedirectURL string
}

// CheckoutGateway opens a hosted checkout for a payment record.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, payment *models.Payment, payer *models.User) (*Checkout, error)
}

// SnapGateway opens Midtrans Snap transactions. The payment id is the order id.
type SnapGateway struct {
	client snap.Client
}

// NewSnapGateway returns nil when no server key is configured.
func NewSnapGateway(cfg config.MidtransConfig) *SnapGateway {
	if !cfg.Enabled() {
		return nil
	}

	g := &SnapGateway{}
	if cfg.Production {
		g.client.New(cfg.ServerKey, midtrans.Production)
	} else {
		g.client.New(cfg.ServerKey, midtrans.Sandbox)
	}
	return g
}

const maxItemNameLen = 50

// checkoutAmount is the whole-unit amount charged at checkout. Amounts that
// round to zero are recorded without opening a checkout.
func checkoutAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

// itemName truncates on a rune boundary.
func itemName(description string) string {
	if description == "" {
		return "Tuition payment"
	}
	if utf8.RuneCountInString(description) <= maxItemNameLen {
		return description
	}
	return string([]rune(description)[:maxItemNameLen])
}

func (g *SnapGateway) CreateCheckout(ctx context.Context, payment *models.Payment, payer *models.User) (*Checkout, error) {
	amount := checkoutAmount(payment.Amount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive for checkout", ErrPaymentGateway)
	}
	name := itemName(payment.Description)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  payment.ID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: payer.FirstName,
			LName: payer.LastName,
			Email: payer.Email,
			Phone: payer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       payment.ID,
				Name:     name,
				Price:    amount,
				Qty:      1,
				Category: "Tuition",
			},
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}
