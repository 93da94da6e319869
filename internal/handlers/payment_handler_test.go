package handlers

import (
	"net/http"
	"testing"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
)

type paymentData struct {
	Payment models.Payment `json:"payment"`
}

func TestPaymentLifecycle(t *testing.T) {
	srv := newTestServer(t, fixture.New())
	owner := srv.token(t, "mock1")
	other := srv.token(t, "mock2")

	w := srv.do(t, http.MethodPost, "/api/payments", owner, map[string]interface{}{
		"amount":        2500,
		"description":   "Deposit",
		"paymentMethod": "Bank transfer",
	})
	expectStatus(t, w, http.StatusCreated)

	env := decode(t, w)
	if env.Message != "Payment record created successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}
	var created paymentData
	decodeData(t, env, &created)
	if created.Payment.Status != models.PaymentRecordPending || created.Payment.UserID != "mock1" {
		t.Fatalf("unexpected payment: %+v", created.Payment)
	}
	id := created.Payment.ID

	w = srv.do(t, http.MethodGet, "/payments", owner, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode(t, w); env.Count == nil || *env.Count != 1 {
		t.Errorf("expected one payment, got %v", env.Count)
	}

	w = srv.do(t, http.MethodGet, "/api/payments/"+id, other, nil)
	expectStatus(t, w, http.StatusNotFound)
	if env := decode(t, w); env.Message != "Payment not found" {
		t.Errorf("unexpected message %q", env.Message)
	}

	w = srv.do(t, http.MethodPatch, "/api/payments/"+id+"/status", owner, map[string]string{"status": "Bogus"})
	expectStatus(t, w, http.StatusBadRequest)

	w = srv.do(t, http.MethodPatch, "/api/payments/"+id+"/status", owner, map[string]string{"status": "Completed"})
	expectStatus(t, w, http.StatusOK)

	w = srv.do(t, http.MethodGet, "/api/payments/"+id, owner, nil)
	expectStatus(t, w, http.StatusOK)
	var fetched paymentData
	decodeData(t, decode(t, w), &fetched)
	if fetched.Payment.Status != models.PaymentRecordCompleted {
		t.Errorf("expected Completed, got %s", fetched.Payment.Status)
	}
}

func TestAdminsCanRecordPayments(t *testing.T) {
	srv := newTestServer(t, fixture.New())

	w := srv.do(t, http.MethodPost, "/api/payments", srv.token(t, fixture.SeedAdminID), map[string]interface{}{"amount": 10})
	expectStatus(t, w, http.StatusCreated)
}
