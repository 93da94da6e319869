package fixture

import (
	"context"
	"sync"
	"testing"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/repotest"
)

func TestStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repositories.DataStore {
		return NewEmpty()
	})
}

func TestSeededRoster(t *testing.T) {
	ctx := context.Background()
	store := New()

	if store.Mode() != repositories.ModeMock {
		t.Errorf("expected mock mode, got %s", store.Mode())
	}

	count, err := store.Users().CountStudents(ctx)
	if err != nil || count != 5 {
		t.Fatalf("CountStudents = %d, %v; want 5", count, err)
	}

	admin, err := store.Users().GetByEmail(ctx, SeedAdminEmail)
	if err != nil {
		t.Fatalf("GetByEmail(admin): %v", err)
	}
	if !admin.IsAdmin() {
		t.Errorf("seeded admin has role %s", admin.Role)
	}
	if err := auth.CheckPassword(admin.PasswordHash, SeedPassword); err != nil {
		t.Errorf("seeded admin password does not match: %v", err)
	}

	stats, err := store.Users().FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if stats.TotalRevenue != 13000 || stats.RevenuePending != 18000 {
		t.Errorf("unexpected seeded stats %+v", stats)
	}
}

func TestStoresDoNotShareState(t *testing.T) {
	ctx := context.Background()
	a, b := New(), New()

	if _, err := a.Users().TogglePaymentStatus(ctx, "mock1"); err != nil {
		t.Fatalf("TogglePaymentStatus: %v", err)
	}
	u, err := b.Users().GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.PaymentStatus != models.PaymentPending {
		t.Error("mutating one store leaked into another")
	}
}

func TestReturnedUsersAreCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	u, err := store.Users().GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	u.AmountDue = 1

	again, _ := store.Users().GetByID(ctx, "mock1")
	if again.AmountDue != 5000 {
		t.Errorf("caller mutation leaked into the store: %v", again.AmountDue)
	}
}

func TestConcurrentToggles(t *testing.T) {
	ctx := context.Background()
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Users().TogglePaymentStatus(ctx, "mock2"); err != nil {
				t.Errorf("TogglePaymentStatus: %v", err)
			}
		}()
	}
	wg.Wait()

	// An even number of toggles returns to the starting state.
	u, _ := store.Users().GetByID(ctx, "mock2")
	if u.PaymentStatus != models.PaymentPending || u.AmountDue != 7500 || u.AmountPaid != 0 {
		t.Errorf("lost update under concurrency: %+v", u)
	}
}
