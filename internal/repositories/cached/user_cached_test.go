package cached

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/alpha-aviation/enrollment-service/internal/cache"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/repotest"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestCachedStoreContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repositories.DataStore {
		_, client := setupRedis(t)
		return Wrap(fixture.NewEmpty(), client)
	})
}

func TestWrapWithoutClient(t *testing.T) {
	store := fixture.New()
	if Wrap(store, nil) != repositories.DataStore(store) {
		t.Error("expected the store to be returned unchanged without redis")
	}
}

func TestGetByIDServedFromCache(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := Wrap(fixture.New(), client)

	first, err := store.Users().GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !mr.Exists(cache.UserCacheConfig.Prefix + cache.UserKey("mock1")) {
		t.Fatal("expected user to be cached")
	}

	second, err := store.Users().GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if second.PasswordHash == "" || second.PasswordHash != first.PasswordHash {
		t.Error("cached user lost its password hash")
	}
}

func TestWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := Wrap(fixture.New(), client)
	users := store.Users()

	before, err := users.FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if _, err := users.GetByID(ctx, "mock1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !mr.Exists(cache.StatsCacheConfig.Prefix + cache.FinancialStatsKey) {
		t.Fatal("expected stats to be cached")
	}

	if _, err := users.TogglePaymentStatus(ctx, "mock1"); err != nil {
		t.Fatalf("TogglePaymentStatus: %v", err)
	}
	if mr.Exists(cache.UserCacheConfig.Prefix + cache.UserKey("mock1")) {
		t.Error("user entry survived a write")
	}
	if mr.Exists(cache.StatsCacheConfig.Prefix + cache.FinancialStatsKey) {
		t.Error("stats entry survived a write")
	}

	after, err := users.FinancialStats(ctx)
	if err != nil {
		t.Fatalf("FinancialStats: %v", err)
	}
	if after.TotalRevenue != before.TotalRevenue+5000 || after.RevenuePending != before.RevenuePending-5000 {
		t.Errorf("stale stats after toggle: %+v -> %+v", before, after)
	}

	u, err := users.GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.PaymentStatus != models.PaymentPaid {
		t.Errorf("stale user after toggle: %s", u.PaymentStatus)
	}
}

func TestRedisOutageFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := Wrap(fixture.New(), client)
	mr.Close()

	u, err := store.Users().GetByID(ctx, "mock1")
	if err != nil {
		t.Fatalf("expected store read despite redis outage, got %v", err)
	}
	if u.ID != "mock1" {
		t.Errorf("unexpected user %s", u.ID)
	}
}
