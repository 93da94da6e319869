package services

import (
	"context"
	"testing"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

func TestServiceManagerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sm := NewServiceManager(Dependencies{
		Store:     env.store,
		Tokens:    env.tokens,
		Publisher: env.publisher,
		Logger:    env.logger,
		Validator: env.validator,
	})
	ctx := context.Background()

	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if sm.Auth() == nil || sm.Admin() == nil || sm.Payment() == nil || sm.Export() == nil {
		t.Fatal("services not built")
	}

	status := sm.Health().Check(ctx)
	if status.Mode != repositories.ModeMock || status.DBConnected {
		t.Errorf("mock store health = %+v", status)
	}
	if err := sm.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck in mock mode: %v", err)
	}

	if err := sm.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
	if err := sm.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestServiceManagerRequiresDependencies(t *testing.T) {
	if err := NewServiceManager(Dependencies{}).Initialize(context.Background()); err == nil {
		t.Error("expected an error without dependencies")
	}
}

func TestHealthCheckLiveStoreDown(t *testing.T) {
	status := NewHealthService(unavailableStore{}, nil).Check(context.Background())
	if status.Mode != repositories.ModeDatabase || status.DBConnected {
		t.Errorf("status = %+v", status)
	}
}
