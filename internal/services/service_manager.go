package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/cache"
	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

// Dependencies are the shared collaborators handed to every service.
type Dependencies struct {
	Store     repositories.DataStore
	Tokens    *auth.TokenManager
	Publisher events.EventPublisher
	// Gateway and Cache are optional.
	Gateway   CheckoutGateway
	Cache     *cache.CacheManager
	Logger    *slog.Logger
	Validator *validator.Validator
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps Dependencies

	// Service instances
	authService    AuthService
	studentService StudentService
	adminService   AdminService
	paymentService PaymentService
	exportService  ExportService
	healthService  HealthService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{deps: deps}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.deps.Store == nil || sm.deps.Tokens == nil || sm.deps.Logger == nil || sm.deps.Validator == nil {
		return errors.New("service manager: store, tokens, logger and validator are required")
	}

	d := sm.deps
	sm.authService = NewAuthService(d.Store, d.Tokens, d.Publisher, d.Logger, d.Validator)
	sm.studentService = NewStudentService(d.Store, d.Publisher, d.Logger, d.Validator)
	sm.adminService = NewAdminService(d.Store, d.Publisher, d.Logger, d.Validator)

	sm.paymentService = NewPaymentService(d.Store, d.Gateway, d.Publisher, d.Logger, d.Validator)
	sm.exportService = NewExportService(d.Store, d.Logger)
	sm.healthService = NewHealthService(d.Store, d.Cache)

	sm.initialized = true
	d.Logger.Info("Service manager initialized",
		"mode", d.Store.Mode(),
		"checkout_enabled", d.Gateway != nil,
		"cache_enabled", d.Cache != nil)

	return nil
}

func (sm *serviceManager) get() *serviceManager {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm
}

// Service getters
func (sm *serviceManager) Auth() AuthService       { return sm.get().authService }
func (sm *serviceManager) Student() StudentService { return sm.get().studentService }
func (sm *serviceManager) Admin() AdminService     { return sm.get().adminService }
func (sm *serviceManager) Payment() PaymentService { return sm.get().paymentService }
func (sm *serviceManager) Export() ExportService   { return sm.get().exportService }
func (sm *serviceManager) Health() HealthService   { return sm.get().healthService }

// HealthCheck fails only when a live store stops answering.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	status := sm.Health().Check(ctx)
	if status.Mode == repositories.ModeDatabase && !status.DBConnected {
		return fmt.Errorf("%w: ping failed", ErrStoreUnavailable)
	}
	return nil
}

// Shutdown closes the event publisher. The store and redis belong to main.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}
	sm.deps.Logger.Info("Service manager shut down")
	return nil
}
