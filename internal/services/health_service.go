package services

import (
	"context"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/cache"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

const healthTimeout = 2 * time.Second

type healthService struct {
	store repositories.DataStore
	cache *cache.CacheManager
}

// NewHealthService reports on store and cache. cm may be nil.
func NewHealthService(store repositories.DataStore, cm *cache.CacheManager) HealthService {
	return &healthService{store: store, cache: cm}
}

// Check never reports dbConnected in mock mode, even though the fixture store answers pings.
func (s *healthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := HealthStatus{Mode: s.store.Mode()}
	if status.Mode == repositories.ModeDatabase {
		status.DBConnected = s.store.Ping(ctx) == nil
	}
	if s.cache != nil {
		status.CacheConnected = s.cache.HealthCheck(ctx) == nil
	}
	return status
}
