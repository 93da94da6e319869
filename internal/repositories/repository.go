package repositories

import (
	"context"
	"errors"
)

// Mode reports which backing store the process is running against.
type Mode string

const (
	ModeDatabase Mode = "database"
	ModeMock     Mode = "mock"
)

// DataStore is chosen once at startup and injected into services.
type DataStore interface {
	Users() UserRepository
	Payments() PaymentRepository

	// Mode never changes after construction.
	Mode() Mode

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate record")
	ErrUnavailable = errors.New("store unavailable")
)
