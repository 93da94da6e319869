package postgres

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/repotest"
)

// Set TEST_POSTGRES_DSN to a disposable database to run the store contract.
func TestPostgreSQLRepositoryContract(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	repotest.Run(t, func(t *testing.T) repositories.DataStore {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		repo := NewPostgreSQLRepository(db)
		ctx := context.Background()
		if err := db.WithContext(ctx).Exec("DROP TABLE IF EXISTS payments, users").Error; err != nil {
			t.Fatalf("reset: %v", err)
		}
		if err := repo.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		t.Cleanup(func() { repo.Close() })
		return repo
	})
}
