package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

// mapError converts gorm and driver errors into repository sentinels. Anything that
// is not a lookup or uniqueness failure is treated as the store being unavailable.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, repositories.ErrUnavailable):
		return err
	default:
		return fmt.Errorf("%w: failed to %s: %v", repositories.ErrUnavailable, op, err)
	}
}

// dedupe drops repeated ids while keeping order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
