package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// Stats keys
const (
	FinancialStatsKey = "financial"
	StudentCountKey   = "students:count"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// UserKey is the cache key for a user loaded by id.
func UserKey(userID string) string {
	return fmt.Sprintf("id:%s", userID)
}

// InvalidateUserCache drops the cached user and every roster aggregate.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userIDs ...string) {
	if len(userIDs) > 0 {
		keys := make([]string, len(userIDs))
		for i, id := range userIDs {
			keys[i] = UserKey(id)
		}
		SafeDelete(ctx, cm.User, keys...)
	}
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
