package cached

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/alpha-aviation/enrollment-service/internal/cache"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

// store wraps a DataStore so its user repository goes through redis.
type store struct {
	repositories.DataStore
	users *UserRepository
}

// Wrap returns ds unchanged when client is nil.
func Wrap(ds repositories.DataStore, client *redis.Client) repositories.DataStore {
	if client == nil {
		return ds
	}
	return &store{
		DataStore: ds,
		users:     NewUserRepository(ds.Users(), cache.NewCacheManager(client)),
	}
}

func (s *store) Users() repositories.UserRepository {
	return s.users
}

// UserRepository caches lookups by id and the roster aggregates. Every write
// drops the touched users and all aggregates.
type UserRepository struct {
	repositories.UserRepository
	cacheManager *cache.CacheManager
}

func NewUserRepository(inner repositories.UserRepository, cm *cache.CacheManager) *UserRepository {
	return &UserRepository{UserRepository: inner, cacheManager: cm}
}

// cachedUser keeps the password hash, which models.User never serialises.
type cachedUser struct {
	models.User
	Hash string `json:"passwordHash"`
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var entry cachedUser
	err := r.cacheManager.User.CacheOrExecute(ctx, cache.UserKey(id), &entry, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		user, err := r.UserRepository.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedUser{User: *user, Hash: user.PasswordHash}, nil
	})
	if err != nil {
		return nil, err
	}
	user := entry.User
	user.PasswordHash = entry.Hash
	return &user, nil
}

func (r *UserRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.cacheManager.Stats.CacheOrExecute(ctx, cache.StudentCountKey, &count, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.UserRepository.CountStudents(ctx)
	})
	return count, err
}

func (r *UserRepository) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	var stats models.FinancialStats
	err := r.cacheManager.Stats.CacheOrExecute(ctx, cache.FinancialStatsKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return r.UserRepository.FinancialStats(ctx)
	})
	return stats, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.UserRepository.Create(ctx, user); err != nil {
		return err
	}
	cache.InvalidateUserCache(ctx, r.cacheManager, user.ID)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.UserRepository.Update(ctx, user)
	cache.InvalidateUserCache(ctx, r.cacheManager, user.ID)
	return err
}

func (r *UserRepository) BatchMarkPaid(ctx context.Context, ids []string) (int, error) {
	n, err := r.UserRepository.BatchMarkPaid(ctx, ids)
	cache.InvalidateUserCache(ctx, r.cacheManager, ids...)
	return n, err
}

// invalidating wraps single-user writes.
func (r *UserRepository) invalidating(ctx context.Context, id string, user *models.User, err error) (*models.User, error) {
	cache.InvalidateUserCache(ctx, r.cacheManager, id)
	return user, err
}

func (r *UserRepository) TogglePaymentStatus(ctx context.Context, id string) (*models.User, error) {
	user, err := r.UserRepository.TogglePaymentStatus(ctx, id)
	return r.invalidating(ctx, id, user, err)
}

func (r *UserRepository) SetCourse(ctx context.Context, id, course string) (*models.User, error) {
	user, err := r.UserRepository.SetCourse(ctx, id, course)
	return r.invalidating(ctx, id, user, err)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	user, err := r.UserRepository.UpdateProfile(ctx, id, update)
	return r.invalidating(ctx, id, user, err)
}

func (r *UserRepository) SetDocumentURL(ctx context.Context, id, url string) (*models.User, error) {
	user, err := r.UserRepository.SetDocumentURL(ctx, id, url)
	return r.invalidating(ctx, id, user, err)
}

func (r *UserRepository) SetPaymentReceiptURL(ctx context.Context, id, url string) (*models.User, error) {
	user, err := r.UserRepository.SetPaymentReceiptURL(ctx, id, url)
	return r.invalidating(ctx, id, user, err)
}

func (r *UserRepository) SetAdminClearance(ctx context.Context, id string, cleared bool) (*models.User, error) {
	user, err := r.UserRepository.SetAdminClearance(ctx, id, cleared)
	return r.invalidating(ctx, id, user, err)
}
