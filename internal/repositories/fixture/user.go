package fixture

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

type userRepository struct {
	db *tables
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.PaymentMethods != nil {
		c.PaymentMethods = append([]string(nil), u.PaymentMethods...)
	}
	if u.TrainingMethods != nil {
		c.TrainingMethods = append([]string(nil), u.TrainingMethods...)
	}
	return &c
}

// findByEmail expects the caller to hold the lock.
func (repo *userRepository) findByEmail(email string) *models.User {
	email = models.NormalizeEmail(email)
	for _, u := range repo.db.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (repo *userRepository) Create(ctx context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	user.Email = models.NormalizeEmail(user.Email)
	if repo.findByEmail(user.Email) != nil {
		return repositories.ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	} else if _, ok := repo.db.users[user.ID]; ok {
		return repositories.ErrDuplicate
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	repo.db.users[user.ID] = cloneUser(user)
	return nil
}

func (repo *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, repositories.ErrNotFound
}

func (repo *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u := repo.findByEmail(email); u != nil {
		return cloneUser(u), nil
	}
	return nil, repositories.ErrNotFound
}

func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.findByEmail(email) != nil, nil
}

func (repo *userRepository) ListStudents(ctx context.Context) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]*models.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		if u.IsStudent() {
			students = append(students, cloneUser(u))
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].CreatedAt.Equal(students[j].CreatedAt) {
			return students[i].ID < students[j].ID
		}
		return students[i].CreatedAt.After(students[j].CreatedAt)
	})
	return students, nil
}

func (repo *userRepository) CountStudents(ctx context.Context) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var n int64
	for _, u := range repo.db.users {
		if u.IsStudent() {
			n++
		}
	}
	return n, nil
}

func (repo *userRepository) Update(ctx context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.Email = models.NormalizeEmail(user.Email)
	if other := repo.findByEmail(user.Email); other != nil && other.ID != user.ID {
		return repositories.ErrDuplicate
	}
	user.UpdatedAt = time.Now()
	repo.db.users[user.ID] = cloneUser(user)
	return nil
}

// mutate applies fn to the stored user under the write lock and returns a copy.
func (repo *userRepository) mutate(id string, fn func(u *models.User)) (*models.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (repo *userRepository) TogglePaymentStatus(ctx context.Context, id string) (*models.User, error) {
	return repo.mutate(id, func(u *models.User) { u.TogglePaymentStatus() })
}

// BatchMarkPaid holds the write lock for the whole batch.
func (repo *userRepository) BatchMarkPaid(ctx context.Context, ids []string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	now := time.Now()
	seen := make(map[string]bool, len(ids))
	count := 0
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := repo.db.users[id]
		if !ok || !u.IsStudent() {
			continue
		}
		u.MarkPaid()
		u.UpdatedAt = now
		count++
	}
	return count, nil
}

func (repo *userRepository) SetCourse(ctx context.Context, id, course string) (*models.User, error) {
	return repo.mutate(id, func(u *models.User) { u.EnrolledCourse = course })
}

func (repo *userRepository) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	return repo.mutate(id, update.Apply)
}

func (repo *userRepository) SetDocumentURL(ctx context.Context, id, url string) (*models.User, error) {
	return repo.mutate(id, func(u *models.User) { u.DocumentURL = url })
}

func (repo *userRepository) SetPaymentReceiptURL(ctx context.Context, id, url string) (*models.User, error) {
	return repo.mutate(id, func(u *models.User) { u.PaymentReceiptURL = url })
}

func (repo *userRepository) SetAdminClearance(ctx context.Context, id string, cleared bool) (*models.User, error) {
	return repo.mutate(id, func(u *models.User) { u.AdminClearance = cleared })
}

func (repo *userRepository) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]*models.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		students = append(students, u)
	}
	return models.ComputeFinancialStats(students), nil
}
