package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

// Optimistic update attempts before giving up on a contended document.
const maxMutateAttempts = 10

var errConflict = errors.New("concurrent modification")

type UserMongo struct {
	coll *mongo.Collection
}

var studentFilter = bson.M{"role": models.RoleStudent}

func (u *UserMongo) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := u.coll.InsertOne(ctx, user); err != nil {
		return mapError("create user", err)
	}
	return nil
}

func (u *UserMongo) findOne(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var user models.User
	if err := u.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(op, err)
	}
	return &user, nil
}

func (u *UserMongo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return u.findOne(ctx, "get user", bson.M{"_id": id})
}

func (u *UserMongo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, "get user by email", bson.M{"email": models.NormalizeEmail(email)})
}

func (u *UserMongo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := u.coll.CountDocuments(ctx, bson.M{"email": models.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, mapError("check email", err)
	}
	return n > 0, nil
}

func (u *UserMongo) ListStudents(ctx context.Context) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := u.coll.Find(ctx, studentFilter, opts)
	if err != nil {
		return nil, mapError("list students", err)
	}
	students := make([]*models.User, 0)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, mapError("decode students", err)
	}
	return students, nil
}

func (u *UserMongo) CountStudents(ctx context.Context) (int64, error) {
	n, err := u.coll.CountDocuments(ctx, studentFilter)
	if err != nil {
		return 0, mapError("count students", err)
	}
	return n, nil
}

func (u *UserMongo) Update(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	user.UpdatedAt = time.Now().UTC()

	fields, err := updateFields(user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	res, err := u.coll.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": fields, "$inc": bson.M{"rev": 1}})
	if err != nil {
		return mapError("update user", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// updateFields is the $set document for a full save. The stored rev only moves
// through $inc, so callers holding a stale copy cannot rewind it.
func updateFields(user *models.User) (bson.M, error) {
	raw, err := bson.Marshal(user)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "rev")
	return fields, nil
}

// revisionFilter matches the document only while its write counter is still rev.
// Documents written before the counter existed have no rev field and count as 0.
func revisionFilter(id string, rev int64) bson.M {
	if rev == 0 {
		return bson.M{"_id": id, "rev": bson.M{"$in": bson.A{0, nil}}}
	}
	return bson.M{"_id": id, "rev": rev}
}

// mutate reads the document, applies fn and replaces it only if nobody else
// changed it in between, retrying on conflict.
func (u *UserMongo) mutate(ctx context.Context, op, id string, fn func(*models.User)) (*models.User, error) {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		user, err := u.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		prev := user.Revision

		fn(user)
		user.UpdatedAt = time.Now().UTC()
		user.Revision = prev + 1

		res, err := u.coll.ReplaceOne(ctx, revisionFilter(id, prev), user)
		if err != nil {
			return nil, mapError(op, err)
		}
		if res.MatchedCount == 1 {
			return user, nil
		}
	}
	return nil, mapError(op, errConflict)
}

func (u *UserMongo) TogglePaymentStatus(ctx context.Context, id string) (*models.User, error) {
	return u.mutate(ctx, "toggle payment status", id, func(user *models.User) { user.TogglePaymentStatus() })
}

// BatchMarkPaid updates each matched student independently; ids that vanish
// between the lookup and the update are skipped.
func (u *UserMongo) BatchMarkPaid(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}, "role": models.RoleStudent}
	cursor, err := u.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return 0, mapError("find batch students", err)
	}
	var matched []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &matched); err != nil {
		return 0, mapError("decode batch students", err)
	}

	count := 0
	for _, m := range matched {
		_, err := u.mutate(ctx, "batch mark paid", m.ID, func(user *models.User) { user.MarkPaid() })
		if errors.Is(err, repositories.ErrNotFound) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (u *UserMongo) SetCourse(ctx context.Context, id, course string) (*models.User, error) {
	return u.mutate(ctx, "set course", id, func(user *models.User) { user.EnrolledCourse = course })
}

func (u *UserMongo) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	return u.mutate(ctx, "update profile", id, update.Apply)
}

func (u *UserMongo) SetDocumentURL(ctx context.Context, id, url string) (*models.User, error) {
	return u.mutate(ctx, "set document url", id, func(user *models.User) { user.DocumentURL = url })
}

func (u *UserMongo) SetPaymentReceiptURL(ctx context.Context, id, url string) (*models.User, error) {
	return u.mutate(ctx, "set payment receipt url", id, func(user *models.User) { user.PaymentReceiptURL = url })
}

func (u *UserMongo) SetAdminClearance(ctx context.Context, id string, cleared bool) (*models.User, error) {
	return u.mutate(ctx, "set admin clearance", id, func(user *models.User) { user.AdminClearance = cleared })
}

func (u *UserMongo) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	paidAmount := bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{"$amountPaid", 0}}, "$amountPaid",
		bson.M{"$cond": bson.A{bson.M{"$gt": bson.A{"$amountDue", 0}}, "$amountDue", 0}},
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: studentFilter}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"totalRevenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$paymentStatus", models.PaymentPaid}}, paidAmount, 0,
			}}},
			"revenuePending": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$paymentStatus", models.PaymentPending}}, "$amountDue", 0,
			}}},
		}}},
	}

	cursor, err := u.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.FinancialStats{}, mapError("compute financial stats", err)
	}
	var rows []struct {
		TotalRevenue   float64 `bson:"totalRevenue"`
		RevenuePending float64 `bson:"revenuePending"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.FinancialStats{}, mapError("decode financial stats", err)
	}
	if len(rows) == 0 {
		return models.FinancialStats{}, nil
	}
	return models.FinancialStats{TotalRevenue: rows[0].TotalRevenue, RevenuePending: rows[0].RevenuePending}, nil
}
