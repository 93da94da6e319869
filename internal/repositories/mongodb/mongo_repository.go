package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

const (
	usersCollection    = "users"
	paymentsCollection = "payments"
)

// MongoRepository implements repositories.DataStore on a MongoDB database.
type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database

	user    *UserMongo
	payment *PaymentMongo
}

func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{
		client:  client,
		db:      db,
		user:    &UserMongo{coll: db.Collection(usersCollection)},
		payment: &PaymentMongo{coll: db.Collection(paymentsCollection)},
	}
}

// EnsureIndexes creates the unique email index and the payment listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.user.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = r.payment.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create payment indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Users() repositories.UserRepository {
	return r.user
}

func (r *MongoRepository) Payments() repositories.PaymentRepository {
	return r.payment
}

func (r *MongoRepository) Mode() repositories.Mode {
	return repositories.ModeDatabase
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, repositories.ErrDuplicate),
		errors.Is(err, repositories.ErrUnavailable):
		return err
	default:
		return fmt.Errorf("%w: failed to %s: %v", repositories.ErrUnavailable, op, err)
	}
}
