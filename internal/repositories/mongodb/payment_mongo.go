package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alpha-aviation/enrollment-service/internal/models"
)

type PaymentMongo struct {
	coll *mongo.Collection
}

func (p *PaymentMongo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentRecordPending
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	if _, err := p.coll.InsertOne(ctx, payment); err != nil {
		return mapError("create payment", err)
	}
	return nil
}

func (p *PaymentMongo) ListByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := p.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	payments := make([]*models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, mapError("decode payments", err)
	}
	return payments, nil
}

func (p *PaymentMongo) GetForUser(ctx context.Context, id, userID string) (*models.Payment, error) {
	var payment models.Payment
	if err := p.coll.FindOne(ctx, bson.M{"_id": id, "user": userID}).Decode(&payment); err != nil {
		return nil, mapError("get payment", err)
	}
	return &payment, nil
}

func (p *PaymentMongo) UpdateStatusForUser(ctx context.Context, id, userID string, status models.PaymentRecordStatus) (*models.Payment, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment models.Payment
	err := p.coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, update, opts).Decode(&payment)
	if err != nil {
		return nil, mapError("update payment status", err)
	}
	return &payment, nil
}
