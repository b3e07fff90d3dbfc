package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

type mongoCheckouts struct {
	collection *mongo.Collection
}

func NewCheckouts(db *mongo.Database) CheckoutRepository {
	return &mongoCheckouts{collection: db.Collection("checkout_attempts")}
}

func (m *mongoCheckouts) GetByKey(ctx context.Context, key string) (*domain.CheckoutAttempt, error) {
	var attempt domain.CheckoutAttempt
	err := m.collection.FindOne(ctx, bson.M{"key": key}).Decode(&attempt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get checkout attempt: %w", err)
	}
	return &attempt, nil
}

func (m *mongoCheckouts) Create(ctx context.Context, attempt *domain.CheckoutAttempt) error {
	now := time.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, attempt); err != nil {
		return fmt.Errorf("failed to create checkout attempt: %w", err)
	}
	return nil
}

func (m *mongoCheckouts) MarkPending(ctx context.Context, key string) error {
	return m.setStatus(ctx, key, bson.M{"status": domain.AttemptPending})
}

func (m *mongoCheckouts) MarkCompleted(ctx context.Context, key string, total float64, message string) error {
	return m.setStatus(ctx, key, bson.M{
		"status":  domain.AttemptCompleted,
		"total":   total,
		"message": message,
	})
}

func (m *mongoCheckouts) MarkFailed(ctx context.Context, key, reason string) error {
	return m.setStatus(ctx, key, bson.M{
		"status":  domain.AttemptFailed,
		"message": reason,
	})
}

func (m *mongoCheckouts) setStatus(ctx context.Context, key string, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := m.collection.UpdateOne(ctx, bson.M{"key": key}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update checkout attempt: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
