package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

type mongoInventory struct {
	collection *mongo.Collection
}

func NewInventory(db *mongo.Database) InventoryRepository {
	return &mongoInventory{collection: db.Collection("inventory")}
}

func (m *mongoInventory) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var product domain.Product
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (m *mongoInventory) List(ctx context.Context) ([]domain.Product, error) {
	cursor, err := m.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (m *mongoInventory) ListBySeller(ctx context.Context, sellerEmail string) ([]domain.Product, error) {
	cursor, err := m.collection.Find(ctx, bson.M{"seller_email": sellerEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode seller products: %w", err)
	}
	return products, nil
}

func (m *mongoInventory) Insert(ctx context.Context, product *domain.Product) (string, error) {
	result, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to insert product: %w", err)
	}
	return objectIDHex(result.InsertedID), nil
}

func (m *mongoInventory) InsertMany(ctx context.Context, products []domain.Product) ([]string, error) {
	docs := make([]any, 0, len(products))
	for i := range products {
		docs = append(docs, products[i])
	}

	result, err := m.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert products: %w", err)
	}

	ids := make([]string, 0, len(result.InsertedIDs))
	for _, id := range result.InsertedIDs {
		ids = append(ids, objectIDHex(id))
	}
	return ids, nil
}

func (m *mongoInventory) UpdateField(ctx context.Context, id, field string, value any) (bool, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return false, err
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return false, fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, ErrProductNotFound
	}
	return result.ModifiedCount > 0, nil
}

func (m *mongoInventory) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *mongoInventory) DecrementQuantity(ctx context.Context, id string, amount int) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	// Conditional decrement: only matches while stock covers the amount, so
	// concurrent checkouts cannot drive a quantity negative.
	filter := bson.M{"_id": oid, "quantity": bson.M{"$gte": amount}}
	result, err := m.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"quantity": -amount}})
	if err != nil {
		return fmt.Errorf("failed to decrement quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (m *mongoInventory) IncrementQuantity(ctx context.Context, id string, amount int) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"quantity": amount}})
	if err != nil {
		return fmt.Errorf("failed to increment quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
