package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

type mongoLedger struct {
	orders   *mongo.Collection
	payments *mongo.Collection
}

func NewLedger(db *mongo.Database) LedgerRepository {
	return &mongoLedger{
		orders:   db.Collection("order"),
		payments: db.Collection("payment"),
	}
}

func (m *mongoLedger) InsertOrders(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	docs := make([]any, 0, len(orders))
	for i := range orders {
		docs = append(docs, orders[i])
	}
	if _, err := m.orders.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert orders: %w", err)
	}
	return nil
}

func (m *mongoLedger) InsertPayments(ctx context.Context, payments []domain.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	docs := make([]any, 0, len(payments))
	for i := range payments {
		docs = append(docs, payments[i])
	}
	if _, err := m.payments.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert payments: %w", err)
	}
	return nil
}
