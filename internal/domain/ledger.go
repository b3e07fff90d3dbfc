package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order records one settled cart line. Append-only; never updated or deleted.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	BuyerEmail  string             `bson:"buyer_email"`
	ProductName string             `bson:"prod_name"`
	Quantity    int                `bson:"quantity"`
	TotalPrice  float64            `bson:"total_price"`
}

// Payment records the settled amount owed to one seller for one checkout,
// aggregated across that seller's cart lines. Append-only.
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	BuyerEmail  string             `bson:"buyer_email"`
	SellerEmail string             `bson:"seller_email"`
	Amount      float64            `bson:"amount"`
}

// AttemptStatus tracks the lifecycle of a checkout attempt.
type AttemptStatus string

const (
	AttemptPending   AttemptStatus = "PENDING"
	AttemptCompleted AttemptStatus = "COMPLETED"
	AttemptFailed    AttemptStatus = "FAILED"
)

// CheckoutAttempt is the idempotency record for one place_order call. A
// retried call with the same key replays the recorded outcome instead of
// charging the buyer twice.
type CheckoutAttempt struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Key        string             `bson:"key"`
	BuyerEmail string             `bson:"buyer_email"`
	Status     AttemptStatus      `bson:"status"`
	Total      float64            `bson:"total"`
	Message    string             `bson:"message,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}
