package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a catalog entry owned by a seller. Quantity is live stock and is
// decremented by checkout.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Price       float64            `bson:"price"`
	Quantity    int                `bson:"quantity"`
	SellerEmail string             `bson:"seller_email"`
}
