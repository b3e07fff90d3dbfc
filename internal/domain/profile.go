package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role distinguishes the two kinds of marketplace accounts.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Profile is a registered marketplace account. Buyers carry a balance and a
// cart; sellers are referenced from inventory by their lower-cased email.
type Profile struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"pwd"`
	Phone    *int64             `bson:"phno"`
	Address  *string            `bson:"addr"`
	Role     Role               `bson:"role"`
	Balance  float64            `bson:"balance"`
	Cart     []CartLine         `bson:"cart"`
}

// CartLine is a snapshot-priced request for N units of a product. Name, price
// and seller email are captured at add-to-cart time and are not refreshed;
// only stock and balance are re-validated at checkout.
type CartLine struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	SellerEmail string  `bson:"seller_email" json:"seller_email"`
}

// ProfileUpdate holds the optional fields of an update_personal_details call.
// Nil means "keep the current value".
type ProfileUpdate struct {
	Name    *string
	Phone   *int64
	Address *string
}
