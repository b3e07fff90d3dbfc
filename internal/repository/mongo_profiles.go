package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

type mongoProfiles struct {
	collection *mongo.Collection
}

func NewProfiles(db *mongo.Database) ProfileRepository {
	return &mongoProfiles{collection: db.Collection("profile")}
}

// nameFilter matches the whole name, case-insensitive, ignoring surrounding
// whitespace in the input.
func nameFilter(name string) bson.M {
	return bson.M{"name": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$",
		"$options": "i",
	}}
}

func (m *mongoProfiles) FindEmailByName(ctx context.Context, name string) (string, error) {
	var profile domain.Profile
	err := m.collection.FindOne(ctx, nameFilter(name)).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNameNotFound
		}
		return "", fmt.Errorf("failed to resolve name: %w", err)
	}
	return strings.ToLower(profile.Email), nil
}

func (m *mongoProfiles) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var profile domain.Profile
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (m *mongoProfiles) GetBuyerByName(ctx context.Context, name string) (*domain.Profile, error) {
	filter := nameFilter(name)
	filter["role"] = bson.M{"$regex": "^buyer$", "$options": "i"}

	var profile domain.Profile
	err := m.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNameNotFound
		}
		return nil, fmt.Errorf("failed to get buyer: %w", err)
	}
	return &profile, nil
}

func (m *mongoProfiles) CountByName(ctx context.Context, name string) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func (m *mongoProfiles) FindByCredentials(ctx context.Context, email, password string) (*domain.Profile, error) {
	var profile domain.Profile
	err := m.collection.FindOne(ctx, bson.M{"email": email, "pwd": password}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile by credentials: %w", err)
	}
	return &profile, nil
}

func (m *mongoProfiles) Insert(ctx context.Context, profile *domain.Profile) (string, error) {
	result, err := m.collection.InsertOne(ctx, profile)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to insert profile: %w", err)
	}
	return objectIDHex(result.InsertedID), nil
}

func (m *mongoProfiles) UpdateDetails(ctx context.Context, email, password string, upd domain.ProfileUpdate) (bool, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Phone != nil {
		set["phno"] = *upd.Phone
	}
	if upd.Address != nil {
		set["addr"] = *upd.Address
	}
	if len(set) == 0 {
		return false, nil
	}

	result, err := m.collection.UpdateOne(ctx, bson.M{"email": email, "pwd": password}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to update profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, ErrProfileNotFound
	}
	return result.ModifiedCount > 0, nil
}

func (m *mongoProfiles) CreditBalance(ctx context.Context, email string, amount float64) (float64, error) {
	var updated domain.Profile
	err := m.collection.FindOneAndUpdate(
		ctx,
		bson.M{"email": email},
		bson.M{"$inc": bson.M{"balance": amount}},
		findOneAndUpdateReturnAfter(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrProfileNotFound
		}
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}
	return updated.Balance, nil
}

func (m *mongoProfiles) DebitBalance(ctx context.Context, email string, amount float64) error {
	// Conditional debit: only matches while the balance still covers the
	// amount, so concurrent checkouts cannot drive it negative.
	filter := bson.M{"email": email, "balance": bson.M{"$gte": amount}}
	result, err := m.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"balance": -amount}})
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (m *mongoProfiles) PushCartLines(ctx context.Context, email string, lines []domain.CartLine) error {
	update := bson.M{"$push": bson.M{"cart": bson.M{"$each": lines}}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("failed to push cart lines: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (m *mongoProfiles) PullCartLine(ctx context.Context, email, productID string) error {
	update := bson.M{"$pull": bson.M{"cart": bson.M{"product_id": productID}}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("failed to pull cart line: %w", err)
	}
	if result.ModifiedCount == 0 {
		return ErrItemNotInCart
	}
	return nil
}

func (m *mongoProfiles) ClearCart(ctx context.Context, email string) error {
	update := bson.M{"$set": bson.M{"cart": []domain.CartLine{}}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}
