package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thithikshaslt/mcp-server/internal/cache"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

func newCartFixture(profiles *mockProfiles, inventory *mockInventory) *Cart {
	identity := NewIdentity(profiles, cache.Noop{}, zerolog.Nop())
	return NewCart(profiles, inventory, identity, zerolog.Nop())
}

func TestAddItem_SnapshotsProductIntoCart(t *testing.T) {
	p := seedProduct("keyboard", 10, 5, "s1@x.com")
	ana := seedBuyer("Ana", "ana@x.com", 100)
	cart := newCartFixture(newMockProfiles(ana), newMockInventory(p))

	line, err := cart.AddItem(context.Background(), "Ana", p.ID.Hex(), 2)
	require.NoError(t, err)

	assert.Equal(t, p.ID.Hex(), line.ProductID)
	assert.Equal(t, "keyboard", line.Name)
	assert.Equal(t, 10.0, line.Price)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "s1@x.com", line.SellerEmail)

	require.Len(t, ana.Cart, 1)
	assert.Equal(t, *line, ana.Cart[0])

	// Adding does not reserve stock.
	assert.Equal(t, 5, p.Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	ana := seedBuyer("Ana", "ana@x.com", 100)
	cart := newCartFixture(newMockProfiles(ana), newMockInventory())

	_, err := cart.AddItem(context.Background(), "Ana", primitive.NewObjectID().Hex(), 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.Empty(t, ana.Cart)
}

func TestAddItems_SkipsInvalidLines(t *testing.T) {
	p := seedProduct("keyboard", 10, 5, "s1@x.com")
	ana := seedBuyer("Ana", "ana@x.com", 100)
	cart := newCartFixture(newMockProfiles(ana), newMockInventory(p))

	lines, err := cart.AddItems(context.Background(), "Ana", []ItemRequest{
		{ProductID: p.ID.Hex(), Quantity: 2},
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1}, // unknown
		{ProductID: p.ID.Hex(), Quantity: 0},                    // non-positive
		{ProductID: "", Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Len(t, ana.Cart, 1)
}

func TestAddItems_NothingValid(t *testing.T) {
	ana := seedBuyer("Ana", "ana@x.com", 100)
	cart := newCartFixture(newMockProfiles(ana), newMockInventory())

	_, err := cart.AddItems(context.Background(), "Ana", []ItemRequest{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
		{ProductID: "", Quantity: 2},
	})
	assert.ErrorIs(t, err, ErrNoValidItems)
	assert.Empty(t, ana.Cart)
}

func TestRemoveItem_PullsEveryLineOfProduct(t *testing.T) {
	p1 := seedProduct("keyboard", 10, 5, "s1@x.com")
	p2 := seedProduct("mouse", 5, 5, "s1@x.com")
	ana := seedBuyer("Ana", "ana@x.com", 100, lineFor(p1, 1), lineFor(p1, 2), lineFor(p2, 1))
	cart := newCartFixture(newMockProfiles(ana), newMockInventory(p1, p2))

	err := cart.RemoveItem(context.Background(), "Ana", p1.ID.Hex())
	require.NoError(t, err)

	require.Len(t, ana.Cart, 1)
	assert.Equal(t, p2.ID.Hex(), ana.Cart[0].ProductID)
}

func TestRemoveItem_NotInCart(t *testing.T) {
	ana := seedBuyer("Ana", "ana@x.com", 100)
	cart := newCartFixture(newMockProfiles(ana), newMockInventory())

	err := cart.RemoveItem(context.Background(), "Ana", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, repository.ErrItemNotInCart)
}

func TestView_ReturnsBuyerProfile(t *testing.T) {
	p := seedProduct("keyboard", 10, 5, "s1@x.com")
	ana := seedBuyer("Ana", "ana@x.com", 100, lineFor(p, 1))
	cart := newCartFixture(newMockProfiles(ana), newMockInventory(p))

	profile, err := cart.View(context.Background(), "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", profile.Email)
	assert.Len(t, profile.Cart, 1)
}

func TestView_UnknownBuyer(t *testing.T) {
	cart := newCartFixture(newMockProfiles(), newMockInventory())

	_, err := cart.View(context.Background(), "Nobody")
	assert.ErrorIs(t, err, repository.ErrNameNotFound)
}
