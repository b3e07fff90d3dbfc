package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// ErrNoValidItems is returned by AddItems when every requested line was
// dropped (unknown product or non-positive quantity).
var ErrNoValidItems = errors.New("no valid items to add to cart")

// Cart covers cart reads and mutations. Product name, price and seller email
// are snapshotted onto the cart line at add time.
type Cart struct {
	profiles  repository.ProfileRepository
	inventory repository.InventoryRepository
	identity  *Identity
	log       zerolog.Logger
}

func NewCart(profiles repository.ProfileRepository, inventory repository.InventoryRepository, identity *Identity, log zerolog.Logger) *Cart {
	return &Cart{
		profiles:  profiles,
		inventory: inventory,
		identity:  identity,
		log:       log,
	}
}

// View returns the buyer profile holding the cart, matched by name.
func (s *Cart) View(ctx context.Context, buyerName string) (*domain.Profile, error) {
	return s.profiles.GetBuyerByName(ctx, buyerName)
}

// AddItem snapshots one product into the buyer's cart.
func (s *Cart) AddItem(ctx context.Context, buyerName, productID string, quantity int) (*domain.CartLine, error) {
	email, err := s.identity.ResolveEmail(ctx, buyerName)
	if err != nil {
		return nil, err
	}

	product, err := s.inventory.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	line := snapshotLine(product, quantity)
	if err := s.profiles.PushCartLines(ctx, email, []domain.CartLine{line}); err != nil {
		return nil, err
	}
	return &line, nil
}

// ItemRequest is one line of a batch add_to_cart call.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// AddItems adds a batch of products, silently skipping unknown products and
// non-positive quantities. Errors only when nothing valid remains.
func (s *Cart) AddItems(ctx context.Context, buyerName string, items []ItemRequest) ([]domain.CartLine, error) {
	email, err := s.identity.ResolveEmail(ctx, buyerName)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		product, err := s.inventory.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
				s.log.Debug().Str("product_id", item.ProductID).Msg("skipping unknown product in batch add")
				continue
			}
			return nil, err
		}
		lines = append(lines, snapshotLine(product, item.Quantity))
	}

	if len(lines) == 0 {
		return nil, ErrNoValidItems
	}

	if err := s.profiles.PushCartLines(ctx, email, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveItem pulls every cart line holding the given product id.
func (s *Cart) RemoveItem(ctx context.Context, buyerName, productID string) error {
	email, err := s.identity.ResolveEmail(ctx, buyerName)
	if err != nil {
		return err
	}
	return s.profiles.PullCartLine(ctx, email, productID)
}

func snapshotLine(product *domain.Product, quantity int) domain.CartLine {
	return domain.CartLine{
		ProductID:   product.ID.Hex(),
		Name:        product.Name,
		Price:       product.Price,
		Quantity:    quantity,
		SellerEmail: product.SellerEmail,
	}
}
