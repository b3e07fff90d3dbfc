package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// ErrInvalidField is returned by UpdateProduct for fields outside the
// editable set.
var ErrInvalidField = errors.New("invalid field: choose from 'name', 'price' or 'quantity'")

// Catalog covers the seller-side product operations plus the buyer-side
// catalog reads.
type Catalog struct {
	inventory repository.InventoryRepository
	identity  *Identity
	log       zerolog.Logger
}

func NewCatalog(inventory repository.InventoryRepository, identity *Identity, log zerolog.Logger) *Catalog {
	return &Catalog{
		inventory: inventory,
		identity:  identity,
		log:       log,
	}
}

// ProductInput is one product of an add_product / add_multiple_products call.
type ProductInput struct {
	Name     string
	Price    float64
	Quantity int
}

func (s *Catalog) AddProduct(ctx context.Context, sellerEmail string, in ProductInput) (*domain.Product, error) {
	product := newProduct(sellerEmail, in)
	id, err := s.inventory.Insert(ctx, product)
	if err != nil {
		return nil, err
	}

	inserted, err := s.inventory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", id).Str("seller", product.SellerEmail).Msg("product added")
	return inserted, nil
}

func (s *Catalog) AddProducts(ctx context.Context, sellerEmail string, ins []ProductInput) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ins))
	for _, in := range ins {
		products = append(products, *newProduct(sellerEmail, in))
	}

	ids, err := s.inventory.InsertMany(ctx, products)
	if err != nil {
		return nil, err
	}

	inserted := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.inventory.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, *p)
	}
	s.log.Info().Int("count", len(inserted)).Msg("products added")
	return inserted, nil
}

// UpdateProduct sets one of name, price or quantity from its string form.
func (s *Catalog) UpdateProduct(ctx context.Context, productID, field, newValue string) (bool, error) {
	var value any
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "name":
		value = strings.TrimSpace(newValue)
	case "price":
		price, err := strconv.ParseFloat(newValue, 64)
		if err != nil {
			return false, errors.New("price must be a number")
		}
		value = price
	case "quantity":
		quantity, err := strconv.Atoi(newValue)
		if err != nil {
			return false, errors.New("quantity must be an integer")
		}
		value = quantity
	default:
		return false, ErrInvalidField
	}

	return s.inventory.UpdateField(ctx, productID, strings.ToLower(strings.TrimSpace(field)), value)
}

func (s *Catalog) DeleteProduct(ctx context.Context, productID string) error {
	return s.inventory.Delete(ctx, productID)
}

func (s *Catalog) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.inventory.GetByID(ctx, productID)
}

func (s *Catalog) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.inventory.List(ctx)
}

// ListSellerProducts resolves the seller name and lists that seller's
// inventory.
func (s *Catalog) ListSellerProducts(ctx context.Context, sellerName string) (string, []domain.Product, error) {
	email, err := s.identity.ResolveEmail(ctx, sellerName)
	if err != nil {
		return "", nil, err
	}

	products, err := s.inventory.ListBySeller(ctx, email)
	if err != nil {
		return "", nil, err
	}
	return email, products, nil
}

func newProduct(sellerEmail string, in ProductInput) *domain.Product {
	return &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Quantity:    in.Quantity,
		SellerEmail: strings.ToLower(strings.TrimSpace(sellerEmail)),
	}
}
