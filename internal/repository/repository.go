// Package repository provides typed accessors over the four superstore
// collections (profile, inventory, order, payment) plus the checkout attempt
// records used for idempotency.
package repository

import (
	"context"
	"errors"

	"github.com/thithikshaslt/mcp-server/internal/domain"
)

var (
	ErrNameNotFound      = errors.New("no profile with that name")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrEmailTaken        = errors.New("an account with that email already exists")
	ErrItemNotInCart     = errors.New("item not found in cart")
	ErrInvalidProductID  = errors.New("invalid product id")
	ErrInsufficientFunds = errors.New("balance is below the debit amount")
	ErrInsufficientStock = errors.New("stock is below the requested quantity")
	ErrAttemptNotFound   = errors.New("checkout attempt not found")
)

// ProfileRepository accesses buyer and seller accounts.
// Consumers define these interfaces, not the MongoDB implementation.
type ProfileRepository interface {
	// FindEmailByName resolves a name to an email, case-insensitive exact
	// match. Ambiguous names resolve to the first match the store returns.
	FindEmailByName(ctx context.Context, name string) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetBuyerByName(ctx context.Context, name string) (*domain.Profile, error)
	CountByName(ctx context.Context, name string) (int64, error)
	FindByCredentials(ctx context.Context, email, password string) (*domain.Profile, error)
	Insert(ctx context.Context, profile *domain.Profile) (string, error)
	UpdateDetails(ctx context.Context, email, password string, upd domain.ProfileUpdate) (bool, error)

	// CreditBalance adds amount unconditionally and returns the new balance.
	CreditBalance(ctx context.Context, email string, amount float64) (float64, error)
	// DebitBalance subtracts amount only when the current balance covers it,
	// so a balance can never go negative even under concurrent checkouts.
	DebitBalance(ctx context.Context, email string, amount float64) error

	PushCartLines(ctx context.Context, email string, lines []domain.CartLine) error
	PullCartLine(ctx context.Context, email, productID string) error
	ClearCart(ctx context.Context, email string) error
}

// InventoryRepository accesses the product catalog.
type InventoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerEmail string) ([]domain.Product, error)
	Insert(ctx context.Context, product *domain.Product) (string, error)
	InsertMany(ctx context.Context, products []domain.Product) ([]string, error)
	UpdateField(ctx context.Context, id, field string, value any) (bool, error)
	Delete(ctx context.Context, id string) error

	// DecrementQuantity subtracts only when current stock covers the amount.
	DecrementQuantity(ctx context.Context, id string, amount int) error
	// IncrementQuantity restores stock during commit compensation.
	IncrementQuantity(ctx context.Context, id string, amount int) error
}

// LedgerRepository appends settled order and payment records. There are no
// update or delete operations: the ledger is immutable once written.
type LedgerRepository interface {
	InsertOrders(ctx context.Context, orders []domain.Order) error
	InsertPayments(ctx context.Context, payments []domain.Payment) error
}

// CheckoutRepository stores per-attempt idempotency records.
type CheckoutRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.CheckoutAttempt, error)
	Create(ctx context.Context, attempt *domain.CheckoutAttempt) error
	MarkPending(ctx context.Context, key string) error
	MarkCompleted(ctx context.Context, key string, total float64, message string) error
	MarkFailed(ctx context.Context, key, reason string) error
}
