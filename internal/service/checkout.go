package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/thithikshaslt/mcp-server/internal/domain"
	"github.com/thithikshaslt/mcp-server/internal/repository"
)

// Checkout orchestrates order placement: validate the whole cart against
// pre-commit state, then run the commit phase as a sequence of single-document
// writes with compensating actions. The store offers no multi-document
// transaction, so the commit is a small saga: debit, decrement per line,
// append orders, append payments, clear cart — undone in reverse on failure.
type Checkout struct {
	profiles  repository.ProfileRepository
	inventory repository.InventoryRepository
	ledger    repository.LedgerRepository
	attempts  repository.CheckoutRepository
	identity  *Identity
	log       zerolog.Logger
}

func NewCheckout(
	profiles repository.ProfileRepository,
	inventory repository.InventoryRepository,
	ledger repository.LedgerRepository,
	attempts repository.CheckoutRepository,
	identity *Identity,
	log zerolog.Logger,
) *Checkout {
	return &Checkout{
		profiles:  profiles,
		inventory: inventory,
		ledger:    ledger,
		attempts:  attempts,
		identity:  identity,
		log:       log,
	}
}

// CheckoutResult is the outcome of a successful (or replayed) place_order.
type CheckoutResult struct {
	Total    float64
	Replayed bool
}

// PlaceOrder settles the buyer's cart. idempotencyKey may be empty; a key
// that already completed replays the recorded result without touching any
// document. The replay check runs before the empty-cart check: the retry
// that needs it is exactly the one whose first success emptied the cart.
func (s *Checkout) PlaceOrder(ctx context.Context, buyerName, idempotencyKey string) (*CheckoutResult, error) {
	email, err := s.identity.ResolveEmail(ctx, buyerName)
	if err != nil {
		return nil, err
	}

	buyer, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var retryExisting bool
	if idempotencyKey != "" {
		replay, retry, err := s.checkAttempt(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		retryExisting = retry
	}

	if len(buyer.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.claimAttempt(ctx, email, &idempotencyKey, retryExisting); err != nil {
		return nil, err
	}

	total, err := s.validate(ctx, buyer)
	if err != nil {
		s.failAttempt(ctx, idempotencyKey, err)
		return nil, err
	}

	totalAmount := total.InexactFloat64()
	if err := s.commit(ctx, email, buyer.Cart, totalAmount); err != nil {
		s.failAttempt(ctx, idempotencyKey, err)
		return nil, err
	}

	if err := s.attempts.MarkCompleted(ctx, idempotencyKey, totalAmount, "order placed"); err != nil {
		// The order settled; a stale attempt record only risks a replayed
		// retry being treated as new, which the unique key index still guards.
		s.log.Error().Err(err).Str("key", idempotencyKey).Msg("failed to complete checkout attempt record")
	}

	s.log.Info().
		Str("buyer", email).
		Float64("total", totalAmount).
		Int("lines", len(buyer.Cart)).
		Msg("order placed")

	return &CheckoutResult{Total: totalAmount}, nil
}

// checkAttempt looks up a caller-supplied idempotency key. It returns a
// non-nil result when the key already completed, and retry=true when a
// failed attempt may run again under the same key.
func (s *Checkout) checkAttempt(ctx context.Context, key string) (*CheckoutResult, bool, error) {
	attempt, err := s.attempts.GetByKey(ctx, key)
	if errors.Is(err, repository.ErrAttemptNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	switch attempt.Status {
	case domain.AttemptCompleted:
		s.log.Info().Str("key", key).Msg("duplicate checkout detected, replaying recorded result")
		return &CheckoutResult{Total: attempt.Total, Replayed: true}, false, nil
	case domain.AttemptPending:
		return nil, false, ErrCheckoutInProgress
	default:
		return nil, true, nil
	}
}

// claimAttempt registers this attempt's idempotency key, generating a fresh
// key when the caller supplied none.
func (s *Checkout) claimAttempt(ctx context.Context, email string, key *string, retryExisting bool) error {
	if retryExisting {
		return s.attempts.MarkPending(ctx, *key)
	}
	if *key == "" {
		*key = uuid.NewString()
	}
	return s.attempts.Create(ctx, &domain.CheckoutAttempt{
		Key:        *key,
		BuyerEmail: email,
		Status:     domain.AttemptPending,
	})
}

func (s *Checkout) failAttempt(ctx context.Context, key string, cause error) {
	if err := s.attempts.MarkFailed(ctx, key, cause.Error()); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to record checkout failure")
	}
}

// validate re-fetches every product and checks stock and balance against the
// state as it stands before any mutation. The price charged stays the
// cart-time snapshot; only existence and stock are re-validated.
func (s *Checkout) validate(ctx context.Context, buyer *domain.Profile) (decimal.Decimal, error) {
	for _, line := range buyer.Cart {
		product, err := s.inventory.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) || errors.Is(err, repository.ErrInvalidProductID) {
				return decimal.Zero, &ProductVanishedError{ProductID: line.ProductID}
			}
			return decimal.Zero, err
		}

		if line.Quantity > product.Quantity {
			return decimal.Zero, &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Available:   product.Quantity,
				Requested:   line.Quantity,
			}
		}
	}

	total := domain.CartTotal(buyer.Cart)
	if total.GreaterThan(decimal.NewFromFloat(buyer.Balance)) {
		return decimal.Zero, &InsufficientBalanceError{
			Required:  total.InexactFloat64(),
			Available: buyer.Balance,
		}
	}
	return total, nil
}

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// commit runs the mutation sequence. On failure before the ledger rows
// exist, completed steps are undone in LIFO order; ledger inserts have no
// undo (the ledger is append-only), so a failure at the order or payment
// insert reports residual drift.
func (s *Checkout) commit(ctx context.Context, email string, cart []domain.CartLine, total float64) error {
	var undos []compensation

	fail := func(step string, cause error, ledgerTouched bool) error {
		compErr := s.rollback(ctx, undos)
		pce := &PartialCommitError{
			Step:            step,
			Cause:           cause,
			Compensated:     compErr == nil && !ledgerTouched,
			CompensationErr: compErr,
		}
		event := s.log.Error().Err(cause).Str("step", step).Bool("compensated", pce.Compensated)
		if compErr != nil {
			event = event.AnErr("compensation_error", compErr)
		}
		event.Msg("checkout commit failed")
		return pce
	}

	if err := s.profiles.DebitBalance(ctx, email, total); err != nil {
		// First mutation: nothing applied yet, so this is a plain failure.
		return fmt.Errorf("debit balance: %w", err)
	}
	undos = append(undos, compensation{
		name: "re-credit balance",
		undo: func(ctx context.Context) error {
			_, err := s.profiles.CreditBalance(ctx, email, total)
			return err
		},
	})

	for _, line := range cart {
		if err := s.inventory.DecrementQuantity(ctx, line.ProductID, line.Quantity); err != nil {
			return fail("decrement inventory", err, false)
		}
		l := line
		undos = append(undos, compensation{
			name: "restore stock " + l.ProductID,
			undo: func(ctx context.Context) error {
				return s.inventory.IncrementQuantity(ctx, l.ProductID, l.Quantity)
			},
		})
	}

	if err := s.ledger.InsertOrders(ctx, domain.OrdersFromCart(email, cart)); err != nil {
		return fail("record orders", err, true)
	}

	if err := s.ledger.InsertPayments(ctx, domain.PaymentsBySeller(email, cart)); err != nil {
		return fail("record payments", err, true)
	}

	// The checkout is settled once the ledger rows exist. A clear-cart
	// failure rolls forward, never back: undoing the debit here would
	// contradict the recorded orders and payments.
	if err := s.profiles.ClearCart(ctx, email); err != nil {
		if retryErr := s.profiles.ClearCart(context.WithoutCancel(ctx), email); retryErr != nil {
			s.log.Error().Err(retryErr).Str("buyer", email).Msg("cart not cleared after settled checkout")
		}
	}

	return nil
}

// rollback runs compensations newest-first. It keeps going past individual
// failures and reports them joined, since every skipped undo is state drift.
func (s *Checkout) rollback(ctx context.Context, undos []compensation) error {
	// Compensation must run even when the call's context is already gone.
	ctx = context.WithoutCancel(ctx)

	var errs []error
	for i := len(undos) - 1; i >= 0; i-- {
		s.log.Warn().Str("compensation", undos[i].name).Msg("compensating checkout step")
		if err := undos[i].undo(ctx); err != nil {
			s.log.Error().Err(err).Str("compensation", undos[i].name).Msg("compensation failed")
			errs = append(errs, fmt.Errorf("%s: %w", undos[i].name, err))
		}
	}
	return errors.Join(errs...)
}
