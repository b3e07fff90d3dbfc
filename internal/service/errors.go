package service

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is the terminal informational result for a checkout against an
// empty cart. Nothing is written.
var ErrEmptyCart = errors.New("cart is empty, nothing to order")

// ProductVanishedError is returned when a cart line references a product that
// no longer exists in inventory at checkout time.
type ProductVanishedError struct {
	ProductID string
}

func (e *ProductVanishedError) Error() string {
	return fmt.Sprintf("product %s not found in inventory", e.ProductID)
}

// InsufficientStockError is returned when a cart line requests more units
// than live inventory holds. Checks run against pre-commit stock, so no line
// observes another line's decrement.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// InsufficientBalanceError is returned when the cart total exceeds the
// buyer's current balance.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: total cost %v exceeds balance %v",
		e.Required, e.Available)
}

// ErrCheckoutInProgress is returned when a place_order call reuses the
// idempotency key of an attempt that has not finished yet.
var ErrCheckoutInProgress = errors.New("a checkout with this idempotency key is already in progress")

// PartialCommitError reports that the commit phase mutated state and then
// failed. Completed steps are compensated in reverse order; Compensated is
// false when state drift remains (a compensation failed, or ledger records
// had already been written and cannot be removed).
type PartialCommitError struct {
	Step            string
	Cause           error
	Compensated     bool
	CompensationErr error
}

func (e *PartialCommitError) Error() string {
	if e.Compensated {
		return fmt.Sprintf("checkout aborted at %q (%v); all prior steps were rolled back", e.Step, e.Cause)
	}
	return fmt.Sprintf("checkout failed at %q (%v); state may be partially applied", e.Step, e.Cause)
}

func (e *PartialCommitError) Unwrap() error { return e.Cause }
