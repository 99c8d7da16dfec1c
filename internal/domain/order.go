package domain

import (
	"time"

	"github.com/google/uuid"
)

// minETAMinutes is the floor applied to the derived preparation estimate.
const minETAMinutes = 5

// Order is a ledger entry. Line items snapshot name and price at
// creation time so later catalog edits never corrupt history. Total
// and ETAMinutes are computed once at creation and never recomputed.
type Order struct {
	ID                    string
	Number                string
	UserID                string
	CustomerName          string
	Items                 []LineItem
	Total                 int
	Status                Status
	CreatedAt             time.Time
	ETAMinutes            int
	PaymentMethod         PaymentMethod
	PaymentID             *string
	PickupToken           string
	PickupTokenIssuedAt   time.Time
	PickupTokenRedeemedAt *time.Time
}

// LineItem references a menu item by id but owns its own snapshot of
// name and price.
type LineItem struct {
	ItemID string
	Name   string
	Price  int
	Qty    int
}

// NewOrder assembles a pending order from already-resolved line items.
// rawETA is the summed prepTime*qty over the lines; it is clamped to
// the minimum here. The order number is assigned by the repository at
// insert time, inside the same atomic unit as the insert.
func NewOrder(userID, customerName string, items []LineItem, rawETA int, method PaymentMethod, paymentID *string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := 0
	for _, item := range items {
		if item.Qty <= 0 {
			return nil, NewValidation("item quantity must be positive")
		}
		total += item.Price * item.Qty
	}

	eta := rawETA
	if eta < minETAMinutes {
		eta = minETAMinutes
	}

	now := time.Now().UTC()
	return &Order{
		ID:                  uuid.NewString(),
		UserID:              userID,
		CustomerName:        customerName,
		Items:               items,
		Total:               total,
		Status:              StatusPending,
		CreatedAt:           now,
		ETAMinutes:          eta,
		PaymentMethod:       method,
		PaymentID:           paymentID,
		PickupToken:         NewPickupToken(),
		PickupTokenIssuedAt: now,
	}, nil
}

// Complete marks the order picked up. Stock deduction is handled by
// the repository in the same atomic unit.
func (o *Order) Complete(at time.Time) error {
	if o.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	o.Status = StatusCompleted
	redeemed := at
	o.PickupTokenRedeemedAt = &redeemed
	return nil
}

// TransitionTo moves the order to a new status via the staff path.
func (o *Order) TransitionTo(next Status) error {
	if o.Status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if !o.Status.CanTransitionTo(next) {
		return NewConflict("cannot move order from " + string(o.Status) + " to " + string(next))
	}
	o.Status = next
	return nil
}
