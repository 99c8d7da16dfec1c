package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentIntent is a provisional payment record created before an
// order exists and confirmed before the order referencing it is
// admitted.
type PaymentIntent struct {
	ID        string
	UserID    string
	Amount    int
	Currency  string
	Provider  string
	Status    PaymentStatus
	CreatedAt time.Time
	PaidAt    *time.Time
}

func NewPaymentIntent(userID string, amount int) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, NewValidation("invalid amount")
	}
	return &PaymentIntent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Currency:  "INR",
		Provider:  string(PaymentRazorpaySimulated),
		Status:    PaymentStatusCreated,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkPaid confirms the intent. Re-confirmation is idempotent and
// never changes the amount.
func (p *PaymentIntent) MarkPaid(at time.Time) {
	if p.Status == PaymentStatusPaid {
		return
	}
	p.Status = PaymentStatusPaid
	paid := at
	p.PaidAt = &paid
}

// Covers validates the intent against the order it should admit: it
// must be confirmed and match the computed total exactly.
func (p *PaymentIntent) Covers(userID string, total int) error {
	if p.UserID != userID {
		return NewNotFound("payment", "")
	}
	if p.Status != PaymentStatusPaid {
		return ErrPaymentNotPaid
	}
	if p.Amount != total {
		return ErrPaymentMismatch
	}
	return nil
}
