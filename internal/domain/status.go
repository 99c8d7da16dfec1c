package domain

import "fmt"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

// statusRank orders the lifecycle. Transitions are forward-only.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusCompleted: 3,
}

// ParseStatus validates a status value received from a caller.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := statusRank[status]; !ok {
		return "", NewValidation(fmt.Sprintf("invalid status %q", s))
	}
	return status, nil
}

// CanTransitionTo reports whether a staff update from s to next is legal.
// Completed is terminal; backward moves are rejected.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type PaymentMethod string

const (
	PaymentPayOnPickup       PaymentMethod = "pay_on_pickup"
	PaymentRazorpaySimulated PaymentMethod = "razorpay_simulated"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentPayOnPickup:       "Pay on pickup",
	PaymentRazorpaySimulated: "Razorpay (simulated)",
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentPayOnPickup, nil
	}
	method := PaymentMethod(s)
	if _, ok := paymentLabels[method]; !ok {
		return "", NewValidation(fmt.Sprintf("invalid payment method %q", s))
	}
	return method, nil
}

// Label returns the human-facing display string for the method.
func (m PaymentMethod) Label() string {
	return paymentLabels[m]
}

// RequiresConfirmation reports whether orders using this method must
// reference a paid payment intent before they are admitted.
func (m PaymentMethod) RequiresConfirmation() bool {
	return m == PaymentRazorpaySimulated
}
