package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderComputesTotal(t *testing.T) {
	items := []LineItem{
		{ItemID: "m1", Name: "Veg Sandwich", Price: 40, Qty: 2},
		{ItemID: "m4", Name: "Lemon Soda", Price: 25, Qty: 1},
	}

	order, err := NewOrder("u-student", "Demo Student", items, 19, PaymentPayOnPickup, nil)
	require.NoError(t, err)

	assert.Equal(t, 105, order.Total)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 19, order.ETAMinutes)
	assert.Len(t, order.PickupToken, 32)
	assert.Nil(t, order.PickupTokenRedeemedAt)
}

func TestNewOrderClampsETA(t *testing.T) {
	items := []LineItem{{ItemID: "m4", Name: "Lemon Soda", Price: 25, Qty: 1}}

	order, err := NewOrder("u-student", "Demo Student", items, 3, PaymentPayOnPickup, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, order.ETAMinutes)
}

func TestNewOrderRejectsEmptyCart(t *testing.T) {
	_, err := NewOrder("u-student", "Demo Student", nil, 0, PaymentPayOnPickup, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewOrderRejectsNonPositiveQty(t *testing.T) {
	items := []LineItem{{ItemID: "m1", Name: "Veg Sandwich", Price: 40, Qty: 0}}

	_, err := NewOrder("u-student", "Demo Student", items, 0, PaymentPayOnPickup, nil)

	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestOrderTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := NewPickupToken()
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestTransitionToForwardOnly(t *testing.T) {
	items := []LineItem{{ItemID: "m1", Name: "Veg Sandwich", Price: 40, Qty: 1}}
	order, err := NewOrder("u-student", "Demo Student", items, 8, PaymentPayOnPickup, nil)
	require.NoError(t, err)

	require.NoError(t, order.TransitionTo(StatusPreparing))
	require.NoError(t, order.TransitionTo(StatusReady))

	var conflict *ConflictError
	assert.ErrorAs(t, order.TransitionTo(StatusPending), &conflict)
	assert.Equal(t, StatusReady, order.Status)
}

func TestTransitionSkipsAreAllowed(t *testing.T) {
	items := []LineItem{{ItemID: "m1", Name: "Veg Sandwich", Price: 40, Qty: 1}}
	order, err := NewOrder("u-student", "Demo Student", items, 8, PaymentPayOnPickup, nil)
	require.NoError(t, err)

	assert.NoError(t, order.TransitionTo(StatusReady))
}

func TestCompleteIsTerminal(t *testing.T) {
	items := []LineItem{{ItemID: "m1", Name: "Veg Sandwich", Price: 40, Qty: 1}}
	order, err := NewOrder("u-student", "Demo Student", items, 8, PaymentPayOnPickup, nil)
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, order.Complete(at))
	assert.Equal(t, StatusCompleted, order.Status)
	require.NotNil(t, order.PickupTokenRedeemedAt)
	assert.Equal(t, at, *order.PickupTokenRedeemedAt)

	assert.ErrorIs(t, order.Complete(at), ErrAlreadyCompleted)
	assert.ErrorIs(t, order.TransitionTo(StatusReady), ErrAlreadyCompleted)
}
