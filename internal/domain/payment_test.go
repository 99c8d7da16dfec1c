package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentIntent(t *testing.T) {
	intent, err := NewPaymentIntent("u-student", 105)
	require.NoError(t, err)

	assert.Equal(t, 105, intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
	assert.Equal(t, "razorpay_simulated", intent.Provider)
	assert.Equal(t, PaymentStatusCreated, intent.Status)
	assert.Nil(t, intent.PaidAt)
}

func TestNewPaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	var validation *ValidationError

	_, err := NewPaymentIntent("u-student", 0)
	assert.ErrorAs(t, err, &validation)

	_, err = NewPaymentIntent("u-student", -40)
	assert.ErrorAs(t, err, &validation)
}

func TestMarkPaidIsIdempotent(t *testing.T) {
	intent, err := NewPaymentIntent("u-student", 105)
	require.NoError(t, err)

	first := time.Now().UTC()
	intent.MarkPaid(first)
	require.NotNil(t, intent.PaidAt)
	assert.Equal(t, first, *intent.PaidAt)

	intent.MarkPaid(first.Add(time.Hour))
	assert.Equal(t, first, *intent.PaidAt)
	assert.Equal(t, PaymentStatusPaid, intent.Status)
}

func TestCovers(t *testing.T) {
	intent, err := NewPaymentIntent("u-student", 105)
	require.NoError(t, err)

	assert.ErrorIs(t, intent.Covers("u-student", 105), ErrPaymentNotPaid)

	intent.MarkPaid(time.Now().UTC())

	assert.NoError(t, intent.Covers("u-student", 105))
	assert.ErrorIs(t, intent.Covers("u-student", 104), ErrPaymentMismatch)

	var notFound *NotFoundError
	assert.ErrorAs(t, intent.Covers("u-other", 105), &notFound)
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleStudent.Allowed(OpPlaceOrder))
	assert.False(t, RoleStudent.Allowed(OpUpdateStatus))
	assert.False(t, RoleStudent.Allowed(OpRedeemToken))

	assert.True(t, RoleVendor.Allowed(OpUpdateStatus))
	assert.True(t, RoleVendor.Allowed(OpRedeemToken))
	assert.False(t, RoleVendor.Allowed(OpCompleteOrder))
	assert.False(t, RoleVendor.Allowed(OpPlaceOrder))

	assert.True(t, RoleAdmin.Allowed(OpCompleteOrder))
	assert.True(t, RoleAdmin.Allowed(OpManageMenu))
}
