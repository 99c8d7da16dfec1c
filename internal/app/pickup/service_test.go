package pickup

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/adapter/memory"
	"github.com/queueless/canteen/internal/app/order"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []interfaces.StatusUpdateMessage
}

func (p *recordingPublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

type fixture struct {
	service   *Service
	orders    *order.Service
	menuRepo  interfaces.MenuRepository
	publisher *recordingPublisher
	student   *domain.User
	vendor    *domain.User
	admin     *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.Seed()

	publisher := &recordingPublisher{}
	orderRepo := memory.NewOrderRepository(store)
	menuRepo := memory.NewMenuRepository(store)
	paymentRepo := memory.NewPaymentRepository(store)

	users := domain.DefaultUsers()
	return &fixture{
		service:   NewService(orderRepo, publisher, logger.Nop()),
		orders:    order.NewService(orderRepo, menuRepo, paymentRepo, publisher, logger.Nop()),
		menuRepo:  menuRepo,
		publisher: publisher,
		student:   &users[2],
		vendor:    &users[1],
		admin:     &users[0],
	}
}

// placeReadyOrder places an order as the student and walks it to Ready.
func (f *fixture) placeReadyOrder(t *testing.T, lines ...interfaces.OrderLineCommand) *domain.Order {
	t.Helper()
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.student, interfaces.PlaceOrderCommand{Items: lines})
	require.NoError(t, err)

	ready, err := f.orders.UpdateStatus(ctx, f.vendor, placed.ID, "Ready")
	require.NoError(t, err)
	return ready
}

func TestRedeemByToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeReadyOrder(t, interfaces.OrderLineCommand{ItemID: "m2", Qty: 3})

	redeemed, err := f.service.RedeemByToken(ctx, f.vendor, order.PickupToken)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, redeemed.Status)
	assert.NotNil(t, redeemed.PickupTokenRedeemedAt)

	item, err := f.menuRepo.Get(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Stock) // 18 - 3
}

func TestRedeemTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeReadyOrder(t, interfaces.OrderLineCommand{ItemID: "m2", Qty: 3})

	_, err := f.service.RedeemByToken(ctx, f.vendor, order.PickupToken)
	require.NoError(t, err)

	_, err = f.service.RedeemByToken(ctx, f.vendor, order.PickupToken)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	// Stock deducted exactly once.
	item, err := f.menuRepo.Get(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, 15, item.Stock)
}

func TestRedeemRequiresReady(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.orders.PlaceOrder(ctx, f.student, interfaces.PlaceOrderCommand{
		Items: []interfaces.OrderLineCommand{{ItemID: "m1", Qty: 1}},
	})
	require.NoError(t, err)

	_, err = f.service.RedeemByToken(ctx, f.vendor, placed.PickupToken)
	assert.ErrorIs(t, err, domain.ErrOrderNotReady)

	_, err = f.orders.UpdateStatus(ctx, f.vendor, placed.ID, "Preparing")
	require.NoError(t, err)

	_, err = f.service.RedeemByToken(ctx, f.vendor, placed.PickupToken)
	assert.ErrorIs(t, err, domain.ErrOrderNotReady)
}

func TestRedeemUnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RedeemByToken(context.Background(), f.vendor, "deadbeef")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRedeemEmptyToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RedeemByToken(context.Background(), f.vendor, "")
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRedeemRejectsStudents(t *testing.T) {
	f := newFixture(t)

	order := f.placeReadyOrder(t, interfaces.OrderLineCommand{ItemID: "m1", Qty: 1})

	_, err := f.service.RedeemByToken(context.Background(), f.student, order.PickupToken)
	var authz *domain.AuthorizationError
	assert.ErrorAs(t, err, &authz)
}

func TestRedeemOrderChecksToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeReadyOrder(t, interfaces.OrderLineCommand{ItemID: "m1", Qty: 1})

	_, err := f.service.RedeemOrder(ctx, f.admin, order.ID, "wrong-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	redeemed, err := f.service.RedeemOrder(ctx, f.admin, order.ID, order.PickupToken)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, redeemed.Status)
}

func TestRedeemFailsWhenStockRanOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order := f.placeReadyOrder(t, interfaces.OrderLineCommand{ItemID: "m5", Qty: 10})

	// Stock drains between placement and pickup.
	_, err := f.menuRepo.SetStockAndAvailability(ctx, "m5", 4, true)
	require.NoError(t, err)

	_, err = f.service.RedeemByToken(ctx, f.vendor, order.PickupToken)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, "Fruit Bowl")

	// The order stays Ready and the remaining stock is untouched.
	item, err := f.menuRepo.Get(ctx, "m5")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Stock)
}
