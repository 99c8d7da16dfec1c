package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type orderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) interfaces.OrderRepository {
	return &orderRepository{store: store}
}

// Create re-validates every line against current stock and assigns
// the order number from the store sequence, all under the store lock,
// so placement is serializable with every deduction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, line := range order.Items {
		item, ok := r.store.menu[line.ItemID]
		if !ok {
			return domain.NewValidation("invalid item in cart")
		}
		if err := item.CanFulfil(line.Qty); err != nil {
			return err
		}
	}

	r.store.orderSeq++
	order.Number = fmt.Sprintf("%04d", r.store.orderSeq)

	stored := cloneOrder(order)
	r.store.orders[stored.ID] = stored
	r.store.byToken[stored.PickupToken] = stored.ID
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) GetByToken(ctx context.Context, token string) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.byToken[token]
	if !ok {
		return nil, domain.NewNotFound("order", "")
	}
	return cloneOrder(r.store.orders[id]), nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	orders := make([]*domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		orders = append(orders, cloneOrder(order))
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var orders []*domain.Order
	for _, order := range r.store.orders {
		if order.UserID == userID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sortNewestFirst(orders)
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.NewNotFound("order", id)
	}
	if order.Status == domain.StatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	order.Status = status
	return nil
}

// Complete deducts stock for every line item and marks the order
// picked up as one unit. Stock is checked for all lines before any is
// touched, so a failure leaves both order and catalog unchanged.
func (r *orderRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	if order.Status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	for _, line := range order.Items {
		item, ok := r.store.menu[line.ItemID]
		if !ok {
			return nil, domain.NewConflict("invalid item in order")
		}
		if item.Stock < line.Qty {
			return nil, domain.NewInsufficientStock(item.Name)
		}
	}
	for _, line := range order.Items {
		r.store.menu[line.ItemID].Stock -= line.Qty
	}

	if err := order.Complete(at); err != nil {
		return nil, err
	}
	return cloneOrder(order), nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Number > orders[j].Number
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
