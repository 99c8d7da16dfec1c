package memory

import (
	"context"
	"time"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type paymentRepository struct {
	store *Store
}

func NewPaymentRepository(store *Store) interfaces.PaymentRepository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.payments[intent.ID] = clonePayment(intent)
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	intent, ok := r.store.payments[id]
	if !ok {
		return nil, domain.NewNotFound("payment", "")
	}
	return clonePayment(intent), nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	intent, ok := r.store.payments[id]
	if !ok {
		return domain.NewNotFound("payment", "")
	}
	intent.MarkPaid(at)
	return nil
}
