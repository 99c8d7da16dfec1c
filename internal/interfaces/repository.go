package interfaces

import (
	"context"
	"time"

	"github.com/queueless/canteen/internal/domain"
)

// MenuRepository owns the catalog and its stock counts. Deduct is
// atomic per item: concurrent deductions against the same item are
// serialized, the sum of successful deductions never exceeds stock,
// and a deduction that cannot be satisfied leaves the item untouched.
type MenuRepository interface {
	List(ctx context.Context) ([]*domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, item *domain.MenuItem) error
	Update(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
	SetStockAndAvailability(ctx context.Context, id string, stock int, available bool) (*domain.MenuItem, error)
	Deduct(ctx context.Context, id string, qty int) error
}

// OrderRepository persists the order ledger. Create re-validates
// stock and availability for every line inside the same atomic unit
// as the insert and assigns the order number from a monotonic
// sequence there; on any failure nothing is written. Complete deducts
// stock for every line item, sets Completed and records the
// redemption timestamp as one unit, failing wholesale with
// insufficient stock and leaving the order unchanged.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByToken(ctx context.Context, token string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	Complete(ctx context.Context, id string, at time.Time) (*domain.Order, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, intent *domain.PaymentIntent) error
	Get(ctx context.Context, id string) (*domain.PaymentIntent, error)
	MarkPaid(ctx context.Context, id string, at time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
