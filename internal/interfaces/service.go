package interfaces

import (
	"context"

	"github.com/queueless/canteen/internal/domain"
)

// Commands carried from the transport layer into the services.

type PlaceOrderCommand struct {
	Items         []OrderLineCommand
	PaymentMethod string
	PaymentID     *string
}

type OrderLineCommand struct {
	ItemID string
	Qty    int
}

type MenuItemCommand struct {
	Name      string
	Category  string
	Price     int
	PrepTime  int
	Stock     int
	Available bool
}

// UpdateMenuItemCommand carries a partial update; nil fields keep the
// current value.
type UpdateMenuItemCommand struct {
	Name      *string
	Category  *string
	Price     *int
	PrepTime  *int
	Stock     *int
	Available *bool
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

// AuthResult pairs a fresh session token with the resolved user.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Service contracts consumed by the HTTP adapter.

type OrderService interface {
	PlaceOrder(ctx context.Context, actor *domain.User, cmd PlaceOrderCommand) (*domain.Order, error)
	UpdateStatus(ctx context.Context, actor *domain.User, orderID, status string) (*domain.Order, error)
	ListOrders(ctx context.Context, actor *domain.User) ([]*domain.Order, error)
}

type PickupService interface {
	RedeemByToken(ctx context.Context, actor *domain.User, token string) (*domain.Order, error)
	RedeemOrder(ctx context.Context, actor *domain.User, orderID, token string) (*domain.Order, error)
}

type PaymentService interface {
	CreateIntent(ctx context.Context, actor *domain.User, amount int) (*domain.PaymentIntent, error)
	Confirm(ctx context.Context, actor *domain.User, paymentID string) (*domain.PaymentIntent, error)
}

type CatalogService interface {
	ListMenu(ctx context.Context) ([]*domain.MenuItem, error)
	CreateItem(ctx context.Context, actor *domain.User, cmd MenuItemCommand) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, actor *domain.User, id string, cmd UpdateMenuItemCommand) (*domain.MenuItem, error)
	DeleteItem(ctx context.Context, actor *domain.User, id string) error
	SetStockAndAvailability(ctx context.Context, actor *domain.User, id string, stock *int, available *bool) (*domain.MenuItem, error)
}

type AuthService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
