package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleVendor  Role = "vendor"
	RoleStudent Role = "student"
)

// User is the resolved identity supplied by the session gate. The
// core trusts it as authenticated and only enforces per-operation
// role policy.
type User struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     Role
}

func NewUser(name, email, password string, role Role) (*User, error) {
	if name == "" || email == "" || password == "" {
		return nil, NewValidation("missing fields")
	}
	return &User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	}, nil
}

// IsStaff reports whether the user may see and manage all orders.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleVendor
}

// Session maps a bearer token to a user.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}

func NewSession(userID string) *Session {
	return &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Operation names every role-gated core call.
type Operation string

const (
	OpPlaceOrder     Operation = "place_order"
	OpUpdateStatus   Operation = "update_status"
	OpCompleteOrder  Operation = "complete_order"
	OpRedeemToken    Operation = "redeem_token"
	OpManageMenu     Operation = "manage_menu"
	OpAdjustStock    Operation = "adjust_stock"
	OpCreatePayment  Operation = "create_payment"
	OpConfirmPayment Operation = "confirm_payment"
	OpListAllOrders  Operation = "list_all_orders"
)

// rolePolicy is the single authorization table consulted once per
// call. Vendors may not set Completed directly; they redeem tokens.
var rolePolicy = map[Role]map[Operation]bool{
	RoleAdmin: {
		OpUpdateStatus:  true,
		OpCompleteOrder: true,
		OpRedeemToken:   true,
		OpManageMenu:    true,
		OpAdjustStock:   true,
		OpListAllOrders: true,
	},
	RoleVendor: {
		OpUpdateStatus:  true,
		OpRedeemToken:   true,
		OpAdjustStock:   true,
		OpListAllOrders: true,
	},
	RoleStudent: {
		OpPlaceOrder:     true,
		OpCreatePayment:  true,
		OpConfirmPayment: true,
	},
}

// Allowed consults the policy table.
func (r Role) Allowed(op Operation) bool {
	return rolePolicy[r][op]
}
