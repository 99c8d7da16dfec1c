package memory

import (
	"sync"

	"github.com/queueless/canteen/internal/domain"
)

// Store holds all collections behind one mutex. Every repository
// operation runs under the lock, which makes cross-item mutations
// atomic and deductions serializable per item without further
// machinery. Reads hand out copies so callers never alias live state.
type Store struct {
	mu sync.Mutex

	menu     map[string]*domain.MenuItem
	orders   map[string]*domain.Order
	byToken  map[string]string
	orderSeq int

	payments map[string]*domain.PaymentIntent
	users    map[string]*domain.User
	byEmail  map[string]string
	sessions map[string]*domain.Session
}

func NewStore() *Store {
	return &Store{
		menu:     make(map[string]*domain.MenuItem),
		orders:   make(map[string]*domain.Order),
		byToken:  make(map[string]string),
		payments: make(map[string]*domain.PaymentIntent),
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]string),
		sessions: make(map[string]*domain.Session),
	}
}

// Seed installs the default users and menu. Existing records with the
// same ids are overwritten.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range domain.DefaultUsers() {
		u := user
		s.users[u.ID] = &u
		s.byEmail[u.Email] = u.ID
	}
	for _, item := range domain.DefaultMenu() {
		m := item
		s.menu[m.ID] = &m
	}
}

func cloneMenuItem(item *domain.MenuItem) *domain.MenuItem {
	c := *item
	return &c
}

func cloneOrder(order *domain.Order) *domain.Order {
	c := *order
	c.Items = append([]domain.LineItem(nil), order.Items...)
	if order.PaymentID != nil {
		id := *order.PaymentID
		c.PaymentID = &id
	}
	if order.PickupTokenRedeemedAt != nil {
		at := *order.PickupTokenRedeemedAt
		c.PickupTokenRedeemedAt = &at
	}
	return &c
}

func clonePayment(intent *domain.PaymentIntent) *domain.PaymentIntent {
	c := *intent
	if intent.PaidAt != nil {
		at := *intent.PaidAt
		c.PaidAt = &at
	}
	return &c
}

func cloneUser(user *domain.User) *domain.User {
	c := *user
	return &c
}
