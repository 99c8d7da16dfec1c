package memory

import (
	"context"
	"sort"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type menuRepository struct {
	store *Store
}

func NewMenuRepository(store *Store) interfaces.MenuRepository {
	return &menuRepository{store: store}
}

func (r *menuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := make([]*domain.MenuItem, 0, len(r.store.menu))
	for _, item := range r.store.menu {
		items = append(items, cloneMenuItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *menuRepository) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.menu[id]
	if !ok {
		return nil, domain.NewNotFound("menu item", id)
	}
	return cloneMenuItem(item), nil
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.menu[item.ID] = cloneMenuItem(item)
	return nil
}

func (r *menuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.menu[item.ID]; !ok {
		return domain.NewNotFound("menu item", item.ID)
	}
	r.store.menu[item.ID] = cloneMenuItem(item)
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.menu[id]; !ok {
		return domain.NewNotFound("menu item", id)
	}
	delete(r.store.menu, id)
	return nil
}

func (r *menuRepository) SetStockAndAvailability(ctx context.Context, id string, stock int, available bool) (*domain.MenuItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.menu[id]
	if !ok {
		return nil, domain.NewNotFound("menu item", id)
	}
	item.Stock = stock
	item.Available = available
	return cloneMenuItem(item), nil
}

func (r *menuRepository) Deduct(ctx context.Context, id string, qty int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.menu[id]
	if !ok {
		return domain.NewNotFound("menu item", id)
	}
	return item.Deduct(qty)
}
