package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List(ctx context.Context) ([]*domain.MenuItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category, price, prep_time, stock, available FROM menu ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	var items []*domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.PrepTime, &item.Stock, &item.Available); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func (r *menuRepository) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.QueryRow(ctx,
		`SELECT id, name, category, price, prep_time, stock, available FROM menu WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.PrepTime, &item.Stock, &item.Available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("menu item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	return &item, nil
}

func (r *menuRepository) Create(ctx context.Context, item *domain.MenuItem) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO menu (id, name, category, price, prep_time, stock, available) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Name, item.Category, item.Price, item.PrepTime, item.Stock, item.Available,
	)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *menuRepository) Update(ctx context.Context, item *domain.MenuItem) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE menu SET name = $1, category = $2, price = $3, prep_time = $4, stock = $5, available = $6 WHERE id = $7`,
		item.Name, item.Category, item.Price, item.PrepTime, item.Stock, item.Available, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("menu item", item.ID)
	}
	return nil
}

func (r *menuRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("menu item", id)
	}
	return nil
}

func (r *menuRepository) SetStockAndAvailability(ctx context.Context, id string, stock int, available bool) (*domain.MenuItem, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE menu SET stock = $1, available = $2 WHERE id = $3`,
		stock, available, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.NewNotFound("menu item", id)
	}
	return r.Get(ctx, id)
}

// Deduct is a single conditional update, so concurrent deductions
// against one item serialize on the row and stock never goes
// negative.
func (r *menuRepository) Deduct(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return domain.NewValidation("deduction quantity must be positive")
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE menu SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
		qty, id,
	)
	if err != nil {
		return fmt.Errorf("failed to deduct stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		item, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		return domain.NewInsufficientStock(item.Name)
	}
	return nil
}
