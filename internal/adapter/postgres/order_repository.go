package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, number, user_id, customer_name, total, status, created_at,
	       eta_minutes, payment_method, payment_id, pickup_token,
	       pickup_token_issued_at, pickup_token_redeemed_at`

// Create re-validates stock for every line with the menu rows locked
// and assigns the order number from a sequence, all in one
// transaction. Locks are taken in item-id order to avoid deadlocks
// between concurrent placements.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, line := range sortedByItemID(order.Items) {
		var name string
		var stock int
		var available bool
		err := tx.QueryRow(ctx,
			`SELECT name, stock, available FROM menu WHERE id = $1 FOR UPDATE`,
			line.ItemID,
		).Scan(&name, &stock, &available)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewValidation("invalid item in cart")
		}
		if err != nil {
			return fmt.Errorf("failed to lock menu row: %w", err)
		}
		if !available || stock < line.Qty {
			return domain.NewInsufficientStock(name)
		}
	}

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("failed to advance order sequence: %w", err)
	}
	order.Number = fmt.Sprintf("%04d", seq)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, number, user_id, customer_name, total, status, created_at,
		                    eta_minutes, payment_method, payment_id, pickup_token, pickup_token_issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		order.ID, order.Number, order.UserID, order.CustomerName, order.Total, order.Status,
		order.CreatedAt, order.ETAMinutes, order.PaymentMethod, order.PaymentID,
		order.PickupToken, order.PickupTokenIssuedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, item_id, name, price, qty) VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ItemID, item.Name, item.Price, item.Qty,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *orderRepository) GetByToken(ctx context.Context, token string) (*domain.Order, error) {
	return r.getBy(ctx, `WHERE pickup_token = $1`, token)
}

func (r *orderRepository) getBy(ctx context.Context, where, arg string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + where

	order, err := scanOrder(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("order", "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus covers the non-completing transitions; it never
// touches stock and refuses to resurrect a completed order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status != $3`,
		status, id, domain.StatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		order, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == domain.StatusCompleted {
			return domain.ErrAlreadyCompleted
		}
		return domain.NewNotFound("order", id)
	}
	return nil
}

// Complete deducts stock for every line and marks the order picked up
// in one transaction. The order row is locked first, then the menu
// rows in item-id order; stock is verified for all lines before any
// update, so failure leaves everything untouched.
func (r *orderRepository) Complete(ctx context.Context, id string, at time.Time) (*domain.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if status == domain.StatusCompleted {
		return nil, domain.ErrAlreadyCompleted
	}

	items, err := loadLineItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	for _, line := range sortedByItemID(items) {
		var name string
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT name, stock FROM menu WHERE id = $1 FOR UPDATE`,
			line.ItemID,
		).Scan(&name, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewConflict("invalid item in order")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock menu row: %w", err)
		}
		if stock < line.Qty {
			return nil, domain.NewInsufficientStock(name)
		}
	}
	for _, line := range items {
		_, err := tx.Exec(ctx, `UPDATE menu SET stock = stock - $1 WHERE id = $2`, line.Qty, line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to deduct stock: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status = $1, pickup_token_redeemed_at = $2 WHERE id = $3`,
		domain.StatusCompleted, at, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}

	order, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	order.Items = items

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	items, err := loadLineItems(ctx, r.db, order.ID)
	if err != nil {
		return err
	}
	order.Items = items
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

func loadLineItems(ctx context.Context, q querier, orderID string) ([]domain.LineItem, error) {
	rows, err := q.Query(ctx,
		`SELECT item_id, name, price, qty FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Price, &item.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func scanOrder(row Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.Number, &order.UserID, &order.CustomerName, &order.Total,
		&order.Status, &order.CreatedAt, &order.ETAMinutes, &order.PaymentMethod,
		&order.PaymentID, &order.PickupToken, &order.PickupTokenIssuedAt,
		&order.PickupTokenRedeemedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func sortedByItemID(items []domain.LineItem) []domain.LineItem {
	sorted := append([]domain.LineItem(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })
	return sorted
}
