package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

type paymentRepository struct {
	db DB
}

func NewPaymentRepository(db DB) interfaces.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payments (id, user_id, amount, currency, provider, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		intent.ID, intent.UserID, intent.Amount, intent.Currency, intent.Provider, intent.Status, intent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, amount, currency, provider, status, created_at, paid_at FROM payments WHERE id = $1`,
		id,
	).Scan(&intent.ID, &intent.UserID, &intent.Amount, &intent.Currency, &intent.Provider,
		&intent.Status, &intent.CreatedAt, &intent.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound("payment", "")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &intent, nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $1, paid_at = COALESCE(paid_at, $2) WHERE id = $3`,
		domain.PaymentStatusPaid, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("payment", "")
	}
	return nil
}
