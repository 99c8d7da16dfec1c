package postgres

import (
	"context"
	"fmt"

	"github.com/queueless/canteen/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	role TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS menu (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	price INTEGER NOT NULL,
	prep_time INTEGER NOT NULL,
	stock INTEGER NOT NULL CHECK (stock >= 0),
	available BOOLEAN NOT NULL
);

CREATE SEQUENCE IF NOT EXISTS order_number_seq;

CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	number TEXT NOT NULL,
	user_id TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	total INTEGER NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	eta_minutes INTEGER NOT NULL,
	payment_method TEXT NOT NULL,
	payment_id TEXT,
	pickup_token TEXT NOT NULL UNIQUE,
	pickup_token_issued_at TIMESTAMPTZ NOT NULL,
	pickup_token_redeemed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS order_items (
	id BIGSERIAL PRIMARY KEY,
	order_id TEXT NOT NULL REFERENCES orders(id),
	item_id TEXT NOT NULL,
	name TEXT NOT NULL,
	price INTEGER NOT NULL,
	qty INTEGER NOT NULL CHECK (qty > 0)
);

CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	amount INTEGER NOT NULL,
	currency TEXT NOT NULL,
	provider TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	paid_at TIMESTAMPTZ
);
`

// Migrate creates the schema and installs the default users and menu
// on an empty database.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var userCount int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, user := range domain.DefaultUsers() {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (id, name, email, password, role) VALUES ($1, $2, $3, $4, $5)`,
			user.ID, user.Name, user.Email, user.Password, user.Role,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	for _, item := range domain.DefaultMenu() {
		_, err := tx.Exec(ctx,
			`INSERT INTO menu (id, name, category, price, prep_time, stock, available) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.Name, item.Category, item.Price, item.PrepTime, item.Stock, item.Available,
		)
		if err != nil {
			return fmt.Errorf("failed to seed menu item: %w", err)
		}
	}

	return tx.Commit(ctx)
}
