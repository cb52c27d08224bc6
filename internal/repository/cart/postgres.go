package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
)

var (
	getCartQuery = fmt.Sprintf(
		`SELECT %s::text FROM %s WHERE %s = $1`,
		ItemsFieldPath, cartNode, CustomerIdFieldPath)

	upsertCartQuery = fmt.Sprintf(
		`INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, $3)
		ON CONFLICT (%[2]s) DO UPDATE SET %[3]s = EXCLUDED.%[3]s, %[4]s = EXCLUDED.%[4]s`,
		cartNode, CustomerIdFieldPath, ItemsFieldPath, UpdatedAtFieldPath)
)

type PostgresRepository struct {
	db *sql.DB
}

var _ IRepository = PostgresRepository{}

func NewPostgres(db *sql.DB) PostgresRepository {
	return PostgresRepository{db: db}
}

func (r PostgresRepository) Get(ctx context.Context, customerID string) ([]model.CartItem, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, getCartQuery, customerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cart: %w, id: %s", ierr.NotFound, customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}

	items, err := model.DecodeCartItems([]byte(raw.String))
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}
	return items, nil
}

func (r PostgresRepository) Upsert(ctx context.Context, customerID string, items []model.CartItem) error {
	row, err := model.NewCartRow(customerID, items, time.Now())
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, upsertCartQuery, row.ClienteId, row.Itens, row.UpdatedAt); err != nil {
		return fmt.Errorf("upsert cart: %w, id: %s", err, customerID)
	}
	return nil
}
