package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
	"hema-storefront/internal/repository/helper"
)

var (
	listProductsQuery = fmt.Sprintf(
		`SELECT %s::text, COALESCE(%s, ''), %q::text, %s::text, COALESCE(%s, ''), COALESCE(%s, ''), %s FROM %s`,
		IdFieldPath, NameFieldPath, PriceFieldPath, QuantityFieldPath,
		DescriptionFieldPath, ImageUrlFieldPath, CreatedAtFieldPath, productNode)

	productEmbeddingQuery = fmt.Sprintf(
		`SELECT %s::text FROM %s WHERE %s::text = $1`,
		EmbeddingFieldPath, productNode, IdFieldPath)
)

// PostgresRepository reads the catalog straight from the backend database.
type PostgresRepository struct {
	db *sql.DB
}

var _ IRepository = PostgresRepository{}

func NewPostgres(db *sql.DB) PostgresRepository {
	return PostgresRepository{db: db}
}

func (r PostgresRepository) List(ctx context.Context) ([]model.ProductRow, error) {
	rs, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rs.Close()

	rows := []model.ProductRow{}
	for rs.Next() {
		var (
			row             model.ProductRow
			id              string
			price, quantity sql.NullString
			createdAt       sql.NullTime
		)
		if err := rs.Scan(&id, &row.Name, &price, &quantity, &row.Description, &row.ImageUrl, &createdAt); err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		row.Id = model.FlexString(id)
		if price.Valid {
			row.Price = price.String
		}
		if quantity.Valid {
			row.Quantity = quantity.String
		}
		if createdAt.Valid {
			row.CreatedAt = createdAt.Time
		}
		rows = append(rows, row)
	}

	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

func (r PostgresRepository) EmbeddingByID(ctx context.Context, id string) ([]float32, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, productEmbeddingQuery, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !raw.Valid) {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", ierr.NotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}

	embedding, err := helper.ParseEmbedding(raw.String)
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}
	return embedding, nil
}
