package product

import (
	"context"

	"hema-storefront/internal/model"
)

type IRepository interface {
	List(ctx context.Context) ([]model.ProductRow, error)
	EmbeddingByID(ctx context.Context, id string) ([]float32, error)
}
