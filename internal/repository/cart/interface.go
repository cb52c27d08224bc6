package cart

import (
	"context"

	"hema-storefront/internal/model"
)

// IRepository persists the single cart row of a customer.
// Get returns errors.NotFound when the customer has no row yet.
type IRepository interface {
	Get(ctx context.Context, customerID string) ([]model.CartItem, error)
	Upsert(ctx context.Context, customerID string, items []model.CartItem) error
}
