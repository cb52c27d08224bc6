package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hema-storefront/internal/database"
	"hema-storefront/internal/model"
)

// CartRepository keeps one document per customer, keyed by the customer id.
type CartRepository struct {
	db database.Client
}

var _ IRepository = CartRepository{}

func New(db database.Client) CartRepository {
	return CartRepository{
		db: db,
	}
}

func (r CartRepository) Get(ctx context.Context, customerID string) ([]model.CartItem, error) {
	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(cartNode).Doc(customerID))
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}

	v, err := docSnap.DataAt(ItemsFieldPath)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}

	items, err := decodeItemsField(v)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}
	return items, nil
}

// decodeItemsField reads the `itens` field, stored as JSON text by this service
// or as a native array by other clients.
func decodeItemsField(v any) ([]model.CartItem, error) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		return []model.CartItem{}, nil
	case string:
		raw = []byte(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
		raw = b
	}
	return model.DecodeCartItems(raw)
}

// Upsert replaces the whole document; the last writer wins.
func (r CartRepository) Upsert(ctx context.Context, customerID string, items []model.CartItem) error {
	row, err := model.NewCartRow(customerID, items, time.Now())
	if err != nil {
		return err
	}

	docRef := r.db.Collection(cartNode).Doc(customerID)
	if _, err := r.db.SetDoc(ctx, docRef, row); err != nil {
		return fmt.Errorf("upsert cart: %w, id: %s", err, customerID)
	}
	return nil
}
