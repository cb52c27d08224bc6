package model

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ItemKindUnit        = "UNITARIO"
	DefaultQuantityDesc = "1 un"
)

// CartItem mirrors one entry of the JSON array kept in the remote cart row.
// Nome is the unique key of an item inside a cart.
type CartItem struct {
	Nome        string  `json:"nome" firestore:"nome"`
	Tipo        string  `json:"tipo" firestore:"tipo"`
	Total       float64 `json:"total" firestore:"total"`
	QtdDesc     string  `json:"qtd_desc" firestore:"qtd_desc"`
	QtdNumerica int     `json:"qtd_numerica" firestore:"qtd_numerica"`
	ImageUrl    string  `json:"image_url,omitempty" firestore:"image_url,omitempty"`
}

// CartRow is the single per-customer cart record.
type CartRow struct {
	ClienteId string    `json:"cliente_id" firestore:"cliente_id"`
	Itens     string    `json:"itens" firestore:"itens"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updated_at"`
}

func NewCartRow(customerID string, items []CartItem, now time.Time) (CartRow, error) {
	if items == nil {
		items = []CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return CartRow{}, fmt.Errorf("encode cart items: %w, id: %s", err, customerID)
	}
	return CartRow{
		ClienteId: customerID,
		Itens:     string(b),
		UpdatedAt: now.UTC(),
	}, nil
}

// DecodeCartItems accepts the stored `itens` value either as a JSON array
// or as a JSON string that wraps the array.
func DecodeCartItems(raw []byte) ([]CartItem, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []CartItem{}, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode cart items: %w", err)
		}
		return DecodeCartItems([]byte(inner))
	}

	items := []CartItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart items: %w", err)
	}
	return items, nil
}

// CartSnapshot is the cart as shown to the customer after a committed change.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
}
