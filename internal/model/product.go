package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// FlexString decodes ids that the backend may send either as JSON strings or numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// ProductRow is a product as stored by the backend, before normalization.
// Price and Quantity are kept loose because the backend stores them as free text
// on some rows and as numbers on others.
type ProductRow struct {
	Id          FlexString `json:"id" firestore:"id"`
	Name        string     `json:"name" firestore:"nome"`
	Price       any        `json:"price" firestore:"preço"`
	Quantity    any        `json:"quantity" firestore:"quantidade"`
	Description string     `json:"description" firestore:"descricao"`
	ImageUrl    string     `json:"image_url" firestore:"url_imagem"`
	CreatedAt   any        `json:"createdAt" firestore:"created_at"`
}

type Product struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageUrl    string    `json:"image_url,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScoredProduct is a product returned by the hybrid search together with its relevance.
type ScoredProduct struct {
	Product
	Score float64 `json:"score"`
}
