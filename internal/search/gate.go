package search

import (
	"strings"

	"hema-storefront/internal/catalog"
	"hema-storefront/internal/model"
)

// Gate decides what is shown for a query: the search results when they are
// relevant enough, otherwise the head of the catalog.
type Gate struct {
	Threshold    float64
	FallbackSize int
}

type Display struct {
	Products []model.ScoredProduct `json:"products"`
	// NoMatch is set when a non blank query had no result scoring Threshold or more.
	NoMatch bool `json:"noMatch"`
}

func (g Gate) Apply(query string, result model.SearchResult, products []model.Product) Display {
	if strings.TrimSpace(query) == "" {
		return Display{Products: g.fallback(products)}
	}
	if len(result.Products) == 0 || result.MaxScore < g.Threshold {
		return Display{Products: g.fallback(products), NoMatch: true}
	}

	shown := make([]model.ScoredProduct, len(result.Products))
	copy(shown, result.Products)
	return Display{Products: shown}
}

func (g Gate) fallback(products []model.Product) []model.ScoredProduct {
	head := catalog.Head(products, g.FallbackSize)
	out := make([]model.ScoredProduct, 0, len(head))
	for _, p := range head {
		out = append(out, model.ScoredProduct{Product: p})
	}
	return out
}
