package search

import (
	"context"
	"fmt"
	"strings"

	"hema-storefront/internal/catalog"
	"hema-storefront/internal/model"
)

// Invoker calls a named serverless function on the backend.
type Invoker interface {
	Invoke(ctx context.Context, function string, body, out any) error
}

// Searcher returns one page of hybrid search results.
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int, embedding []float32) (model.SearchResult, error)
}

type searchRequest struct {
	Query     string    `json:"query"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
	Embedding []float32 `json:"embedding"`
}

type searchRow struct {
	Id         model.FlexString `json:"id"`
	Nome       string           `json:"nome"`
	Preco      any              `json:"preço"`
	Quantidade any              `json:"quantidade"`
	Descricao  *string          `json:"descricao"`
	UrlImagem  *string          `json:"url_imagem"`
	CreatedAt  any              `json:"created_at"`
	Score      float64          `json:"score"`
}

type searchResponse struct {
	Products  []searchRow `json:"products"`
	Embedding []float32   `json:"embedding"`
}

// Client runs the hybrid search function.
type Client struct {
	invoker  Invoker
	function string
}

var _ Searcher = Client{}

func NewClient(invoker Invoker, function string) Client {
	return Client{
		invoker:  invoker,
		function: function,
	}
}

// Search fetches limit results starting at offset. A blank query returns an
// empty result without calling the backend. embedding is sent back on later
// pages so the query is not embedded again; nil asks the backend to compute it.
func (c Client) Search(ctx context.Context, query string, limit, offset int, embedding []float32) (model.SearchResult, error) {
	result := model.SearchResult{Products: []model.ScoredProduct{}}

	if strings.TrimSpace(query) == "" {
		return result, nil
	}

	req := searchRequest{
		Query:     query,
		Limit:     limit,
		Offset:    offset,
		Embedding: embedding,
	}

	var resp searchResponse
	if err := c.invoker.Invoke(ctx, c.function, req, &resp); err != nil {
		return result, fmt.Errorf("search %q: %w", query, err)
	}

	for _, row := range resp.Products {
		result.Products = append(result.Products, model.ScoredProduct{
			Product: catalog.Normalize(row.productRow()),
			Score:   row.Score,
		})
	}
	if len(result.Products) > 0 {
		result.MaxScore = result.Products[0].Score
	}
	result.Embedding = resp.Embedding

	return result, nil
}

func (r searchRow) productRow() model.ProductRow {
	row := model.ProductRow{
		Id:        r.Id,
		Name:      r.Nome,
		Price:     r.Preco,
		Quantity:  r.Quantidade,
		CreatedAt: r.CreatedAt,
	}
	if r.Descricao != nil {
		row.Description = *r.Descricao
	}
	if r.UrlImagem != nil {
		row.ImageUrl = *r.UrlImagem
	}
	return row
}
