package search

import (
	"context"
	"fmt"

	"hema-storefront/internal/model"
	productRepository "hema-storefront/internal/repository/product"
)

// Caller invokes a stored procedure on the backend.
type Caller interface {
	RPC(ctx context.Context, name string, args, out any) error
}

type matchArgs struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	ProductId      string    `json:"product_id"`
	MatchCount     int       `json:"match_count"`
}

type matchRow struct {
	Id model.FlexString `json:"id"`
}

// Similar finds the nearest neighbours of a product by its stored embedding.
type Similar struct {
	caller   Caller
	rpc      string
	products productRepository.IRepository
}

func NewSimilar(caller Caller, rpc string, products productRepository.IRepository) Similar {
	return Similar{
		caller:   caller,
		rpc:      rpc,
		products: products,
	}
}

// Find returns up to count product ids ordered by similarity, never including productID.
func (s Similar) Find(ctx context.Context, productID string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	embedding, err := s.products.EmbeddingByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}

	var rows []matchRow
	args := matchArgs{
		QueryEmbedding: embedding,
		ProductId:      productID,
		MatchCount:     count,
	}
	if err := s.caller.RPC(ctx, s.rpc, args, &rows); err != nil {
		return nil, fmt.Errorf("similar products: %w, id: %s", err, productID)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := string(row.Id); id != "" && id != productID {
			ids = append(ids, id)
		}
		if len(ids) == count {
			break
		}
	}
	return ids, nil
}
