package product

import (
	"context"
	"fmt"
	"net/url"

	"hema-storefront/internal/database"
	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
	"hema-storefront/internal/repository/helper"
)

// RestRepository reads the catalog through the hosted REST API.
type RestRepository struct {
	client *database.RestClient
}

var _ IRepository = RestRepository{}

func NewRest(client *database.RestClient) RestRepository {
	return RestRepository{client: client}
}

func (r RestRepository) List(ctx context.Context) ([]model.ProductRow, error) {
	rows := []model.ProductRow{}
	if err := r.client.Select(ctx, productNode, url.Values{"select": {productSelect}}, &rows); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

func (r RestRepository) EmbeddingByID(ctx context.Context, id string) ([]float32, error) {
	query := url.Values{
		"select":    {EmbeddingFieldPath},
		IdFieldPath: {"eq." + id},
	}

	var rows []struct {
		Embedding any `json:"embedding"`
	}
	if err := r.client.Select(ctx, productNode, query, &rows); err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}
	if len(rows) == 0 || rows[0].Embedding == nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", ierr.NotFound, id)
	}

	embedding, err := helper.ParseEmbedding(rows[0].Embedding)
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}
	return embedding, nil
}
