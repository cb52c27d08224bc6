package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"hema-storefront/internal/database"
	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"
)

type RestRepository struct {
	client *database.RestClient
}

var _ IRepository = RestRepository{}

func NewRest(client *database.RestClient) RestRepository {
	return RestRepository{client: client}
}

func (r RestRepository) Get(ctx context.Context, customerID string) ([]model.CartItem, error) {
	query := url.Values{
		"select":            {ItemsFieldPath},
		CustomerIdFieldPath: {"eq." + customerID},
	}

	var rows []struct {
		Itens json.RawMessage `json:"itens"`
	}
	if err := r.client.Select(ctx, cartNode, query, &rows); err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get cart: %w, id: %s", ierr.NotFound, customerID)
	}

	items, err := model.DecodeCartItems(rows[0].Itens)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w, id: %s", err, customerID)
	}
	return items, nil
}

func (r RestRepository) Upsert(ctx context.Context, customerID string, items []model.CartItem) error {
	row, err := model.NewCartRow(customerID, items, time.Now())
	if err != nil {
		return err
	}

	if err := r.client.Upsert(ctx, cartNode, CustomerIdFieldPath, row); err != nil {
		return fmt.Errorf("upsert cart: %w, id: %s", err, customerID)
	}
	return nil
}
