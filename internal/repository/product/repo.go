package product

import (
	"context"
	"fmt"

	"hema-storefront/internal/database"
	"hema-storefront/internal/model"
	"hema-storefront/internal/repository/helper"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

// ProductRepository reads the catalog from the document store.
type ProductRepository struct {
	db database.Client
}

var _ IRepository = ProductRepository{}

func New(db database.Client) ProductRepository {
	return ProductRepository{
		db: db,
	}
}

func (r ProductRepository) List(ctx context.Context) ([]model.ProductRow, error) {
	rows := []model.ProductRow{}

	err := r.db.IterDocs(ctx, r.db.Collection(productNode), func(ds *firestore.DocumentSnapshot) error {
		row := model.ProductRow{}
		if err := ds.DataTo(&row); err != nil {
			log.Error().Err(err).Msgf("product repo: failed to convert doc %s", ds.Ref.ID)
			return nil
		}
		if row.Id == "" {
			row.Id = model.FlexString(ds.Ref.ID)
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return rows, nil
}

func (r ProductRepository) EmbeddingByID(ctx context.Context, id string) ([]float32, error) {
	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(productNode).Doc(id))
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}

	v, err := docSnap.DataAt(EmbeddingFieldPath)
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}

	embedding, err := helper.ParseEmbedding(v)
	if err != nil {
		return nil, fmt.Errorf("get product embedding: %w, id: %s", err, id)
	}
	return embedding, nil
}
