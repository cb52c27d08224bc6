package catalog

import (
	"context"

	"hema-storefront/internal/model"
	productRepository "hema-storefront/internal/repository/product"

	"github.com/rs/zerolog/log"
)

// Service loads the whole product table and normalizes it. It never fails:
// backend errors are logged and turned into an empty catalog.
type Service struct {
	repo productRepository.IRepository
}

func NewService(repo productRepository.IRepository) *Service {
	return &Service{repo: repo}
}

// Products returns the catalog in backend order.
func (s *Service) Products(ctx context.Context) []model.Product {
	rows, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog: failed to fetch products")
		return []model.Product{}
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, Normalize(row))
	}
	return products
}

func (s *Service) ByID(ctx context.Context, id string) (model.Product, bool) {
	for _, p := range s.Products(ctx) {
		if p.Id == id {
			return p, true
		}
	}
	return model.Product{}, false
}
