package products

import (
	"context"
	"errors"

	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/catalog/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, errors.New("invalid product ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id int64, product Product) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	if err := s.validate(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, product)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}
	return s.repo.Delete(ctx, id)
}

// ListByCategory projects a category's products into the detail payload shape.
func (s *Service) ListByCategory(ctx context.Context, categoryID int64) ([]categories.CategoryProduct, error) {
	items, _, err := s.repo.List(ctx, shared.ListFilters{CategoryID: &categoryID})
	if err != nil {
		return nil, err
	}
	projected := make([]categories.CategoryProduct, 0, len(items))
	for _, p := range items {
		projected = append(projected, categories.CategoryProduct{
			ID:    p.ID,
			Code:  p.Code,
			Name:  p.Name,
			Unit:  p.Unit,
			Price: p.Price,
		})
	}
	return projected, nil
}
