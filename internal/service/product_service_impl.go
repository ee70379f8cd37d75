package service

import (
	"context"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/domain"
)

type productService struct {
	backend Backend
}

func NewProductService(backend Backend) ProductService {
	return &productService{backend: backend}
}

func (s *productService) List(ctx context.Context, f domain.Filter) (api.ListResult[domain.Product], error) {
	return s.backend.ListProducts(ctx, f)
}

func (s *productService) Save(ctx context.Context, p domain.Product) (string, error) {
	return s.backend.SaveProduct(ctx, p)
}
