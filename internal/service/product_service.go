package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
)

// ProductService manages the product catalog feeding plans, batches
// and reports.
type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) (*ProductService, error) {
	if products == nil {
		return nil, fmt.Errorf("product service requires a product repository")
	}
	return &ProductService{products: products}, nil
}

func (s *ProductService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is required", domain.ErrValidation)
	}

	product.Name = strings.TrimSpace(product.Name)
	if product.Unit == "" {
		product.Unit = "kg"
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	product.ID = uuid.NewString()
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrValidation)
	}
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}
