package repository

import (
	"context"
	"errors"

	"github.com/sgmi/production-backend/internal/domain"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type GormProductRepo struct {
	db *gorm.DB
}

func NewGormProductRepo(db *gorm.DB) *GormProductRepo {
	return &GormProductRepo{db: db}
}

func (r *GormProductRepo) Create(ctx context.Context, p *domain.Product) error {
	model := productModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if p != nil {
		*p = *productModelToDomain(model)
	}
	return nil
}

func (r *GormProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return productModelToDomain(&model), nil
}

func (r *GormProductRepo) GetByName(ctx context.Context, name string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return productModelToDomain(&model), nil
}

func (r *GormProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var models []ProductModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(models))
	for i := range models {
		products = append(products, *productModelToDomain(&models[i]))
	}
	return products, nil
}
