package repository

import (
	"context"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"gorm.io/gorm"
)

// EntryFilter narrows entry listings by creation date range and product.
type EntryFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID *string
}

type EntryRepository interface {
	Create(ctx context.Context, e *domain.ProductionEntry) error
	List(ctx context.Context, filter EntryFilter) ([]domain.ProductionEntry, error)
}

type GormEntryRepo struct {
	db *gorm.DB
}

func NewGormEntryRepo(db *gorm.DB) *GormEntryRepo {
	return &GormEntryRepo{db: db}
}

func (r *GormEntryRepo) Create(ctx context.Context, e *domain.ProductionEntry) error {
	model := entryModelFromDomain(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if e != nil {
		*e = *entryModelToDomain(model)
	}
	return nil
}

func (r *GormEntryRepo) List(ctx context.Context, filter EntryFilter) ([]domain.ProductionEntry, error) {
	query := r.db.WithContext(ctx).Model(&ProductionEntryModel{})
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	var models []ProductionEntryModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]domain.ProductionEntry, 0, len(models))
	for i := range models {
		entries = append(entries, *entryModelToDomain(&models[i]))
	}
	return entries, nil
}
