package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"gorm.io/gorm"
)

// PlanFilter narrows plan listings by planned date range and status.
type PlanFilter struct {
	From   *time.Time
	To     *time.Time
	Status *domain.PlanStatus
}

type PlanRepository interface {
	Create(ctx context.Context, p *domain.ProductionPlan) error
	GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error)
	List(ctx context.Context, filter PlanFilter) ([]domain.ProductionPlan, error)
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error
	// MarkCompleted sets the plan COMPLETED only if it is not already.
	// It reports whether this call performed the transition, which gates
	// the single completion broadcast.
	MarkCompleted(ctx context.Context, id string) (bool, error)
}

type GormPlanRepo struct {
	db *gorm.DB
}

func NewGormPlanRepo(db *gorm.DB) *GormPlanRepo {
	return &GormPlanRepo{db: db}
}

func (r *GormPlanRepo) Create(ctx context.Context, p *domain.ProductionPlan) error {
	model := planModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if p != nil {
		*p = *planModelToDomain(model)
	}
	return nil
}

func (r *GormPlanRepo) GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error) {
	var model ProductionPlanModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return planModelToDomain(&model), nil
}

func (r *GormPlanRepo) List(ctx context.Context, filter PlanFilter) ([]domain.ProductionPlan, error) {
	query := r.db.WithContext(ctx).Model(&ProductionPlanModel{})
	if filter.From != nil {
		query = query.Where("planned_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("planned_date <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var models []ProductionPlanModel
	if err := query.Order("planned_date DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	plans := make([]domain.ProductionPlan, 0, len(models))
	for i := range models {
		plans = append(plans, *planModelToDomain(&models[i]))
	}
	return plans, nil
}

func (r *GormPlanRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	result := r.db.WithContext(ctx).
		Model(&ProductionPlanModel{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormPlanRepo) MarkCompleted(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&ProductionPlanModel{}).
		Where("id = ? AND status <> ?", id, domain.PlanStatusCompleted).
		Update("status", domain.PlanStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
