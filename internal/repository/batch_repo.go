package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"gorm.io/gorm"
)

// InProgressBatchRow is the projection read by the timer-push sweep:
// one row per IN_PROGRESS batch joined with its plan and product.
type InProgressBatchRow struct {
	BatchID          string
	BatchNumber      int
	ProductionPlanID string
	ProductName      string
	Status           domain.BatchStatus
	StartTime        *time.Time
}

type BatchRepository interface {
	Create(ctx context.Context, b *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	Update(ctx context.Context, b *domain.Batch) error
	ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error)
	ExistsByPlanAndNumber(ctx context.Context, planID string, batchNumber int) (bool, error)
	ListInProgress(ctx context.Context) ([]InProgressBatchRow, error)
}

type GormBatchRepo struct {
	db *gorm.DB
}

func NewGormBatchRepo(db *gorm.DB) *GormBatchRepo {
	return &GormBatchRepo{db: db}
}

func (r *GormBatchRepo) Create(ctx context.Context, b *domain.Batch) error {
	model := batchModelFromDomain(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateBatchNumber
		}
		return err
	}
	if b != nil {
		*b = *batchModelToDomain(model)
	}
	return nil
}

func (r *GormBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	var model BatchModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return batchModelToDomain(&model), nil
}

func (r *GormBatchRepo) Update(ctx context.Context, b *domain.Batch) error {
	model := batchModelFromDomain(b)
	result := r.db.WithContext(ctx).
		Model(&BatchModel{}).
		Where("id = ?", model.ID).
		Select("status", "start_time", "end_time", "paused_at", "pause_duration_minutes").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormBatchRepo) ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error) {
	var models []BatchModel
	err := r.db.WithContext(ctx).
		Where("production_plan_id = ?", planID).
		Order("batch_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	batches := make([]domain.Batch, 0, len(models))
	for i := range models {
		batches = append(batches, *batchModelToDomain(&models[i]))
	}
	return batches, nil
}

func (r *GormBatchRepo) ExistsByPlanAndNumber(ctx context.Context, planID string, batchNumber int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BatchModel{}).
		Where("production_plan_id = ? AND batch_number = ?", planID, batchNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBatchRepo) ListInProgress(ctx context.Context) ([]InProgressBatchRow, error) {
	var rows []InProgressBatchRow
	err := r.db.WithContext(ctx).
		Table("batches").
		Select(`batches.id AS batch_id,
			batches.batch_number,
			batches.production_plan_id,
			products.name AS product_name,
			batches.status,
			batches.start_time`).
		Joins("JOIN production_plans ON production_plans.id = batches.production_plan_id").
		Joins("JOIN products ON products.id = production_plans.product_id").
		Where("batches.status = ?", domain.BatchStatusInProgress).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
