package repository

import (
	"context"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"gorm.io/gorm"
)

// DailyProductionRow is one line of the director production report:
// batch output aggregated per product per planned date.
type DailyProductionRow struct {
	PlannedDate      time.Time
	ProductID        string
	ProductName      string
	TotalBatches     int
	CompletedBatches int
	EstimatedKg      float64
}

type ReportRepository interface {
	DailyProduction(ctx context.Context, from time.Time, to time.Time) ([]DailyProductionRow, error)
}

type GormReportRepo struct {
	db *gorm.DB
}

func NewGormReportRepo(db *gorm.DB) *GormReportRepo {
	return &GormReportRepo{db: db}
}

func (r *GormReportRepo) DailyProduction(ctx context.Context, from time.Time, to time.Time) ([]DailyProductionRow, error) {
	var rows []DailyProductionRow
	err := r.db.WithContext(ctx).
		Table("batches").
		Select(`production_plans.planned_date,
			products.id AS product_id,
			products.name AS product_name,
			COUNT(batches.id) AS total_batches,
			COUNT(batches.id) FILTER (WHERE batches.status = ?) AS completed_batches,
			COALESCE(SUM(batches.estimated_kg), 0) AS estimated_kg`, domain.BatchStatusCompleted).
		Joins("JOIN production_plans ON production_plans.id = batches.production_plan_id").
		Joins("JOIN products ON products.id = production_plans.product_id").
		Where("production_plans.planned_date BETWEEN ? AND ?", from, to).
		Group("production_plans.planned_date, products.id, products.name").
		Order("production_plans.planned_date DESC, products.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
