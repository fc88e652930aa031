package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
)

// ReportService serves director-level aggregates over batch output.
type ReportService struct {
	reports repository.ReportRepository
}

func NewReportService(reports repository.ReportRepository) (*ReportService, error) {
	if reports == nil {
		return nil, fmt.Errorf("report service requires a report repository")
	}
	return &ReportService{reports: reports}, nil
}

// DailyProduction returns per-product batch totals for each planned
// date in [from, to].
func (s *ReportService) DailyProduction(ctx context.Context, from time.Time, to time.Time) ([]repository.DailyProductionRow, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: report range is required", domain.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report range end precedes start", domain.ErrValidation)
	}
	return s.reports.DailyProduction(ctx, from, to)
}
