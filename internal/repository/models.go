package repository

import (
	"time"

	"github.com/sgmi/production-backend/internal/domain"
)

// UserModel is the persistence model for the users table.
type UserModel struct {
	ID           string      `gorm:"type:uuid;primaryKey"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Email        string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string      `gorm:"type:varchar(255);not null"`
	Role         domain.Role `gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// ProductModel is the persistence model for products.
type ProductModel struct {
	ID        string             `gorm:"type:uuid;primaryKey"`
	Name      string             `gorm:"type:varchar(255);not null;uniqueIndex"`
	Type      domain.ProductType `gorm:"type:varchar(20);not null"`
	Unit      string             `gorm:"type:varchar(10);not null;default:kg"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// ProductionPlanModel is the persistence model for production_plans.
type ProductionPlanModel struct {
	ID              string            `gorm:"type:uuid;primaryKey"`
	ProductID       string            `gorm:"type:uuid;not null;index"`
	PlannedQuantity float64           `gorm:"type:numeric(10,2);not null"`
	PlannedDate     time.Time         `gorm:"type:date;not null"`
	Shift           *domain.Shift     `gorm:"type:varchar(10)"`
	Status          domain.PlanStatus `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ProductionPlanModel) TableName() string {
	return "production_plans"
}

// BatchModel is the persistence model for batches. The unique index on
// (production_plan_id, batch_number) backs the duplicate-number check.
type BatchModel struct {
	ID                   string             `gorm:"type:uuid;primaryKey"`
	ProductionPlanID     string             `gorm:"type:uuid;not null;uniqueIndex:idx_batches_plan_number"`
	BatchNumber          int                `gorm:"not null;uniqueIndex:idx_batches_plan_number"`
	Status               domain.BatchStatus `gorm:"type:varchar(20);not null;index"`
	StartTime            *time.Time         `gorm:"type:timestamptz"`
	EndTime              *time.Time         `gorm:"type:timestamptz"`
	PausedAt             *time.Time         `gorm:"type:timestamptz"`
	PauseDurationMinutes int                `gorm:"not null;default:0"`
	EstimatedKg          float64            `gorm:"type:numeric(10,2);not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (BatchModel) TableName() string {
	return "batches"
}

// ProductionEntryModel is the persistence model for production_entries.
type ProductionEntryModel struct {
	ID              string       `gorm:"type:uuid;primaryKey"`
	ProductID       string       `gorm:"type:uuid;not null;index"`
	Quantity        float64      `gorm:"type:numeric(10,2);not null"`
	Shift           domain.Shift `gorm:"type:varchar(10);not null"`
	DurationMinutes *int         `gorm:"type:int"`
	CreatedAt       time.Time
}

func (ProductionEntryModel) TableName() string {
	return "production_entries"
}

func userModelFromDomain(u *domain.User) *UserModel {
	if u == nil {
		return nil
	}
	return &UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func userModelToDomain(m *UserModel) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func productModelFromDomain(p *domain.Product) *ProductModel {
	if p == nil {
		return nil
	}
	return &ProductModel{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Unit:      p.Unit,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func productModelToDomain(m *ProductModel) *domain.Product {
	if m == nil {
		return nil
	}
	return &domain.Product{
		ID:        m.ID,
		Name:      m.Name,
		Type:      m.Type,
		Unit:      m.Unit,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func planModelFromDomain(p *domain.ProductionPlan) *ProductionPlanModel {
	if p == nil {
		return nil
	}
	return &ProductionPlanModel{
		ID:              p.ID,
		ProductID:       p.ProductID,
		PlannedQuantity: p.PlannedQuantity,
		PlannedDate:     p.PlannedDate,
		Shift:           p.Shift,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func planModelToDomain(m *ProductionPlanModel) *domain.ProductionPlan {
	if m == nil {
		return nil
	}
	return &domain.ProductionPlan{
		ID:              m.ID,
		ProductID:       m.ProductID,
		PlannedQuantity: m.PlannedQuantity,
		PlannedDate:     m.PlannedDate,
		Shift:           m.Shift,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func batchModelFromDomain(b *domain.Batch) *BatchModel {
	if b == nil {
		return nil
	}
	return &BatchModel{
		ID:                   b.ID,
		ProductionPlanID:     b.ProductionPlanID,
		BatchNumber:          b.BatchNumber,
		Status:               b.Status,
		StartTime:            b.StartTime,
		EndTime:              b.EndTime,
		PausedAt:             b.PausedAt,
		PauseDurationMinutes: b.PauseDurationMinutes,
		EstimatedKg:          b.EstimatedKg,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

func batchModelToDomain(m *BatchModel) *domain.Batch {
	if m == nil {
		return nil
	}
	return &domain.Batch{
		ID:                   m.ID,
		ProductionPlanID:     m.ProductionPlanID,
		BatchNumber:          m.BatchNumber,
		Status:               m.Status,
		StartTime:            m.StartTime,
		EndTime:              m.EndTime,
		PausedAt:             m.PausedAt,
		PauseDurationMinutes: m.PauseDurationMinutes,
		EstimatedKg:          m.EstimatedKg,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func entryModelFromDomain(e *domain.ProductionEntry) *ProductionEntryModel {
	if e == nil {
		return nil
	}
	return &ProductionEntryModel{
		ID:              e.ID,
		ProductID:       e.ProductID,
		Quantity:        e.Quantity,
		Shift:           e.Shift,
		DurationMinutes: e.DurationMinutes,
		CreatedAt:       e.CreatedAt,
	}
}

func entryModelToDomain(m *ProductionEntryModel) *domain.ProductionEntry {
	if m == nil {
		return nil
	}
	return &domain.ProductionEntry{
		ID:              m.ID,
		ProductID:       m.ProductID,
		Quantity:        m.Quantity,
		Shift:           m.Shift,
		DurationMinutes: m.DurationMinutes,
		CreatedAt:       m.CreatedAt,
	}
}
