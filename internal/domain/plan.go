package domain

import (
	"fmt"
	"strings"
	"time"
)

// PlanStatus represents the workflow state of a production plan.
type PlanStatus string

const (
	PlanStatusPending    PlanStatus = "PENDING"
	PlanStatusInProgress PlanStatus = "IN_PROGRESS"
	PlanStatusCompleted  PlanStatus = "COMPLETED"
)

func (s PlanStatus) String() string { return string(s) }

func (s PlanStatus) IsValid() bool {
	switch s {
	case PlanStatusPending, PlanStatusInProgress, PlanStatusCompleted:
		return true
	}
	return false
}

func ParsePlanStatusFromString(s string) (PlanStatus, error) {
	st := PlanStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid plan status %q", ErrValidation, s)
	}
	return st, nil
}

// Shift is the working shift a plan or entry belongs to.
type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftNight     Shift = "NIGHT"
)

func (s Shift) String() string { return string(s) }

func (s Shift) IsValid() bool {
	switch s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

func ParseShiftFromString(s string) (Shift, error) {
	sh := Shift(strings.ToUpper(strings.TrimSpace(s)))
	if !sh.IsValid() {
		return "", fmt.Errorf("%w: invalid shift %q", ErrValidation, s)
	}
	return sh, nil
}

// ProductionPlan is a scheduled production target for one product.
// Its status moves to COMPLETED only when every batch under it is
// COMPLETED and at least one batch exists.
type ProductionPlan struct {
	ID              string
	ProductID       string
	PlannedQuantity float64
	PlannedDate     time.Time
	Shift           *Shift
	Status          PlanStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *ProductionPlan) Validate() error {
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if p.PlannedQuantity <= 0 {
		return fmt.Errorf("%w: planned quantity must be positive", ErrValidation)
	}
	if p.PlannedDate.IsZero() {
		return fmt.Errorf("%w: planned date is required", ErrValidation)
	}
	if p.Shift != nil && !p.Shift.IsValid() {
		return fmt.Errorf("%w: invalid shift %q", ErrValidation, *p.Shift)
	}
	return nil
}
