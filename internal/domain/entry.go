package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProductionEntry is a manually logged quantity of finished product,
// recorded per shift outside the batch workflow.
type ProductionEntry struct {
	ID              string
	ProductID       string
	Quantity        float64
	Shift           Shift
	DurationMinutes *int
	CreatedAt       time.Time
}

func (e *ProductionEntry) Validate() error {
	if strings.TrimSpace(e.ProductID) == "" {
		return fmt.Errorf("%w: product id is required", ErrValidation)
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if !e.Shift.IsValid() {
		return fmt.Errorf("%w: invalid shift %q", ErrValidation, e.Shift)
	}
	if e.DurationMinutes != nil && *e.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be non-negative", ErrValidation)
	}
	return nil
}
