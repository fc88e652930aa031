package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProductType determines the fixed weight produced by one batch run.
type ProductType string

const (
	ProductTypeAmanteigado ProductType = "AMANTEIGADO"
	ProductTypeDoce        ProductType = "DOCE"
	ProductTypeFloco       ProductType = "FLOCO"
)

func (t ProductType) String() string { return string(t) }

func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeAmanteigado, ProductTypeDoce, ProductTypeFloco:
		return true
	}
	return false
}

func ParseProductTypeFromString(s string) (ProductType, error) {
	t := ProductType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid product type %q", ErrValidation, s)
	}
	return t, nil
}

// kg produced per batch run, by product type.
var batchWeightsKg = map[ProductType]float64{
	ProductTypeAmanteigado: 110,
	ProductTypeDoce:        120,
	ProductTypeFloco:       172,
}

// KgPerBatch returns the fixed per-batch weight for a product type.
func KgPerBatch(t ProductType) (float64, error) {
	kg, ok := batchWeightsKg[t]
	if !ok {
		return 0, fmt.Errorf("%w: no batch weight for product type %q", ErrValidation, t)
	}
	return kg, nil
}

// EstimateKgFromBatches converts a batch count into estimated kilograms.
func EstimateKgFromBatches(t ProductType, batchCount int) (float64, error) {
	if batchCount < 0 {
		return 0, fmt.Errorf("%w: batch count must be non-negative", ErrValidation)
	}
	kg, err := KgPerBatch(t)
	if err != nil {
		return 0, err
	}
	return kg * float64(batchCount), nil
}

// Product is a manufactured item (bakery/snack line).
type Product struct {
	ID        string
	Name      string
	Type      ProductType
	Unit      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: invalid product type %q", ErrValidation, p.Type)
	}
	return nil
}
