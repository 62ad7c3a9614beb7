package random

import (
	"github.com/shopspring/decimal"

	"ordergen/internal/tracer"
	"ordergen/internal/valuegen"
)

// DefaultQtyMultiple is used whenever a listing's qty_multiple is zero
// or unset.
var DefaultQtyMultiple = decimal.NewFromInt(1)

// QuantityGenerationParams configures one quantity draw.
type QuantityGenerationParams struct {
	Multiplier decimal.Decimal
	MinQty     decimal.Decimal
	MaxQty     decimal.Decimal
}

// Validate reports the PRNG/validation error condition of spec.md §4.2:
// both bounds must be non-negative and ordered.
func (p QuantityGenerationParams) Validate() error {
	if p.MinQty.IsNegative() {
		return errQtyMinNegative
	}
	if p.MaxQty.LessThan(p.MinQty) {
		return errQtyMaxLessThanMin
	}
	return nil
}

// QuantityGenerator produces a quantity for one tick's event.
type QuantityGenerator interface {
	GenerateQuantity(params QuantityGenerationParams, t tracer.Tracer) (decimal.Decimal, error)
}

// QuantityGeneratorImpl implements the multiplier/min/max draw from
// spec.md §4.2, grounded on
// original_source/.../random/generators/quantity_generator.cpp.
type QuantityGeneratorImpl struct {
	values *valuegen.ValueGenerator
}

// NewQuantityGenerator builds a QuantityGeneratorImpl.
func NewQuantityGenerator(values *valuegen.ValueGenerator) *QuantityGeneratorImpl {
	return &QuantityGeneratorImpl{values: values}
}

func (g *QuantityGeneratorImpl) GenerateQuantity(params QuantityGenerationParams, t tracer.Tracer) (decimal.Decimal, error) {
	t.Step("generating order quantity")

	if err := params.Validate(); err != nil {
		return decimal.Zero, err
	}

	multiplier := params.Multiplier
	if multiplier.IsZero() {
		multiplier = DefaultQtyMultiple
	}

	minQty := params.MinQty.Div(multiplier)
	maxQty := params.MaxQty.Div(multiplier)

	randomMax := int(maxQty.Sub(minQty).IntPart())
	randomNumber := g.values.UniformInt(0, randomMax)
	t.Input("randomNumber", randomNumber)

	randomQty := decimal.NewFromInt(int64(randomNumber)).Add(minQty).Mul(multiplier)
	if randomQty.IsZero() {
		randomQty = multiplier
	}
	t.Output("quantity", randomQty)
	return randomQty, nil
}

var _ QuantityGenerator = (*QuantityGeneratorImpl)(nil)
