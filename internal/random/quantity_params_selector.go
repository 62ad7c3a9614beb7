package random

import (
	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
	"ordergen/internal/tracer"
)

// qtyBound remembers whether a min/max bound came from the
// instrument's base qty_min/qty_max or from one of the random_*
// overrides, purely for tracing.
type qtyBound struct {
	value    decimal.Decimal
	fromBase bool
}

// QuantityParamsSelector picks the (multiplier, min, max) quantity
// generation params for one tick, dispatching resting vs. aggressive
// tables exactly per spec.md §4.2 and its "quantity table precedence"
// open question, grounded on
// original_source/.../utils/quantity_params_selector.hpp.
type QuantityParamsSelector struct {
	multiplier decimal.Decimal

	restingMin     qtyBound
	restingMax     qtyBound
	restingAmtMin  *decimal.Decimal
	restingAmtMax  *decimal.Decimal

	aggressiveMin        qtyBound
	aggressiveMax        qtyBound
	aggressiveAmtMin     *decimal.Decimal
	aggressiveAmtMax     *decimal.Decimal
	anyAggressiveMinKnob bool
	anyAggressiveMaxKnob bool
}

// NewQuantityParamsSelector builds a selector bound to one instrument.
func NewQuantityParamsSelector(instrument domain.Instrument) *QuantityParamsSelector {
	s := &QuantityParamsSelector{
		multiplier:    instrument.QtyMultiple,
		restingAmtMin: instrument.RandomAmtMin,
		restingAmtMax: instrument.RandomAmtMax,

		aggressiveAmtMin: instrument.RandomAggressiveAmtMin,
		aggressiveAmtMax: instrument.RandomAggressiveAmtMax,
		anyAggressiveMinKnob: instrument.RandomAggressiveQtyMin != nil || instrument.RandomAggressiveAmtMin != nil,
		anyAggressiveMaxKnob: instrument.RandomAggressiveQtyMax != nil || instrument.RandomAggressiveAmtMax != nil,
	}

	s.restingMin = initQtyMin(instrument.QtyMinimum, instrument.RandomQtyMin)
	s.aggressiveMin = initQtyMin(instrument.QtyMinimum, instrument.RandomAggressiveQtyMin)
	s.restingMax = initQtyMax(instrument.QtyMaximum, instrument.RandomQtyMax)
	s.aggressiveMax = initQtyMax(instrument.QtyMaximum, instrument.RandomAggressiveQtyMax)
	return s
}

func initQtyMin(instrumentMin decimal.Decimal, randomMin *decimal.Decimal) qtyBound {
	if randomMin != nil && randomMin.GreaterThanOrEqual(instrumentMin) {
		return qtyBound{value: *randomMin}
	}
	return qtyBound{value: instrumentMin, fromBase: true}
}

func initQtyMax(instrumentMax decimal.Decimal, randomMax *decimal.Decimal) qtyBound {
	if randomMax != nil && randomMax.LessThanOrEqual(instrumentMax) {
		return qtyBound{value: *randomMax}
	}
	return qtyBound{value: instrumentMax, fromBase: true}
}

// Select returns the quantity generation params for the given price
// and event.
func (s *QuantityParamsSelector) Select(price decimal.Decimal, event Event, t tracer.Tracer) QuantityGenerationParams {
	t.Step("selecting params for quantity generation")

	multiplier := s.multiplier
	if multiplier.IsZero() {
		multiplier = DefaultQtyMultiple
	}

	min := s.selectMin(price, event)
	max := s.selectMax(price, event)

	t.Output("min_qty", min)
	t.Output("max_qty", max)
	t.End()

	return QuantityGenerationParams{Multiplier: multiplier, MinQty: min, MaxQty: max}
}

func (s *QuantityParamsSelector) selectMin(price decimal.Decimal, event Event) decimal.Decimal {
	if event.IsAggressive() && s.anyAggressiveMinKnob {
		return overrideWithAmt(s.aggressiveMin.value, s.aggressiveAmtMin, price, true)
	}
	return overrideWithAmt(s.restingMin.value, s.restingAmtMin, price, true)
}

func (s *QuantityParamsSelector) selectMax(price decimal.Decimal, event Event) decimal.Decimal {
	if event.IsAggressive() && s.anyAggressiveMaxKnob {
		return overrideWithAmt(s.aggressiveMax.value, s.aggressiveAmtMax, price, false)
	}
	return overrideWithAmt(s.restingMax.value, s.restingAmtMax, price, false)
}

// overrideWithAmt applies the random_amt_* override: for a min bound,
// amt/price overrides when it is >= the current bound; for a max
// bound, when it is <= the current bound. No override happens when
// price is zero (division would be meaningless).
func overrideWithAmt(current decimal.Decimal, amt *decimal.Decimal, price decimal.Decimal, isMin bool) decimal.Decimal {
	if amt == nil || price.IsZero() {
		return current
	}
	amtQty := amt.Div(price)
	if isMin {
		if amtQty.GreaterThanOrEqual(current) {
			return amtQty
		}
		return current
	}
	if amtQty.LessThanOrEqual(current) {
		return amtQty
	}
	return current
}
