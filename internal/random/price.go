package random

import (
	"math"

	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
	"ordergen/internal/tracer"
	"ordergen/internal/valuegen"
)

// priceGenerationCoefficient is the geometric ratio (and first term)
// used to weight tick draws towards the inside of the book, grounded
// on the original implementation's Constant::PriceGenerationCoefficient.
const priceGenerationCoefficient = 1.05

// PriceGenerationParams configures one price draw.
type PriceGenerationParams struct {
	TickRange uint32
	TickSize  decimal.Decimal
	Spread    decimal.Decimal
}

// PriceGenerator produces a price for one tick's event.
type PriceGenerator interface {
	GeneratePrice(params PriceGenerationParams, market domain.MarketState, seed domain.PriceSeed, event Event, t tracer.Tracer) decimal.Decimal
}

// PriceGeneratorImpl implements the base-price/random-tick algorithm
// from spec.md §4.2, grounded on
// original_source/.../random/generators/price_generator.cpp.
type PriceGeneratorImpl struct {
	values *valuegen.ValueGenerator
}

// NewPriceGenerator builds a PriceGeneratorImpl.
func NewPriceGenerator(values *valuegen.ValueGenerator) *PriceGeneratorImpl {
	return &PriceGeneratorImpl{values: values}
}

func (g *PriceGeneratorImpl) GeneratePrice(params PriceGenerationParams, market domain.MarketState, seed domain.PriceSeed, event Event, t tracer.Tracer) decimal.Decimal {
	t.Step("generating order price")

	basePx, ok := resolveBasePrice(market, params, event)
	if !ok {
		configured := resolveConfiguredPrice(seed, event)
		t.Output("wasConfiguredPxUsed", true)
		t.End()
		return configured
	}
	t.Input("basePx", basePx)

	incrementPx := event.IsBuy() != event.IsResting()
	t.Input("wasBasePxIncrementAdded", incrementPx)

	tick := g.generateTick(params, t)

	if tick.GreaterThanOrEqual(basePx) {
		t.Output("price", tick)
		t.End()
		return tick
	}

	var price decimal.Decimal
	if incrementPx {
		price = basePx.Add(tick)
	} else {
		price = basePx.Sub(tick)
	}
	t.Output("price", price)
	t.End()
	return price
}

func (g *PriceGeneratorImpl) generateTick(params PriceGenerationParams, t tracer.Tracer) decimal.Decimal {
	tickRange := params.TickRange

	geometricSum := int(geometricSeriesSum(tickRange, priceGenerationCoefficient, priceGenerationCoefficient))
	if geometricSum < 1 {
		geometricSum = 1
	}
	t.Input("geometricSum", geometricSum)

	randValue := g.values.UniformInt(0, geometricSum-1)
	t.Input("randomNumber", randValue)

	logBase := priceGenerationCoefficient
	logNum := (float64(randValue)*(logBase-1))/logBase + 1
	pxDeviation := math.Ceil(divideLogs(logBase, logNum))

	randomTick := float64(tickRange) - pxDeviation
	scaledRandomTick := randomTick * tickSizeFloat(params.TickSize)

	tick := decimal.NewFromFloat(scaledRandomTick)
	t.Input("randomTick", tick)
	return tick
}

func tickSizeFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func divideLogs(base, val float64) float64 {
	return math.Log(val) / math.Log(base)
}

func geometricSeriesSum(count uint32, koef, firstValue float64) float64 {
	return (firstValue * (1 - math.Pow(koef, float64(count)))) / (1 - koef)
}

// resolveBasePrice tries the opposite side's best price first,
// applying the configured spread for resting orders to that price,
// then falls back to the same side's best price as-is (no spread
// applied), then reports no base price available.
func resolveBasePrice(market domain.MarketState, params PriceGenerationParams, event Event) (decimal.Decimal, bool) {
	side := event.TargetSide()

	resolved := market.PriceAt(side.Opposite())
	if resolved != nil && !resolved.IsZero() {
		return applySpreadIfResting(*resolved, params, event), true
	}

	resolved = market.PriceAt(side)
	if resolved == nil || resolved.IsZero() {
		return decimal.Zero, false
	}
	return *resolved, true
}

func applySpreadIfResting(price decimal.Decimal, params PriceGenerationParams, event Event) decimal.Decimal {
	if !event.IsResting() {
		return price
	}
	if event.IsBuy() {
		return price.Sub(params.Spread)
	}
	return price.Add(params.Spread)
}

// resolveConfiguredPrice falls back to the instrument's seed price
// when no market state is available yet: seed.bid for Buy, seed.offer
// for Sell, and seed.mid when the side-specific seed field is unset.
func resolveConfiguredPrice(seed domain.PriceSeed, event Event) decimal.Decimal {
	var px *decimal.Decimal
	if event.IsBuy() {
		px = seed.BidPrice
	} else {
		px = seed.OfferPrice
	}
	if px != nil {
		return *px
	}
	if seed.MidPrice != nil {
		return *seed.MidPrice
	}
	return decimal.Zero
}

var _ PriceGenerator = (*PriceGeneratorImpl)(nil)
