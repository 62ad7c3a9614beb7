package random

import (
	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
	"ordergen/internal/registry"
	"ordergen/internal/registryupdater"
	"ordergen/internal/tracer"
)

// MarketDataSource answers a synchronous best-bid/offer and depth query
// for one instrument, used to decide base prices and market-depth gates.
type MarketDataSource interface {
	CurrentMarketState(t tracer.Tracer) domain.MarketState
}

// IdentifierSource produces the next synthetic client order id,
// satisfied by *domain.IdentifierGenerator directly or by an adapter
// over a venue-wide owner such as manager.Manager.
type IdentifierSource interface {
	Generate() string
}

// GenerationContext bundles everything one instrument's
// OrderGenerationAlgorithm needs beyond its own generators: the
// instrument/venue configuration, the seed price used before any
// market state exists, the registry of this instrument's own
// outstanding generated orders, the synthetic identifier generator
// shared across the venue, and a market-data source.
type GenerationContext struct {
	Instrument  domain.Instrument
	Venue       domain.Venue
	PriceSeed   domain.PriceSeed
	Registry    *registry.Registry
	Identifiers IdentifierSource
	MarketData  MarketDataSource
}

// OrderGenerationAlgorithm produces at most one GeneratedMessage per
// tick, grounded on order_generation_algorithm.cpp. A NewOrderSingle,
// OrderCancelReplaceRequest or OrderCancelRequest that this algorithm
// decides to publish is immediately folded back into the context's
// registry through a registryupdater.Updater, keeping the registry
// consistent with what was actually emitted.
type OrderGenerationAlgorithm struct {
	context *GenerationContext

	events   EventGenerator
	parties  PartyGenerator
	actions  RestingActionGenerator
	prices   PriceGenerator
	quantity QuantityGenerator

	qtyParams *QuantityParamsSelector
	updater   *registryupdater.Updater
}

// NewOrderGenerationAlgorithm wires one instrument's generators and
// context into an algorithm instance.
func NewOrderGenerationAlgorithm(
	context *GenerationContext,
	events EventGenerator,
	parties PartyGenerator,
	actions RestingActionGenerator,
	prices PriceGenerator,
	quantity QuantityGenerator,
	updater *registryupdater.Updater,
) *OrderGenerationAlgorithm {
	return &OrderGenerationAlgorithm{
		context:   context,
		events:    events,
		parties:   parties,
		actions:   actions,
		prices:    prices,
		quantity:  quantity,
		qtyParams: NewQuantityParamsSelector(context.Instrument),
		updater:   updater,
	}
}

// Generate runs one tick of the algorithm. It returns the message to
// publish and true, or a zero message and false if this tick produced
// nothing (a NoOp event, an aggressive order with no opposite-side
// liquidity, a resting order blocked by the market-depth ceiling, or a
// quantity draw whose parameters fail validation).
func (a *OrderGenerationAlgorithm) Generate(t tracer.Tracer) (domain.GeneratedMessage, bool) {
	event := a.events.GenerateEvent(t)
	if event.IsNoOp() {
		return domain.GeneratedMessage{}, false
	}

	msg := domain.GeneratedMessage{}
	party := a.parties.GenerateParty(t)
	msg.PartyID = &party

	market := a.context.MarketData.CurrentMarketState(t)

	var publish bool
	if event.IsAggressive() {
		publish = a.fillAggressiveOrder(&msg, market, event, t)
	} else {
		publish = a.fillRestingOrder(&msg, market, event, t)
	}
	// A failed quantity draw leaves Quantity unset on an order that needs one.
	if publish && msg.MessageType != domain.MessageTypeOrderCancelRequest && msg.Quantity == nil {
		publish = false
	}
	if publish && event.IsResting() {
		a.updater.Update(msg)
	}

	if !publish {
		return domain.GeneratedMessage{}, false
	}
	return msg, true
}

func (a *OrderGenerationAlgorithm) fillAggressiveOrder(msg *domain.GeneratedMessage, market domain.MarketState, event Event, t tracer.Tracer) bool {
	if a.isOppositeSideEmpty(event, market, t) {
		return false
	}

	a.assignGeneratedClOrderID(msg, t)

	side := event.TargetSide()
	msg.Side = &side
	msg.MessageType = domain.MessageTypeNewOrderSingle
	setOrderType(msg, domain.OrderTypeMarket)
	setTimeInForce(msg, domain.TIFImmediateOrCancel)

	a.generatePrice(msg, market, event, t)
	a.generateQty(msg, event, t)

	return true
}

func (a *OrderGenerationAlgorithm) fillRestingOrder(msg *domain.GeneratedMessage, market domain.MarketState, event Event, t tracer.Tracer) bool {
	ownerID := *msg.PartyID

	var publish bool
	if existing, ok := a.context.Registry.FindByOwner(ownerID); ok {
		a.updateActiveRestingOrder(msg, market, event, existing, t)
		publish = true
	} else {
		publish = a.prepareNewRestingOrder(msg, market, event, t)
	}

	if publish {
		setOrderType(msg, domain.OrderTypeLimit)
		setTimeInForce(msg, domain.TIFDay)
	}

	return publish
}

func (a *OrderGenerationAlgorithm) updateActiveRestingOrder(msg *domain.GeneratedMessage, market domain.MarketState, event Event, existing domain.GeneratedOrderData, t tracer.Tracer) {
	t.Step("preparing action for the active resting order")
	t.Input("counterpartyId", existing.OwnerID)
	t.Input("orderID", existing.OrderID)
	t.Input("orderSide", existing.Side)
	t.Input("orderPrice", existing.Price)
	t.Input("orderQty", existing.Quantity)

	orderID := existing.OrderID
	msg.ClientOrderID = &orderID
	msg.OrigClOrdID = &orderID
	partyID := existing.OwnerID
	msg.PartyID = &partyID
	side := existing.Side
	msg.Side = &side

	messageType := domain.MessageTypeOrderCancelReplaceRequest
	action := a.actions.GenerateAction(t)

	if action == ActionCancellation {
		messageType = domain.MessageTypeOrderCancelRequest
	} else {
		price := existing.Price
		qty := existing.Quantity
		msg.Price = &price
		msg.Quantity = &qty

		if action == ActionQuantityModification {
			a.generateQty(msg, event, t)
		} else {
			a.generatePrice(msg, market, event, t)
		}
	}

	msg.MessageType = messageType
	t.Output("messageType", messageType.String())
	if action != ActionCancellation {
		t.Output("price", msg.Price)
		t.Output("quantity", msg.Quantity)
	}
	t.End()
}

func (a *OrderGenerationAlgorithm) prepareNewRestingOrder(msg *domain.GeneratedMessage, market domain.MarketState, event Event, t tracer.Tracer) bool {
	if !a.checkMarketDepth(event, market, t) {
		return false
	}

	a.assignGeneratedClOrderID(msg, t)
	msg.MessageType = domain.MessageTypeNewOrderSingle
	side := event.TargetSide()
	msg.Side = &side

	a.generatePrice(msg, market, event, t)
	a.generateQty(msg, event, t)

	return true
}

func (a *OrderGenerationAlgorithm) generatePrice(msg *domain.GeneratedMessage, market domain.MarketState, event Event, t tracer.Tracer) {
	params := PriceGenerationParams{
		TickRange: a.context.Instrument.RandomTickRange,
		TickSize:  a.context.Instrument.PriceTickSize,
		Spread:    a.context.Instrument.RandomOrdersSpread,
	}
	price := a.prices.GeneratePrice(params, market, a.context.PriceSeed, event, t)
	msg.Price = &price
}

func (a *OrderGenerationAlgorithm) generateQty(msg *domain.GeneratedMessage, event Event, t tracer.Tracer) {
	price := decimal.Zero
	if msg.Price != nil {
		price = *msg.Price
	}
	params := a.qtyParams.Select(price, event, t)
	qty, err := a.quantity.GenerateQuantity(params, t)
	if err != nil {
		msg.Quantity = nil
		return
	}
	msg.Quantity = &qty
}

func (a *OrderGenerationAlgorithm) assignGeneratedClOrderID(msg *domain.GeneratedMessage, t tracer.Tracer) {
	t.Step("generating ClOrdID")
	id := a.context.Identifiers.Generate()
	t.Output("clOrdID", id)
	msg.ClientOrderID = &id
	t.End()
}

func (a *OrderGenerationAlgorithm) checkMarketDepth(event Event, market domain.MarketState, t tracer.Tracer) bool {
	t.Step("checking current market depth state")

	partiesCount := a.context.Venue.RandomPartiesCount
	maxDepth := SelectMaxMarketDepth(a.context.Instrument, partiesCount, t)

	if maxDepth == nil {
		t.Input("maximalMarketDepth", "none")
		t.Output("continueGeneration", true)
		t.End()
		return true
	}

	currentDepth := market.DepthAt(event.TargetSide())
	t.Input("maximalMarketDepth", *maxDepth)
	t.Input("currentMarketDepth", currentDepth)

	continueGeneration := uint32(currentDepth) < *maxDepth
	t.Output("continueGeneration", continueGeneration)
	t.End()
	return continueGeneration
}

func (a *OrderGenerationAlgorithm) isOppositeSideEmpty(event Event, market domain.MarketState, t tracer.Tracer) bool {
	t.Step("checking if opposite side has prices")

	side := event.TargetSide()
	opposite := side.Opposite()
	t.Input("currentSide", side)
	t.Input("oppositeSide", opposite)

	oppositePx := market.PriceAt(opposite)
	isEmpty := oppositePx == nil || oppositePx.IsZero()
	t.Output("isOppositeSideEmpty", isEmpty)
	t.End()
	return isEmpty
}

func setOrderType(msg *domain.GeneratedMessage, ot domain.OrderType) {
	msg.OrderType = &ot
}

func setTimeInForce(msg *domain.GeneratedMessage, tif domain.TimeInForce) {
	msg.TimeInForce = &tif
}
