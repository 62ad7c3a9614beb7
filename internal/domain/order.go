package domain

import "github.com/shopspring/decimal"

// GeneratedOrderData is the per-counterparty resting-order record held
// by the registry. OwnerID and OrderID are both unique within one
// instrument's registry.
type GeneratedOrderData struct {
	OwnerID     string
	OrderID     string
	OrigOrderID string // set once, on the first id-changing update
	Side        Side
	Price       decimal.Decimal
	Quantity    decimal.Decimal
}

// Patch describes a mutation to apply to a stored GeneratedOrderData.
// A nil field means "leave unchanged".
type Patch struct {
	NewOrderID *string
	NewPrice   *decimal.Decimal
	NewQty     *decimal.Decimal
}

// Apply mutates data in place per the patch, setting OrigOrderID the
// first time (and only the first time) the order id changes.
func (d *GeneratedOrderData) Apply(p Patch) {
	if p.NewOrderID != nil && *p.NewOrderID != d.OrderID {
		if d.OrigOrderID == "" {
			d.OrigOrderID = d.OrderID
		}
		d.OrderID = *p.NewOrderID
	}
	if p.NewPrice != nil {
		d.Price = *p.NewPrice
	}
	if p.NewQty != nil {
		d.Quantity = *p.NewQty
	}
}

// GeneratedMessage is the neutral intent record produced by the
// random algorithm and the historical record applier, and consumed by
// the registry updater and the request converter.
type GeneratedMessage struct {
	MessageType MessageType

	OrderType     *OrderType
	TimeInForce   *TimeInForce
	Side          *Side
	Price         *decimal.Decimal
	Quantity      *decimal.Decimal
	ClientOrderID *string
	OrigClOrdID   *string
	PartyID       *string
	OrderStatus   *OrderStatus
}

// IsRestingOrder reports whether the message carries the resting-order
// shape the registry updater is willing to process: Limit type, Day
// time-in-force.
func (m GeneratedMessage) IsRestingOrder() bool {
	if m.OrderType == nil || m.TimeInForce == nil {
		return false
	}
	return *m.OrderType == OrderTypeLimit && *m.TimeInForce == TIFDay
}

// MarketState is a snapshot of best bid/offer and depth for one
// instrument, as returned by the market-data provider.
type MarketState struct {
	BestBidPrice   *decimal.Decimal
	BestOfferPrice *decimal.Decimal
	BidDepthLevels  int
	OfferDepthLevels int
}

// PriceAt returns the best price on the given side, or nil if absent.
func (m MarketState) PriceAt(side Side) *decimal.Decimal {
	if side == Buy {
		return m.BestBidPrice
	}
	return m.BestOfferPrice
}

// DepthAt returns the current depth on the given side.
func (m MarketState) DepthAt(side Side) int {
	if side == Buy {
		return m.BidDepthLevels
	}
	return m.OfferDepthLevels
}
