// Package fakeexchange is a test-support matching-engine double: a
// price-time priority order book per instrument, driven by the same
// request/reply shapes the real matching engine would consume and
// produce over internal/tradeio. Adapted from the teacher's
// engine.OrderBook (container/heap worker-loop design, price-time
// queue, depth trimming) onto decimal prices/quantities and the
// synthetic-order domain's client-order-id/counterparty model instead
// of int64 ticks and a bare order ID. A real matching engine is out of
// scope for the generation core itself (spec.md Non-goals); this
// exists so integration tests have something to drive requests
// against and observe replies from.
package fakeexchange

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
)

// bookOrder is one resting or aggressing order inside a single
// instrument's book.
type bookOrder struct {
	ClientOrderID string
	PartyID       string
	Side          domain.Side
	Type          domain.OrderType
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	Remaining     decimal.Decimal
	Timestamp     time.Time
	Sequence      int64
}

// BookView summarizes top-of-book state.
type BookView struct {
	BestBid   *bookOrder
	BestAsk   *bookOrder
	BidDepth  int
	AskDepth  int
}

// Trade captures one completed match. BuyRemaining/SellRemaining are
// each side's remaining quantity immediately after the trade, used to
// decide between a PartiallyFilled and a Filled execution report.
type Trade struct {
	BuyClientOrderID  string
	SellClientOrderID string
	Price             decimal.Decimal
	Quantity          decimal.Decimal
	BuyRemaining      decimal.Decimal
	SellRemaining     decimal.Decimal
	Timestamp         time.Time
}

// BookConfig controls one instrument's book parameters.
type BookConfig struct {
	Symbol   string
	TickSize decimal.Decimal
	MaxDepth int
}

type requestType int

const (
	requestAdd requestType = iota
	requestCancel
	requestAmend
	requestSnapshot
	requestStop
)

type bookRequest struct {
	typ         requestType
	order       bookOrder
	targetID    string
	newOrderID  string
	amendPrice  *decimal.Decimal
	amendQty    *decimal.Decimal
	resp        chan error
	view        chan BookView
}

// Book maintains bids and asks for a single instrument.
type Book struct {
	cfg     BookConfig
	bids    priceTimeQueue
	asks    priceTimeQueue
	orders  map[string]*orderEntry
	seq     int64
	reqCh   chan bookRequest
	trades  chan Trade
	updates chan BookView
	now     func() time.Time
}

// NewBook builds a Book and launches its worker loop.
func NewBook(cfg BookConfig) *Book {
	b := &Book{
		cfg:     cfg,
		orders:  make(map[string]*orderEntry),
		reqCh:   make(chan bookRequest),
		trades:  make(chan Trade, 64),
		updates: make(chan BookView, 16),
		now:     time.Now,
	}
	heap.Init(&b.bids)
	heap.Init(&b.asks)
	go b.run()
	return b
}

// Submit enqueues a new order for matching.
func (b *Book) Submit(order bookOrder) error {
	resp := make(chan error, 1)
	b.reqCh <- bookRequest{typ: requestAdd, order: order, resp: resp}
	return <-resp
}

// Cancel removes a resting order by client order id.
func (b *Book) Cancel(clientOrderID string) error {
	resp := make(chan error, 1)
	b.reqCh <- bookRequest{typ: requestCancel, targetID: clientOrderID, resp: resp}
	return <-resp
}

// Amend replaces the resting order known as origClientOrderID with
// newClientOrderID at the given price/quantity.
func (b *Book) Amend(origClientOrderID, newClientOrderID string, price, qty decimal.Decimal) error {
	resp := make(chan error, 1)
	b.reqCh <- bookRequest{
		typ: requestAmend, targetID: origClientOrderID, newOrderID: newClientOrderID,
		amendPrice: &price, amendQty: &qty, resp: resp,
	}
	return <-resp
}

// Snapshot returns the current top-of-book view.
func (b *Book) Snapshot() BookView {
	resp := make(chan error, 1)
	view := make(chan BookView, 1)
	b.reqCh <- bookRequest{typ: requestSnapshot, resp: resp, view: view}
	<-resp
	return <-view
}

// Trades exposes the stream of executed trades.
func (b *Book) Trades() <-chan Trade { return b.trades }

// Stop gracefully terminates the worker loop.
func (b *Book) Stop() {
	b.reqCh <- bookRequest{typ: requestStop}
}

func (b *Book) run() {
	for req := range b.reqCh {
		switch req.typ {
		case requestAdd:
			req.resp <- b.processAdd(req.order)
			b.publishView()
		case requestCancel:
			req.resp <- b.processCancel(req.targetID)
			b.publishView()
		case requestAmend:
			req.resp <- b.processAmend(req.targetID, req.newOrderID, req.amendPrice, req.amendQty)
			b.publishView()
		case requestSnapshot:
			req.view <- b.snapshotView()
			req.resp <- nil
		case requestStop:
			close(b.trades)
			close(b.updates)
			close(b.reqCh)
			return
		}
	}
}

func (b *Book) processAdd(order bookOrder) error {
	if order.Quantity.Sign() <= 0 {
		return errors.New("fakeexchange: order quantity must be positive")
	}
	if order.Type == domain.OrderTypeLimit {
		if order.Price.Sign() <= 0 {
			return errors.New("fakeexchange: limit order price must be positive")
		}
	}

	b.seq++
	order.Sequence = b.seq
	order.Timestamp = b.now()
	order.Remaining = order.Quantity

	if order.Side == domain.Buy {
		b.match(&order, &b.asks, &b.bids)
	} else {
		b.match(&order, &b.bids, &b.asks)
	}
	return nil
}

func (b *Book) match(incoming *bookOrder, opposing, resting *priceTimeQueue) {
	for incoming.Remaining.Sign() > 0 {
		best := opposing.peek()
		if best == nil {
			break
		}
		if incoming.Type == domain.OrderTypeLimit {
			if incoming.Side == domain.Buy && incoming.Price.LessThan(best.order.Price) {
				break
			}
			if incoming.Side == domain.Sell && incoming.Price.GreaterThan(best.order.Price) {
				break
			}
		}

		tradedQty := decimal.Min(incoming.Remaining, best.order.Remaining)
		tradePrice := best.order.Price
		incoming.Remaining = incoming.Remaining.Sub(tradedQty)
		best.order.Remaining = best.order.Remaining.Sub(tradedQty)

		buyID, sellID := incoming.ClientOrderID, best.order.ClientOrderID
		buyRemaining, sellRemaining := incoming.Remaining, best.order.Remaining
		if incoming.Side != domain.Buy {
			buyID, sellID = sellID, buyID
			buyRemaining, sellRemaining = sellRemaining, buyRemaining
		}

		b.trades <- Trade{
			BuyClientOrderID:  buyID,
			SellClientOrderID: sellID,
			Price:             tradePrice,
			Quantity:          tradedQty,
			BuyRemaining:      buyRemaining,
			SellRemaining:     sellRemaining,
			Timestamp:         b.now(),
		}

		if best.order.Remaining.Sign() == 0 {
			heap.Pop(opposing)
			delete(b.orders, best.order.ClientOrderID)
		} else {
			heap.Fix(opposing, best.index)
		}
	}

	if incoming.Remaining.Sign() > 0 && incoming.Type == domain.OrderTypeLimit {
		entry := &orderEntry{order: incoming, isBid: incoming.Side == domain.Buy}
		heap.Push(resting, entry)
		b.orders[incoming.ClientOrderID] = entry
		trimDepth(resting, b.cfg.MaxDepth, b.orders)
	}
}

func (b *Book) processCancel(clientOrderID string) error {
	entry, ok := b.orders[clientOrderID]
	if !ok {
		return fmt.Errorf("fakeexchange: order %s not found", clientOrderID)
	}
	if entry.isBid {
		b.bids.remove(entry)
	} else {
		b.asks.remove(entry)
	}
	delete(b.orders, clientOrderID)
	return nil
}

func (b *Book) processAmend(origClientOrderID, newClientOrderID string, price, qty *decimal.Decimal) error {
	entry, ok := b.orders[origClientOrderID]
	if !ok {
		return fmt.Errorf("fakeexchange: order %s not found", origClientOrderID)
	}
	if qty != nil {
		if qty.Sign() <= 0 {
			return errors.New("fakeexchange: amended quantity must be positive")
		}
		entry.order.Quantity = *qty
		if entry.order.Remaining.GreaterThan(*qty) {
			entry.order.Remaining = *qty
		}
	}
	if price != nil {
		if price.Sign() <= 0 {
			return errors.New("fakeexchange: amended price must be positive")
		}
		entry.order.Price = *price
	}

	delete(b.orders, origClientOrderID)
	entry.order.ClientOrderID = newClientOrderID
	b.orders[newClientOrderID] = entry

	b.seq++
	entry.order.Sequence = b.seq
	entry.order.Timestamp = b.now()

	if entry.isBid {
		heap.Fix(&b.bids, entry.index)
		trimDepth(&b.bids, b.cfg.MaxDepth, b.orders)
	} else {
		heap.Fix(&b.asks, entry.index)
		trimDepth(&b.asks, b.cfg.MaxDepth, b.orders)
	}
	return nil
}

func (b *Book) snapshotView() BookView {
	view := BookView{BidDepth: b.bids.Len(), AskDepth: b.asks.Len()}
	if best := b.bids.peek(); best != nil {
		copy := *best.order
		view.BestBid = &copy
	}
	if best := b.asks.peek(); best != nil {
		copy := *best.order
		view.BestAsk = &copy
	}
	return view
}

func (b *Book) publishView() {
	view := b.snapshotView()
	select {
	case b.updates <- view:
	default:
	}
}
