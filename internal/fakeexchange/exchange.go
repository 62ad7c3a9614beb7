package fakeexchange

import (
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/tradeio"
)

// ReplyRouter is the inbound side of the trading request/reply
// channel, satisfied by *engine.Engine.
type ReplyRouter interface {
	HandleReply(instrumentID string, reply tradeio.Reply)
}

// Exchange dispatches trading requests pulled off an engine's outbound
// bus to the matching per-symbol Book, and forwards confirmations,
// rejects and execution reports back through a ReplyRouter.
type Exchange struct {
	mu     sync.RWMutex
	books  map[string]*bookHandle
	router ReplyRouter
	logger *zap.Logger
}

type bookHandle struct {
	book         *Book
	instrumentID string
}

// NewExchange builds an Exchange that replies through router.
func NewExchange(router ReplyRouter, logger *zap.Logger) *Exchange {
	return &Exchange{books: make(map[string]*bookHandle), router: router, logger: logger}
}

// RegisterInstrument creates (or replaces) the book for cfg.Symbol and
// attributes its trades and replies to instrumentID. It returns the
// Book so a test can seed it directly before requests start flowing.
func (e *Exchange) RegisterInstrument(instrumentID string, cfg BookConfig) *Book {
	book := NewBook(cfg)

	e.mu.Lock()
	e.books[cfg.Symbol] = &bookHandle{book: book, instrumentID: instrumentID}
	e.mu.Unlock()

	go e.forwardTrades(instrumentID, book)
	return book
}

func (e *Exchange) forwardTrades(instrumentID string, book *Book) {
	for trade := range book.Trades() {
		buyQty := trade.BuyRemaining
		e.router.HandleReply(instrumentID, tradeio.ExecutionReport{
			ClientOrderID: trade.BuyClientOrderID,
			OrderStatus:   fillStatus(trade.BuyRemaining),
			Quantity:      &buyQty,
		})
		sellQty := trade.SellRemaining
		e.router.HandleReply(instrumentID, tradeio.ExecutionReport{
			ClientOrderID: trade.SellClientOrderID,
			OrderStatus:   fillStatus(trade.SellRemaining),
			Quantity:      &sellQty,
		})
	}
}

func fillStatus(remaining decimal.Decimal) domain.OrderStatus {
	if remaining.Sign() == 0 {
		return domain.OrderStatusFilled
	}
	return domain.OrderStatusPartiallyFilled
}

// Run consumes requests until the channel is closed, dispatching each
// to its instrument's book and routing the reply back.
func (e *Exchange) Run(requests <-chan tradeio.Request) {
	for req := range requests {
		e.dispatch(req)
	}
}

func (e *Exchange) dispatch(req tradeio.Request) {
	switch r := req.(type) {
	case tradeio.OrderPlacementRequest:
		e.handlePlacement(r)
	case tradeio.OrderModificationRequest:
		e.handleModification(r)
	case tradeio.OrderCancellationRequest:
		e.handleCancellation(r)
	case tradeio.InstrumentStateRequest:
		e.handleInstrumentState(r)
	default:
		e.logger.Warn("fake exchange received a request of unknown shape")
	}
}

func (e *Exchange) bookFor(symbol string) (*Book, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	handle, ok := e.books[symbol]
	if !ok {
		return nil, false
	}
	return handle.book, true
}

func (e *Exchange) handlePlacement(r tradeio.OrderPlacementRequest) {
	book, ok := e.bookFor(r.Instrument.Symbol)
	if !ok {
		e.reject(r.RequesterInstrumentID, r.ClientOrderID, "unknown instrument")
		return
	}

	err := book.Submit(bookOrder{
		ClientOrderID: r.ClientOrderID,
		PartyID:       r.PartyID,
		Side:          r.Side,
		Type:          r.OrderType,
		Price:         r.Price,
		Quantity:      r.Quantity,
	})
	if err != nil {
		e.reject(r.RequesterInstrumentID, r.ClientOrderID, err.Error())
		return
	}
	e.router.HandleReply(r.RequesterInstrumentID, tradeio.OrderPlacementConfirmation{ClientOrderID: r.ClientOrderID})
}

func (e *Exchange) handleModification(r tradeio.OrderModificationRequest) {
	book, ok := e.bookFor(r.Instrument.Symbol)
	if !ok {
		e.logger.Warn("modification request for unknown instrument", zap.String("symbol", r.Instrument.Symbol))
		return
	}
	if err := book.Amend(r.OrigClientOrderID, r.ClientOrderID, r.Price, r.Quantity); err != nil {
		e.logger.Warn("fake exchange failed to amend order", zap.Error(err))
		return
	}
	e.router.HandleReply(r.RequesterInstrumentID, tradeio.OrderModificationConfirmation{ClientOrderID: r.ClientOrderID})
}

func (e *Exchange) handleCancellation(r tradeio.OrderCancellationRequest) {
	book, ok := e.bookFor(r.Instrument.Symbol)
	if !ok {
		e.logger.Warn("cancellation request for unknown instrument", zap.String("symbol", r.Instrument.Symbol))
		return
	}
	if err := book.Cancel(r.OrigClientOrderID); err != nil {
		e.logger.Warn("fake exchange failed to cancel order", zap.Error(err))
		return
	}
	e.router.HandleReply(r.RequesterInstrumentID, tradeio.OrderCancellationConfirmation{ClientOrderID: r.ClientOrderID})
}

func (e *Exchange) handleInstrumentState(r tradeio.InstrumentStateRequest) {
	book, ok := e.bookFor(r.Instrument.Symbol)
	if !ok {
		e.router.HandleReply(r.RequesterInstrumentID, tradeio.InstrumentState{})
		return
	}

	view := book.Snapshot()
	state := domain.MarketState{BidDepthLevels: view.BidDepth, OfferDepthLevels: view.AskDepth}
	if view.BestBid != nil {
		price := view.BestBid.Price
		state.BestBidPrice = &price
	}
	if view.BestAsk != nil {
		price := view.BestAsk.Price
		state.BestOfferPrice = &price
	}
	e.router.HandleReply(r.RequesterInstrumentID, tradeio.InstrumentState{Market: state})
}

func (e *Exchange) reject(instrumentID, clientOrderID, reason string) {
	e.router.HandleReply(instrumentID, tradeio.OrderPlacementReject{ClientOrderID: clientOrderID, Reason: reason})
}
