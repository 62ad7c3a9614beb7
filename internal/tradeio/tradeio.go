// Package tradeio is the in-process trading request/reply channel
// every instrument's executors send synthetic order traffic over, and
// the matching engine's replies are routed back through. Grounded on
// spec.md §6's trading request channel and replier.cpp's send_message,
// generalized from the request/reply style of limitless's hub/client
// wiring.
package tradeio

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordergen/internal/domain"
)

// InstrumentDescriptor identifies the instrument an order-ish request
// targets, carrying the full security-identifier set a venue might key
// on.
type InstrumentDescriptor struct {
	Symbol            string
	SecurityType      string
	Currency          string
	Exchange          string
	CUSIP             string
	ISIN              string
	SEDOL             string
	RIC               string
	ExchangeSymbol    string
	BloombergSymbolID string
}

// Request is the sum of outbound request shapes the channel accepts.
type Request interface {
	isRequest()
}

// RequestHeader is shared by every outbound request: a correlation id
// for internal tracing, the instrument descriptor, and the id of the
// instrument context the reply must be routed back to.
type RequestHeader struct {
	CorrelationID         uuid.UUID
	RequesterInstrumentID string
	Instrument            InstrumentDescriptor
}

func newHeader(requesterInstrumentID string, instrument InstrumentDescriptor) RequestHeader {
	return RequestHeader{
		CorrelationID:         uuid.New(),
		RequesterInstrumentID: requesterInstrumentID,
		Instrument:            instrument,
	}
}

// OrderPlacementRequest asks the matching engine to accept a new order.
type OrderPlacementRequest struct {
	RequestHeader
	ClientOrderID string
	PartyID       string
	Side          domain.Side
	OrderType     domain.OrderType
	TimeInForce   domain.TimeInForce
	Price         decimal.Decimal
	Quantity      decimal.Decimal
}

func (OrderPlacementRequest) isRequest() {}

// NewOrderPlacementRequest builds an OrderPlacementRequest.
func NewOrderPlacementRequest(requesterInstrumentID string, instrument InstrumentDescriptor, clientOrderID, partyID string, side domain.Side, orderType domain.OrderType, tif domain.TimeInForce, price, quantity decimal.Decimal) OrderPlacementRequest {
	return OrderPlacementRequest{
		RequestHeader: newHeader(requesterInstrumentID, instrument),
		ClientOrderID: clientOrderID,
		PartyID:       partyID,
		Side:          side,
		OrderType:     orderType,
		TimeInForce:   tif,
		Price:         price,
		Quantity:      quantity,
	}
}

// OrderModificationRequest asks the matching engine to replace a
// previously placed order.
type OrderModificationRequest struct {
	RequestHeader
	ClientOrderID     string
	OrigClientOrderID string
	PartyID           string
	Side              domain.Side
	Price             decimal.Decimal
	Quantity          decimal.Decimal
}

func (OrderModificationRequest) isRequest() {}

// NewOrderModificationRequest builds an OrderModificationRequest.
func NewOrderModificationRequest(requesterInstrumentID string, instrument InstrumentDescriptor, clientOrderID, origClientOrderID, partyID string, side domain.Side, price, quantity decimal.Decimal) OrderModificationRequest {
	return OrderModificationRequest{
		RequestHeader:     newHeader(requesterInstrumentID, instrument),
		ClientOrderID:     clientOrderID,
		OrigClientOrderID: origClientOrderID,
		PartyID:           partyID,
		Side:              side,
		Price:             price,
		Quantity:          quantity,
	}
}

// OrderCancellationRequest asks the matching engine to cancel a
// previously placed order.
type OrderCancellationRequest struct {
	RequestHeader
	ClientOrderID     string
	OrigClientOrderID string
	PartyID           string
	Side              domain.Side
}

func (OrderCancellationRequest) isRequest() {}

// NewOrderCancellationRequest builds an OrderCancellationRequest.
func NewOrderCancellationRequest(requesterInstrumentID string, instrument InstrumentDescriptor, clientOrderID, origClientOrderID, partyID string, side domain.Side) OrderCancellationRequest {
	return OrderCancellationRequest{
		RequestHeader:     newHeader(requesterInstrumentID, instrument),
		ClientOrderID:     clientOrderID,
		OrigClientOrderID: origClientOrderID,
		PartyID:           partyID,
		Side:              side,
	}
}

// InstrumentStateRequest asks the matching engine for the current
// market state of one instrument.
type InstrumentStateRequest struct {
	RequestHeader
}

func (InstrumentStateRequest) isRequest() {}

// NewInstrumentStateRequest builds an InstrumentStateRequest.
func NewInstrumentStateRequest(requesterInstrumentID string, instrument InstrumentDescriptor) InstrumentStateRequest {
	return InstrumentStateRequest{RequestHeader: newHeader(requesterInstrumentID, instrument)}
}

// Reply is the sum of inbound reply shapes the channel delivers.
type Reply interface {
	isReply()
}

// OrderPlacementConfirmation acknowledges a placed order.
type OrderPlacementConfirmation struct {
	ClientOrderID string
}

func (OrderPlacementConfirmation) isReply() {}

// OrderPlacementReject reports that a placement was refused.
type OrderPlacementReject struct {
	ClientOrderID string
	Reason        string
}

func (OrderPlacementReject) isReply() {}

// OrderModificationConfirmation acknowledges an order replacement.
type OrderModificationConfirmation struct {
	ClientOrderID string
}

func (OrderModificationConfirmation) isReply() {}

// OrderCancellationConfirmation acknowledges an order cancellation.
type OrderCancellationConfirmation struct {
	ClientOrderID string
}

func (OrderCancellationConfirmation) isReply() {}

// ExecutionReport reports a fill-related order status change.
type ExecutionReport struct {
	ClientOrderID string
	OrderStatus   domain.OrderStatus
	Quantity      *decimal.Decimal
}

func (ExecutionReport) isReply() {}

// InstrumentState answers an InstrumentStateRequest.
type InstrumentState struct {
	Market domain.MarketState
}

func (InstrumentState) isReply() {}

// Bus is the single in-process request channel every executor shares.
// Send is non-blocking: an unbound (nil) channel, or one whose
// consumer isn't keeping up, is logged and the request is dropped
// rather than stalling the caller's executor goroutine.
type Bus struct {
	requests chan Request
	logger   *zap.Logger
}

// NewBus builds a Bus with the given buffer size.
func NewBus(buffer int, logger *zap.Logger) *Bus {
	return &Bus{requests: make(chan Request, buffer), logger: logger}
}

// Requests exposes the receive side for the matching-engine dispatcher.
func (b *Bus) Requests() <-chan Request {
	return b.requests
}

// Send enqueues req, dropping it with a logged error if the channel is
// full (treated the same as an unbound channel per spec.md §6/§7).
func (b *Bus) Send(req Request) {
	select {
	case b.requests <- req:
	default:
		b.logger.Error("failed to send trading request - channel is not bound or saturated")
	}
}

// ReplyHandler receives replies routed to one instrument.
type ReplyHandler interface {
	HandleReply(reply Reply)
}

// ReplyRouter dispatches replies to the instrument that requested
// them, grounded on spec.md §5's process_reply(instrument_id, message).
type ReplyRouter struct {
	mu       sync.RWMutex
	handlers map[string]ReplyHandler
	logger   *zap.Logger
}

// NewReplyRouter builds an empty ReplyRouter.
func NewReplyRouter(logger *zap.Logger) *ReplyRouter {
	return &ReplyRouter{handlers: make(map[string]ReplyHandler), logger: logger}
}

// Register associates instrumentID with the handler that should
// receive its replies.
func (r *ReplyRouter) Register(instrumentID string, handler ReplyHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[instrumentID] = handler
}

// ProcessReply routes reply to the instrument's handler, logging and
// discarding it if the instrument is unknown.
func (r *ReplyRouter) ProcessReply(instrumentID string, reply Reply) {
	r.mu.RLock()
	handler, ok := r.handlers[instrumentID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("reply received for unknown instrument", zap.String("instrument_id", instrumentID))
		return
	}
	handler.HandleReply(reply)
}
