package tradeio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
	"ordergen/internal/logging"
)

func TestBusSendDropsWhenSaturated(t *testing.T) {
	bus := NewBus(1, logging.NewNop())
	descriptor := InstrumentDescriptor{Symbol: "BTCUSD"}

	bus.Send(NewInstrumentStateRequest("venue:BTCUSD", descriptor))
	bus.Send(NewInstrumentStateRequest("venue:BTCUSD", descriptor)) // buffer full, dropped and logged

	require.Len(t, bus.Requests(), 1)
}

func TestBusRequestsDeliversInOrder(t *testing.T) {
	bus := NewBus(4, logging.NewNop())
	descriptor := InstrumentDescriptor{Symbol: "ETHUSD"}

	first := NewOrderPlacementRequest("venue:ETHUSD", descriptor, "ord1", "CP1", domain.Buy, domain.OrderTypeLimit, domain.TIFDay, decimal.NewFromInt(10), decimal.NewFromInt(1))
	second := NewOrderCancellationRequest("venue:ETHUSD", descriptor, "ord2", "ord1", "CP1", domain.Buy)

	bus.Send(first)
	bus.Send(second)

	require.Equal(t, first, <-bus.Requests())
	require.Equal(t, second, <-bus.Requests())
}

type stubHandler struct {
	received []Reply
}

func (h *stubHandler) HandleReply(reply Reply) { h.received = append(h.received, reply) }

func TestReplyRouterDispatchesToRegisteredHandler(t *testing.T) {
	router := NewReplyRouter(logging.NewNop())
	handler := &stubHandler{}
	router.Register("venue:BTCUSD", handler)

	router.ProcessReply("venue:BTCUSD", OrderPlacementConfirmation{ClientOrderID: "ord1"})

	require.Len(t, handler.received, 1)
	require.Equal(t, OrderPlacementConfirmation{ClientOrderID: "ord1"}, handler.received[0])
}

func TestReplyRouterDiscardsUnknownInstrument(t *testing.T) {
	router := NewReplyRouter(logging.NewNop())
	handler := &stubHandler{}
	router.Register("venue:BTCUSD", handler)

	router.ProcessReply("venue:UNKNOWN", OrderPlacementConfirmation{ClientOrderID: "ord1"})

	require.Empty(t, handler.received)
}

func TestRequestConstructorsStampCorrelationAndInstrument(t *testing.T) {
	descriptor := InstrumentDescriptor{Symbol: "BTCUSD", Currency: "USD"}
	req := NewOrderPlacementRequest("venue:BTCUSD", descriptor, "ord1", "CP1", domain.Sell, domain.OrderTypeLimit, domain.TIFDay, decimal.NewFromInt(100), decimal.NewFromInt(2))

	require.NotEqual(t, req.CorrelationID.String(), "")
	require.Equal(t, descriptor, req.Instrument)
	require.Equal(t, "venue:BTCUSD", req.RequesterInstrumentID)

	another := NewInstrumentStateRequest("venue:BTCUSD", descriptor)
	require.NotEqual(t, req.CorrelationID, another.CorrelationID, "each request must carry a distinct correlation id")
}
