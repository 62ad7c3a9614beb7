package fakeexchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
	"ordergen/internal/logging"
	"ordergen/internal/tradeio"
)

type recordingRouter struct {
	replies chan reply
}

type reply struct {
	instrumentID string
	value        tradeio.Reply
}

func newRecordingRouter() *recordingRouter {
	return &recordingRouter{replies: make(chan reply, 16)}
}

func (r *recordingRouter) HandleReply(instrumentID string, value tradeio.Reply) {
	r.replies <- reply{instrumentID: instrumentID, value: value}
}

func (r *recordingRouter) next(t *testing.T) reply {
	t.Helper()
	select {
	case rep := <-r.replies:
		return rep
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a reply")
		return reply{}
	}
}

func TestExchangePlacementConfirmsAndReports(t *testing.T) {
	router := newRecordingRouter()
	exchange := NewExchange(router, logging.NewNop())

	descriptor := tradeio.InstrumentDescriptor{Symbol: "BTCUSD"}
	exchange.RegisterInstrument("venue:BTCUSD", BookConfig{Symbol: "BTCUSD", TickSize: dec(1), MaxDepth: 10})

	requests := make(chan tradeio.Request, 8)
	go exchange.Run(requests)

	requests <- tradeio.NewOrderPlacementRequest("venue:BTCUSD", descriptor, "ask1", "CP1", domain.Sell, domain.OrderTypeLimit, domain.TIFDay, dec(101), dec(5))
	confirm := router.next(t)
	require.Equal(t, "venue:BTCUSD", confirm.instrumentID)
	require.IsType(t, tradeio.OrderPlacementConfirmation{}, confirm.value)

	requests <- tradeio.NewOrderPlacementRequest("venue:BTCUSD", descriptor, "bid1", "CP2", domain.Buy, domain.OrderTypeLimit, domain.TIFDay, dec(102), dec(3))

	// The execution reports are forwarded on their own goroutine, so they
	// may arrive before or after the placement confirmation.
	var others []reply
	reports := map[string]tradeio.ExecutionReport{}
	for i := 0; i < 3; i++ {
		rep := router.next(t)
		if er, ok := rep.value.(tradeio.ExecutionReport); ok {
			reports[er.ClientOrderID] = er
			continue
		}
		others = append(others, rep)
	}
	require.Len(t, others, 1)
	require.IsType(t, tradeio.OrderPlacementConfirmation{}, others[0].value)
	require.Len(t, reports, 2)

	askReport, ok := reports["ask1"]
	require.True(t, ok)
	require.Equal(t, domain.OrderStatusPartiallyFilled, askReport.OrderStatus)
	require.True(t, askReport.Quantity.Equal(dec(2)))

	bidReport, ok := reports["bid1"]
	require.True(t, ok)
	require.Equal(t, domain.OrderStatusFilled, bidReport.OrderStatus)
	require.True(t, bidReport.Quantity.Equal(decimal.Zero))

	close(requests)
}

func TestExchangeInstrumentStateReportsBestPrices(t *testing.T) {
	router := newRecordingRouter()
	exchange := NewExchange(router, logging.NewNop())

	descriptor := tradeio.InstrumentDescriptor{Symbol: "ETHUSD"}
	exchange.RegisterInstrument("venue:ETHUSD", BookConfig{Symbol: "ETHUSD", TickSize: dec(1), MaxDepth: 10})

	requests := make(chan tradeio.Request, 8)
	go exchange.Run(requests)

	requests <- tradeio.NewOrderPlacementRequest("venue:ETHUSD", descriptor, "bid1", "CP1", domain.Buy, domain.OrderTypeLimit, domain.TIFDay, dec(10), dec(1))
	router.next(t) // confirmation

	requests <- tradeio.NewInstrumentStateRequest("venue:ETHUSD", descriptor)
	stateReply := router.next(t)

	state, ok := stateReply.value.(tradeio.InstrumentState)
	require.True(t, ok)
	require.NotNil(t, state.Market.BestBidPrice)
	require.True(t, state.Market.BestBidPrice.Equal(dec(10)))

	close(requests)
}
