package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
	"ordergen/internal/logging"
	"ordergen/internal/marketdata"
	"ordergen/internal/registry"
	"ordergen/internal/registryupdater"
	"ordergen/internal/tracer"
	"ordergen/internal/tradeio"
)

type discardingSender struct{}

func (discardingSender) Send(tradeio.Request) {}

func TestInstrumentReplyHandlerFoldsExecutionReportIntoRegistry(t *testing.T) {
	reg := registry.New()
	reg.Add(domain.GeneratedOrderData{
		OwnerID:  "CP1",
		OrderID:  "ORD1",
		Side:     domain.Buy,
		Price:    decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(5),
	})

	updater := registryupdater.New(reg, logging.NewNop())
	provider := marketdata.New("venue:BTCUSD", tradeio.InstrumentDescriptor{Symbol: "BTCUSD"}, discardingSender{}, logging.NewNop())
	handler := newInstrumentReplyHandler(provider, updater)

	remaining := decimal.NewFromInt(2)
	handler.HandleReply(tradeio.ExecutionReport{
		ClientOrderID: "ORD1",
		OrderStatus:   domain.OrderStatusPartiallyFilled,
		Quantity:      &remaining,
	})

	stored, ok := reg.FindByIdentifier("ORD1")
	require.True(t, ok)
	require.True(t, stored.Quantity.Equal(remaining))

	handler.HandleReply(tradeio.ExecutionReport{
		ClientOrderID: "ORD1",
		OrderStatus:   domain.OrderStatusFilled,
	})

	_, ok = reg.FindByIdentifier("ORD1")
	require.False(t, ok, "a Filled execution report must remove the order from the registry")
}

func TestInstrumentReplyHandlerForwardsInstrumentStateToMarketData(t *testing.T) {
	reg := registry.New()
	updater := registryupdater.New(reg, logging.NewNop())
	provider := marketdata.New("venue:ETHUSD", tradeio.InstrumentDescriptor{Symbol: "ETHUSD"}, discardingSender{}, logging.NewNop())
	handler := newInstrumentReplyHandler(provider, updater)

	bestBid := decimal.NewFromInt(42)
	handler.HandleReply(tradeio.InstrumentState{Market: domain.MarketState{BestBidPrice: &bestBid}})

	state := provider.CurrentMarketState(tracer.NullTracer{})
	require.NotNil(t, state.BestBidPrice)
	require.True(t, state.BestBidPrice.Equal(bestBid))
}
