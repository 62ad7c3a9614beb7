package fakeexchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"ordergen/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestBookLimitMatch(t *testing.T) {
	b := NewBook(BookConfig{Symbol: "BTCUSD", TickSize: dec(1), MaxDepth: 10})
	defer b.Stop()
	b.now = func() time.Time { return time.Unix(0, 0) }

	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "ask1", Side: domain.Sell, Type: domain.OrderTypeLimit, Price: dec(101), Quantity: dec(5)}))

	b.now = func() time.Time { return time.Unix(1, 0) }
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid1", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(102), Quantity: dec(3)}))

	trade := <-b.Trades()
	require.True(t, trade.Quantity.Equal(dec(3)))
	require.True(t, trade.Price.Equal(dec(101)))
	require.Equal(t, "bid1", trade.BuyClientOrderID)
	require.Equal(t, "ask1", trade.SellClientOrderID)
}

func TestBookMarketOrderConsumesBest(t *testing.T) {
	b := NewBook(BookConfig{Symbol: "ETHUSD", TickSize: dec(1), MaxDepth: 10})
	defer b.Stop()
	b.now = func() time.Time { return time.Unix(0, 0) }

	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "ask1", Side: domain.Sell, Type: domain.OrderTypeLimit, Price: dec(50), Quantity: dec(2)}))
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "ask2", Side: domain.Sell, Type: domain.OrderTypeLimit, Price: dec(55), Quantity: dec(5)}))

	b.now = func() time.Time { return time.Unix(1, 0) }
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "mkt1", Side: domain.Buy, Type: domain.OrderTypeMarket, Quantity: dec(4)}))

	trade1 := <-b.Trades()
	trade2 := <-b.Trades()

	require.True(t, trade1.Price.Equal(dec(50)))
	require.True(t, trade1.Quantity.Equal(dec(2)))
	require.True(t, trade2.Price.Equal(dec(55)))
	require.True(t, trade2.Quantity.Equal(dec(2)))
}

func TestBookAmendAndCancel(t *testing.T) {
	b := NewBook(BookConfig{Symbol: "SOLUSD", TickSize: dec(1), MaxDepth: 5})
	defer b.Stop()
	b.now = func() time.Time { return time.Unix(0, 0) }

	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid1", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(10), Quantity: dec(1)}))
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid2", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(9), Quantity: dec(1)}))

	newPrice := dec(8)
	require.NoError(t, b.Amend("bid2", "bid2replaced", newPrice, dec(1)))
	require.NoError(t, b.Cancel("bid1"))

	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "ask1", Side: domain.Sell, Type: domain.OrderTypeLimit, Price: dec(8), Quantity: dec(1)}))

	trade := <-b.Trades()
	require.Equal(t, "bid2replaced", trade.BuyClientOrderID)
	require.True(t, trade.Price.Equal(dec(8)))
}

func TestBookMaxDepthTrimming(t *testing.T) {
	b := NewBook(BookConfig{Symbol: "ADAUSD", TickSize: dec(1), MaxDepth: 2})
	defer b.Stop()

	b.now = func() time.Time { return time.Unix(0, 0) }
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid1", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(10), Quantity: dec(1)}))
	b.now = func() time.Time { return time.Unix(1, 0) }
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid2", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(9), Quantity: dec(1)}))
	b.now = func() time.Time { return time.Unix(2, 0) }
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid3", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(8), Quantity: dec(1)}))

	view := b.Snapshot()
	require.Equal(t, 2, view.BidDepth)

	_, present := b.orders["bid3"]
	require.False(t, present, "lowest priority order should have been trimmed")
}

func TestBookSnapshotCopiesTopLevels(t *testing.T) {
	b := NewBook(BookConfig{Symbol: "XRPUSD", TickSize: dec(1), MaxDepth: 5})
	defer b.Stop()
	b.now = func() time.Time { return time.Unix(0, 0) }

	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "bid1", Side: domain.Buy, Type: domain.OrderTypeLimit, Price: dec(10), Quantity: dec(1)}))
	require.NoError(t, b.Submit(bookOrder{ClientOrderID: "ask1", Side: domain.Sell, Type: domain.OrderTypeLimit, Price: dec(12), Quantity: dec(1)}))

	view := b.Snapshot()
	require.NotNil(t, view.BestBid)
	require.NotNil(t, view.BestAsk)

	view.BestBid.Price = dec(1)
	second := b.Snapshot()
	require.True(t, second.BestBid.Price.Equal(dec(10)), "snapshot should return a copy, not the live order")
}
