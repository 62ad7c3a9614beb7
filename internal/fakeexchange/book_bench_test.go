package fakeexchange

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
)

func BenchmarkBookMatchThroughput(b *testing.B) {
	book := NewBook(BookConfig{Symbol: "SIM", TickSize: dec(1), MaxDepth: 2048})
	defer book.Stop()

	randGen := rand.New(rand.NewSource(42))

	var matched int64
	done := make(chan struct{})
	go func() {
		for range book.Trades() {
			atomic.AddInt64(&matched, 1)
		}
		close(done)
	}()

	orders := make([]bookOrder, b.N)
	for i := 0; i < b.N; i++ {
		orders[i] = randomBenchmarkOrder(randGen, i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := book.Submit(orders[i]); err != nil {
			b.Fatalf("submit failed: %v", err)
		}
	}

	book.Stop()
	<-done
	b.StopTimer()

	if elapsed := b.Elapsed(); elapsed > 0 {
		tradesPerSecond := float64(matched) / elapsed.Seconds()
		b.ReportMetric(tradesPerSecond, "trades/sec")
	}
}

func randomBenchmarkOrder(rng *rand.Rand, idx int) bookOrder {
	side := domain.Side(rng.Intn(2))
	base := int64(10_000)
	width := int64(100)
	var price int64
	if side == domain.Buy {
		price = base + rng.Int63n(width)
	} else {
		price = base - rng.Int63n(width)
		if price <= 0 {
			price = 1
		}
	}

	otype := domain.OrderTypeLimit
	if rng.Intn(5) == 0 {
		otype = domain.OrderTypeMarket
	}

	return bookOrder{
		ClientOrderID: fmt.Sprintf("bench-%d", idx),
		Side:          side,
		Type:          otype,
		Price:         decimal.NewFromInt(price),
		Quantity:      decimal.NewFromInt(rng.Int63n(5) + 1),
	}
}
