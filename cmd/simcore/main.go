// Command simcore wires the generation core end to end for local
// demonstration: it loads config, builds a catalog store (a fixture
// store by default, or PostgreSQL when catalog.in_memory is false),
// spins up one engine per configured venue, and drives each engine's
// outbound trading requests into an in-process fakeexchange.Exchange
// so the whole loop — random generation, order placement, matching,
// execution reports — can be observed without any external venue.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordergen/internal/catalog"
	"ordergen/internal/config"
	"ordergen/internal/domain"
	"ordergen/internal/engine"
	"ordergen/internal/fakeexchange"
	"ordergen/internal/logging"
)

func main() {
	configPath := flag.String("config", "simcore.yaml", "path to the bootstrap config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simcore:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "simcore:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simcore:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to build catalog store", zap.Error(err))
	}

	engines := make(map[string]*engine.Engine, len(cfg.Venues))
	for _, venueID := range cfg.Venues {
		eng, err := engine.New(ctx, venueID, store, cfg.Engine, logger.With(zap.String("venue_id", venueID)))
		if err != nil {
			logger.Fatal("failed to build venue engine", zap.String("venue_id", venueID), zap.Error(err))
		}
		engines[venueID] = eng
	}

	for venueID, eng := range engines {
		exchange := fakeexchange.NewExchange(eng, logger.With(zap.String("venue_id", venueID)))

		listings, err := store.Listings(ctx, venueID)
		if err != nil {
			logger.Fatal("failed to list instruments for fake exchange registration", zap.String("venue_id", venueID), zap.Error(err))
		}
		for _, instrument := range listings {
			if !instrument.GeneratorEligible() {
				continue
			}
			instrumentID := fmt.Sprintf("%s:%s", venueID, instrument.Symbol)
			tick := instrument.PriceTickSize
			if tick.Sign() <= 0 {
				tick = decimal.NewFromInt(1)
			}
			exchange.RegisterInstrument(instrumentID, fakeexchange.BookConfig{
				Symbol:   instrument.Symbol,
				TickSize: tick,
				MaxDepth: 50,
			})
		}

		go exchange.Run(eng.Requests())
		eng.Launch()
	}

	logger.Info("simcore running", zap.Strings("venues", cfg.Venues))
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	for venueID, eng := range engines {
		done := make(chan struct{})
		go func() {
			eng.Terminate()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			logger.Warn("venue did not terminate before shutdown deadline", zap.String("venue_id", venueID))
		}
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (catalog.Store, error) {
	if cfg.Catalog.InMemory {
		return fixtureStore(), nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("simcore: parse database dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer connectCancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("simcore: connect to database: %w", err)
	}
	return catalog.NewPgStore(pool), nil
}

// fixtureStore builds a small, self-contained catalog for running
// simcore without a database: one venue with two listings.
func fixtureStore() *catalog.MemStore {
	qtyMultiple := decimal.NewFromInt(1)

	venue := domain.Venue{VenueID: "DEMO", RandomPartiesCount: 5}

	btc := domain.Instrument{
		Symbol:             "BTCUSD",
		SecurityType:       "CRYPTO",
		Currency:           "USD",
		Exchange:           "DEMO",
		PriceTickSize:      decimal.NewFromFloat(0.5),
		RandomOrdersSpread: decimal.NewFromInt(50),
		RandomTickRange:    20,
		QtyMultiple:        qtyMultiple,
		QtyMinimum:         decimal.NewFromInt(1),
		QtyMaximum:         decimal.NewFromInt(10),
		RandomOrdersRate:   4,
	}
	eth := domain.Instrument{
		Symbol:             "ETHUSD",
		SecurityType:       "CRYPTO",
		Currency:           "USD",
		Exchange:           "DEMO",
		PriceTickSize:      decimal.NewFromFloat(0.1),
		RandomOrdersSpread: decimal.NewFromInt(10),
		RandomTickRange:    20,
		QtyMultiple:        qtyMultiple,
		QtyMinimum:         decimal.NewFromInt(1),
		QtyMaximum:         decimal.NewFromInt(25),
		RandomOrdersRate:   2,
	}

	btcMid := decimal.NewFromInt(60000)
	ethMid := decimal.NewFromInt(3000)

	return catalog.NewMemStore().
		WithVenue(venue).
		WithListing(venue.VenueID, btc).
		WithListing(venue.VenueID, eth).
		WithPriceSeed(domain.PriceSeed{Symbol: "BTCUSD", MidPrice: &btcMid}).
		WithPriceSeed(domain.PriceSeed{Symbol: "ETHUSD", MidPrice: &ethMid})
}
