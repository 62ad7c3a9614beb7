package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ordergen/internal/catalog"
	"ordergen/internal/config"
	"ordergen/internal/domain"
	"ordergen/internal/executor"
	"ordergen/internal/historical/processor"
	"ordergen/internal/historical/providerfactory"
	"ordergen/internal/historical/replier"
	"ordergen/internal/historical/scheduler"
	"ordergen/internal/manager"
	"ordergen/internal/marketdata"
	"ordergen/internal/random"
	"ordergen/internal/registryupdater"
	"ordergen/internal/tracer"
	"ordergen/internal/tradeio"
	"ordergen/internal/valuegen"
)

// Engine runs one venue's generation core end to end: the random
// algorithm executor for every generator-eligible listing, and, for
// the venue's first enabled datasource, the historical replay
// executor. Grounded on generation_manager.cpp's composition root.
type Engine struct {
	venueID string
	manager *manager.Manager
	bus     *tradeio.Bus
	replies *tradeio.ReplyRouter

	instrumentExecutors []*executor.Executor
	historicalExecutor  *executor.Executor

	logger *zap.Logger
}

// New hydrates venueID's catalog (venue record, listings, enabled
// datasources, then one price seed per eligible listing) concurrently
// via errgroup, and wires every eligible listing's random-generation
// executor plus the first enabled datasource's historical-replay
// executor.
func New(ctx context.Context, venueID string, store catalog.Store, cfg config.EngineConfig, logger *zap.Logger) (*Engine, error) {
	var venue domain.Venue
	var listings []domain.Instrument
	var datasources []domain.Datasource

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		v, err := store.Venue(gctx, venueID)
		if err != nil {
			return fmt.Errorf("engine: load venue %q: %w", venueID, err)
		}
		venue = v
		return nil
	})
	group.Go(func() error {
		l, err := store.Listings(gctx, venueID)
		if err != nil {
			return fmt.Errorf("engine: load listings for venue %q: %w", venueID, err)
		}
		listings = l
		return nil
	})
	group.Go(func() error {
		d, err := store.Datasources(gctx, venueID)
		if err != nil {
			return fmt.Errorf("engine: load datasources for venue %q: %w", venueID, err)
		}
		datasources = d
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	eligible := make([]domain.Instrument, 0, len(listings))
	for _, instrument := range listings {
		if !instrument.GeneratorEligible() {
			logger.Warn("skipping listing that is not generator-eligible",
				zap.String("venue_id", venueID), zap.String("symbol", instrument.Symbol))
			continue
		}
		eligible = append(eligible, instrument)
	}

	seeds := make([]domain.PriceSeed, len(eligible))
	seedGroup, seedCtx := errgroup.WithContext(ctx)
	for i, instrument := range eligible {
		i, instrument := i, instrument
		seedGroup.Go(func() error {
			seed, found, err := store.PriceSeed(seedCtx, instrument.Symbol)
			if err != nil {
				return fmt.Errorf("engine: load price seed for %q: %w", instrument.Symbol, err)
			}
			if found {
				seeds[i] = seed
			} else {
				seeds[i] = domain.PriceSeed{Symbol: instrument.Symbol}
			}
			return nil
		})
	}
	if err := seedGroup.Wait(); err != nil {
		return nil, err
	}

	mgr := manager.New(venue, logger)
	bus := tradeio.NewBus(cfg.TradingRequestBufferSize, logger)
	replies := tradeio.NewReplyRouter(logger)

	e := &Engine{
		venueID: venueID,
		manager: mgr,
		bus:     bus,
		replies: replies,
		logger:  logger,
	}

	contexts := make([]processor.Context, 0, len(eligible))
	launchedAt := time.Now()

	for i, instrument := range eligible {
		instrumentID := fmt.Sprintf("%s:%s", venueID, instrument.Symbol)
		instCtx := NewInstrumentContext(instrumentID, instrument, mgr)
		contexts = append(contexts, instCtx)

		mdProvider := marketdata.New(instrumentID, instCtx.InstrumentDescriptor(), bus, logger)
		updater := registryupdater.New(instCtx.Registry(), logger)
		replies.Register(instrumentID, newInstrumentReplyHandler(mdProvider, updater))

		seed1, seed2 := instrumentSeed(launchedAt, i, instrument.Symbol)
		values := valuegen.New(seed1, seed2)

		events := random.NewEventGenerator(values)
		parties := random.NewPartyGenerator(values, venue.RandomPartiesCount)
		actions := random.NewRestingActionGenerator(values)
		prices := random.NewPriceGenerator(values)
		quantity := random.NewQuantityGenerator(values)

		genCtx := &random.GenerationContext{
			Instrument:  instrument,
			Venue:       venue,
			PriceSeed:   seeds[i],
			Registry:    instCtx.Registry(),
			Identifiers: instCtx,
			MarketData:  mdProvider,
		}
		algorithm := random.NewOrderGenerationAlgorithm(genCtx, events, parties, actions, prices, quantity, updater)

		interval := tickInterval(cfg.TickInterval, instrument.RandomOrdersRate)
		runnable := newRandomExecutable(algorithm, instCtx, bus, tracer.NullTracer{}, interval, logger)

		exec := executor.New(runnable, mgr, logger)
		e.instrumentExecutors = append(e.instrumentExecutors, exec)
		exec.Launch()
	}

	if len(datasources) > 0 {
		ds := datasources[0]
		provider := providerfactory.Create(ctx, ds, logger)
		sched := scheduler.New(provider, logger)
		contextsRegistry := processor.NewContextsRegistry(contexts, logger)
		actionProcessor := processor.New(contextsRegistry, bus, logger)
		rep := replier.New(sched, actionProcessor, logger)

		e.historicalExecutor = executor.New(rep, mgr, logger)
		e.historicalExecutor.Launch()
	}

	return e, nil
}

// tickInterval scales base by an instrument's configured order rate:
// a higher random_orders_rate ticks proportionally more often, never
// faster than once per millisecond.
func tickInterval(base time.Duration, rate uint32) time.Duration {
	if rate <= 1 || base <= 0 {
		return base
	}
	scaled := base / time.Duration(rate)
	if scaled < time.Millisecond {
		return time.Millisecond
	}
	return scaled
}

// instrumentSeed derives a ValueGenerator seed pair unique to one
// instrument within one process run: the process start time mixed
// with a hash of the instrument's position and symbol, so two
// instruments never draw from the same PRNG stream.
func instrumentSeed(launchedAt time.Time, index int, symbol string) (uint64, uint64) {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return uint64(launchedAt.UnixNano()), h.Sum64() ^ uint64(index+1)
}

// Launch transitions the venue to Active, releasing any executors
// that were postponed waiting for launch.
func (e *Engine) Launch() { e.manager.Launch() }

// Suspend transitions the venue to Suspended.
func (e *Engine) Suspend() { e.manager.Suspend() }

// Terminate permanently stops the venue and blocks until every
// executor's goroutine has exited.
func (e *Engine) Terminate() {
	e.manager.Terminate()
	for _, exec := range e.instrumentExecutors {
		exec.Terminate()
	}
	if e.historicalExecutor != nil {
		e.historicalExecutor.Terminate()
	}
}

// Requests exposes the outbound trading-request stream for a matching
// engine (or its test double) to consume.
func (e *Engine) Requests() <-chan tradeio.Request { return e.bus.Requests() }

// HandleReply routes a matching-engine reply for instrumentID back
// into this venue's instruments.
func (e *Engine) HandleReply(instrumentID string, reply tradeio.Reply) {
	e.replies.ProcessReply(instrumentID, reply)
}
