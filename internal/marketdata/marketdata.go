// Package marketdata issues the synchronous request/reply call the
// random generation algorithm uses to observe one instrument's
// current market state. Grounded on
// context/order_market_data_provider.cpp's getMarketState, which
// sends an InstrumentStateRequest and blocks for its InstrumentState
// reply, returning a zero-value MarketState on any failure.
package marketdata

import (
	"time"

	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/random"
	"ordergen/internal/tracer"
	"ordergen/internal/tradeio"
)

// defaultTimeout bounds how long a Provider waits for a reply before
// treating the call as failed, mirroring the original's swallow-all
// try/catch around a call that in this venue is normally answered
// within the same scheduling tick.
const defaultTimeout = 50 * time.Millisecond

// Sender is the outbound side of the trading request bus.
type Sender interface {
	Send(req tradeio.Request)
}

// Provider is one instrument's synchronous market-state gateway: it
// sends an InstrumentStateRequest and blocks for the matching
// InstrumentState reply, which HandleReply delivers from the reply
// router.
type Provider struct {
	instrumentID string
	descriptor   tradeio.InstrumentDescriptor
	sender       Sender
	logger       *zap.Logger
	replies      chan domain.MarketState
}

// New builds a Provider for one instrument.
func New(instrumentID string, descriptor tradeio.InstrumentDescriptor, sender Sender, logger *zap.Logger) *Provider {
	return &Provider{
		instrumentID: instrumentID,
		descriptor:   descriptor,
		sender:       sender,
		logger:       logger,
		replies:      make(chan domain.MarketState, 1),
	}
}

// HandleReply delivers an InstrumentState reply to a blocked
// CurrentMarketState call; any other reply shape is ignored, since a
// Provider's sole concern is instrument-state queries.
func (p *Provider) HandleReply(reply tradeio.Reply) {
	state, ok := reply.(tradeio.InstrumentState)
	if !ok {
		return
	}
	select {
	case p.replies <- state.Market:
	default:
	}
}

// CurrentMarketState implements random.MarketDataSource: it sends an
// InstrumentStateRequest and blocks for its reply, returning a
// zero-value MarketState (empty sides) if none arrives within
// defaultTimeout, matching the original's catch-all failure handling.
func (p *Provider) CurrentMarketState(t tracer.Tracer) domain.MarketState {
	t.Step("query market state")
	p.sender.Send(tradeio.NewInstrumentStateRequest(p.instrumentID, p.descriptor))

	select {
	case state := <-p.replies:
		t.Output("market_state", state)
		return state
	case <-time.After(defaultTimeout):
		p.logger.Warn("timed out waiting for instrument state reply", zap.String("instrument_id", p.instrumentID))
		return domain.MarketState{}
	}
}

var _ random.MarketDataSource = (*Provider)(nil)
