// Package engine wires one venue's catalog, registries, executors,
// and trading-request plumbing into a running generation engine.
// Grounded on generation_manager.cpp/executor.cpp's composition root
// and the order_context family (order_generation_context_impl.cpp)
// that bundles an instrument's collaborators together.
package engine

import (
	"ordergen/internal/domain"
	"ordergen/internal/manager"
	"ordergen/internal/registry"
	"ordergen/internal/requestbuilder"
	"ordergen/internal/tradeio"
)

// InstrumentContext bundles the per-listing state every subsystem
// (the random algorithm, the registry updater, the historical
// applier/processor, the market-data gateway) needs to address and
// mutate one instrument.
type InstrumentContext struct {
	instrument   domain.Instrument
	instrumentID string
	reg          *registry.Registry
	manager      *manager.Manager
	descriptor   tradeio.InstrumentDescriptor
}

// NewInstrumentContext builds the context for one listing within
// venue, identified for reply-routing purposes by instrumentID
// (typically "<venue_id>:<symbol>").
func NewInstrumentContext(instrumentID string, instrument domain.Instrument, mgr *manager.Manager) *InstrumentContext {
	return &InstrumentContext{
		instrument:   instrument,
		instrumentID: instrumentID,
		reg:          registry.New(),
		manager:      mgr,
		descriptor:   requestbuilder.InstrumentDescriptorOf(instrument),
	}
}

// Registry returns this instrument's generated-orders registry.
func (c *InstrumentContext) Registry() *registry.Registry { return c.reg }

// GenerateIdentifier delegates to the venue's shared identifier
// generator.
func (c *InstrumentContext) GenerateIdentifier() string { return c.manager.GenerateIdentifier() }

// Generate satisfies random.IdentifierSource, delegating to the same
// venue-wide identifier generator as GenerateIdentifier.
func (c *InstrumentContext) Generate() string { return c.GenerateIdentifier() }

// Symbol returns the listing's ticker symbol.
func (c *InstrumentContext) Symbol() string { return c.instrument.Symbol }

// InstrumentID returns the id replies to this instrument's outbound
// requests must be routed back to.
func (c *InstrumentContext) InstrumentID() string { return c.instrumentID }

// InstrumentDescriptor returns the wire-level security identifier set
// carried on every outbound trading request for this instrument.
func (c *InstrumentContext) InstrumentDescriptor() tradeio.InstrumentDescriptor {
	return c.descriptor
}

// Instrument returns the underlying catalog listing.
func (c *InstrumentContext) Instrument() domain.Instrument { return c.instrument }
