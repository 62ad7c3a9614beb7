// Package processor resolves each record in a scheduled Action to its
// owning instrument context, folds it into that instrument's registry
// via applier.Apply, and forwards the resulting messages onto the
// trading request bus. Grounded on historical/processor.cpp.
package processor

import (
	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/historical/applier"
	"ordergen/internal/historicaldomain"
	"ordergen/internal/requestbuilder"
	"ordergen/internal/tradeio"
)

// Context is one instrument's view onto the historical replayer:
// enough to fold a record into its registry and to address outbound
// trading requests back to this instrument.
type Context interface {
	applier.Context
	Symbol() string
	InstrumentID() string
	InstrumentDescriptor() tradeio.InstrumentDescriptor
}

// Sender is the outbound side of the trading request bus.
type Sender interface {
	Send(req tradeio.Request)
}

// ContextsRegistry resolves a historical record to the instrument
// context it belongs to, keyed by symbol.
type ContextsRegistry struct {
	bySymbol map[string]Context
}

// NewContextsRegistry indexes contexts by symbol, logging and skipping
// any context whose symbol is empty.
func NewContextsRegistry(contexts []Context, logger *zap.Logger) *ContextsRegistry {
	reg := &ContextsRegistry{bySymbol: make(map[string]Context, len(contexts))}
	for _, ctx := range contexts {
		if ctx == nil {
			continue
		}
		symbol := ctx.Symbol()
		if symbol == "" {
			logger.Error("failed to insert listing into historical contexts registry because its symbol is empty",
				zap.String("instrument_id", ctx.InstrumentID()))
			continue
		}
		reg.bySymbol[symbol] = ctx
	}
	return reg
}

// ResolveContext returns the context owning record's instrument, or
// false if no listing claims that symbol.
func (r *ContextsRegistry) ResolveContext(record historicaldomain.Record) (Context, bool) {
	ctx, ok := r.bySymbol[record.Instrument]
	return ctx, ok
}

// ActionProcessor folds a scheduled Action's records into their
// instruments' registries and forwards the resulting trading requests.
type ActionProcessor struct {
	contexts *ContextsRegistry
	sender   Sender
	logger   *zap.Logger
}

// New builds an ActionProcessor over contexts.
func New(contexts *ContextsRegistry, sender Sender, logger *zap.Logger) *ActionProcessor {
	return &ActionProcessor{contexts: contexts, sender: sender, logger: logger}
}

// Process applies every record in action to its resolved instrument
// context and forwards the resulting requests, skipping (with a
// logged warning) any record whose instrument has no listing.
func (p *ActionProcessor) Process(action historicaldomain.Action) {
	for _, record := range action.Records {
		p.processRecord(record)
	}
}

func (p *ActionProcessor) processRecord(record historicaldomain.Record) {
	ctx, ok := p.contexts.ResolveContext(record)
	if !ok {
		p.logger.Warn("can not find corresponding instrument generation context, skipping historical record",
			zap.String("instrument", record.Instrument),
			zap.Uint64("source_row", record.SourceRow))
		return
	}

	messages := applier.Apply(record, ctx, p.logger)
	descriptor := ctx.InstrumentDescriptor()
	for _, message := range messages {
		p.sendMessage(message, ctx.InstrumentID(), descriptor)
	}
}

func (p *ActionProcessor) sendMessage(message domain.GeneratedMessage, instrumentID string, descriptor tradeio.InstrumentDescriptor) {
	req, err := requestbuilder.Build(message, instrumentID, descriptor)
	if err != nil {
		p.logger.Error("failed to build trading request from historical message", zap.Error(err))
		return
	}
	p.sender.Send(req)
}
