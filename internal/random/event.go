// Package random implements the per-tick randomized order-generation
// pipeline: event/party/price/quantity/resting-action generators plus
// the OrderGenerationAlgorithm that combines them with market state
// and the generated-orders registry to produce at most one request per
// tick (spec.md §4.2).
package random

import (
	"ordergen/internal/domain"
	"ordergen/internal/tracer"
	"ordergen/internal/valuegen"
)

// EventKind is the outcome of sampling the event bucket.
type EventKind int

const (
	EventNoOp EventKind = iota
	EventRestingBuy
	EventRestingSell
	EventAggressiveBuy
	EventAggressiveSell
)

// Event names the pair (kind, target side) an EventGenerator produces.
// NoOp has no meaningful side.
type Event struct {
	Kind EventKind
}

func (e Event) IsNoOp() bool       { return e.Kind == EventNoOp }
func (e Event) IsAggressive() bool { return e.Kind == EventAggressiveBuy || e.Kind == EventAggressiveSell }
func (e Event) IsResting() bool    { return e.Kind == EventRestingBuy || e.Kind == EventRestingSell }
func (e Event) IsBuy() bool        { return e.Kind == EventRestingBuy || e.Kind == EventAggressiveBuy }

// TargetSide returns the side the event targets. Only meaningful for
// resting/aggressive events.
func (e Event) TargetSide() domain.Side {
	if e.IsBuy() {
		return domain.Buy
	}
	return domain.Sell
}

const (
	eventMin = 0
	eventMax = 29
)

// eventFromInteger buckets a draw in [0, 29] per spec.md §4.2.
func eventFromInteger(n int) Event {
	switch {
	case n >= 0 && n <= 9:
		return Event{Kind: EventRestingBuy}
	case n >= 10 && n <= 19:
		return Event{Kind: EventRestingSell}
	case n >= 20 && n <= 24:
		return Event{Kind: EventAggressiveBuy}
	case n >= 25 && n <= 28:
		return Event{Kind: EventAggressiveSell}
	default: // 29
		return Event{Kind: EventNoOp}
	}
}

// EventGenerator produces the next tick's event.
type EventGenerator interface {
	GenerateEvent(t tracer.Tracer) Event
}

// EventGeneratorImpl draws the bucketed integer from a ValueGenerator.
type EventGeneratorImpl struct {
	values *valuegen.ValueGenerator
}

// NewEventGenerator builds an EventGeneratorImpl over the given PRNG.
func NewEventGenerator(values *valuegen.ValueGenerator) *EventGeneratorImpl {
	return &EventGeneratorImpl{values: values}
}

func (g *EventGeneratorImpl) GenerateEvent(t tracer.Tracer) Event {
	t.Step("generating order event")
	n := g.values.UniformInt(eventMin, eventMax)
	t.Input("randomEventNumber", n)
	ev := eventFromInteger(n)
	t.Output("event", ev.Kind)
	t.End()
	return ev
}

var _ EventGenerator = (*EventGeneratorImpl)(nil)
