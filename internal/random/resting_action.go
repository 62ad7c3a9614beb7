package random

import (
	"ordergen/internal/tracer"
	"ordergen/internal/valuegen"
)

// RestingActionKind is the action to take on an existing resting order.
type RestingActionKind int

const (
	ActionQuantityModification RestingActionKind = iota
	ActionPriceModification
	ActionCancellation
)

const (
	restingActionMin = 0
	restingActionMax = 19
)

// restingActionFromInteger buckets a draw in [0, 19] per spec.md §4.2.
func restingActionFromInteger(n int) RestingActionKind {
	switch {
	case n >= 0 && n <= 8:
		return ActionQuantityModification
	case n >= 9 && n <= 17:
		return ActionPriceModification
	default: // 18, 19
		return ActionCancellation
	}
}

// RestingActionGenerator decides what to do to an existing resting order.
type RestingActionGenerator interface {
	GenerateAction(t tracer.Tracer) RestingActionKind
}

// RestingActionGeneratorImpl draws the bucketed integer from a ValueGenerator.
type RestingActionGeneratorImpl struct {
	values *valuegen.ValueGenerator
}

// NewRestingActionGenerator builds a RestingActionGeneratorImpl.
func NewRestingActionGenerator(values *valuegen.ValueGenerator) *RestingActionGeneratorImpl {
	return &RestingActionGeneratorImpl{values: values}
}

func (g *RestingActionGeneratorImpl) GenerateAction(t tracer.Tracer) RestingActionKind {
	t.Step("generating resting order action")
	n := g.values.UniformInt(restingActionMin, restingActionMax)
	t.Input("randomActionNumber", n)
	action := restingActionFromInteger(n)
	t.Output("action", action)
	t.End()
	return action
}

var _ RestingActionGenerator = (*RestingActionGeneratorImpl)(nil)
