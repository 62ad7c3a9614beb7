package random

import (
	"fmt"

	"ordergen/internal/tracer"
	"ordergen/internal/valuegen"
)

// CounterpartyIDPrefix is the prefix every synthetically generated
// counterparty id carries.
const CounterpartyIDPrefix = "CP"

// PartyGenerator produces the counterparty id for the current tick.
type PartyGenerator interface {
	GenerateParty(t tracer.Tracer) string
}

// PartyGeneratorImpl draws n in [1, partiesCount] and returns "CP<n>".
type PartyGeneratorImpl struct {
	values       *valuegen.ValueGenerator
	partiesCount uint32
}

// NewPartyGenerator builds a PartyGeneratorImpl for a venue with the
// given random_parties_count.
func NewPartyGenerator(values *valuegen.ValueGenerator, partiesCount uint32) *PartyGeneratorImpl {
	return &PartyGeneratorImpl{values: values, partiesCount: partiesCount}
}

func (g *PartyGeneratorImpl) GenerateParty(t tracer.Tracer) string {
	t.Step("generating order counterparty")
	n := g.values.UniformUint32(1, g.partiesCount)
	t.Input("randomCounterpartyNumber", n)
	id := fmt.Sprintf("%s%d", CounterpartyIDPrefix, n)
	t.Output("partyId", id)
	t.End()
	return id
}

var _ PartyGenerator = (*PartyGeneratorImpl)(nil)
