package random

import (
	"ordergen/internal/domain"
	"ordergen/internal/tracer"
)

// SelectMaxMarketDepth resolves the depth ceiling used to decide
// whether a new resting order may be placed on a side that already
// has no counterparty entry (spec.md §4.2 step 5b, and the "depth
// levels ceiling" open question in §9): when random_depth_levels is
// set, the cap is min(random_depth_levels, partiesCount); when unset,
// the cap is partiesCount alone, and when partiesCount is also 0 it
// returns nil, meaning no cap.
func SelectMaxMarketDepth(instrument domain.Instrument, partiesCount uint32, t tracer.Tracer) *uint32 {
	t.Step("selecting maximal instrument depth value")
	t.Input("maxPartiesCount", partiesCount)

	if instrument.RandomDepthLevels == nil {
		if partiesCount == 0 {
			t.Output("maxDepthLevels", "none")
			t.End()
			return nil
		}
		t.Output("maxDepthLevels", partiesCount)
		t.End()
		result := partiesCount
		return &result
	}

	levels := *instrument.RandomDepthLevels
	t.Input("randomDepthLevels", levels)

	var result uint32
	if levels <= partiesCount {
		result = levels
	} else {
		result = partiesCount
	}
	t.Output("maxDepthLevels", result)
	t.End()
	return &result
}
