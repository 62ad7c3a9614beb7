// Package historicaldomain holds the value types specific to the
// historical replayer: one depth-snapshot level, one record (a line of
// a CSV file or a database row), and one scheduled action (a group of
// records sharing a receive time).
package historicaldomain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LevelSide is one side of one depth level.
type LevelSide struct {
	Price        *decimal.Decimal
	Quantity     *decimal.Decimal
	Counterparty *string
}

// HasPrice reports whether a price was parsed for this side.
func (s LevelSide) HasPrice() bool { return s.Price != nil }

// HasQuantity reports whether a quantity was parsed for this side.
func (s LevelSide) HasQuantity() bool { return s.Quantity != nil }

// Level is one side-by-side depth level: optional bid and offer data.
type Level struct {
	Bid   LevelSide
	Offer LevelSide
}

// Processable reports whether the level is well-formed: a side must
// carry both price and quantity, or neither.
func (l Level) Processable() bool {
	bidOK := l.Bid.HasPrice() == l.Bid.HasQuantity()
	offerOK := l.Offer.HasPrice() == l.Offer.HasQuantity()
	return bidOK && offerOK
}

// HasBidPart reports whether the level carries a usable bid side.
func (l Level) HasBidPart() bool {
	return l.Processable() && l.Bid.HasPrice() && l.Bid.HasQuantity()
}

// HasOfferPart reports whether the level carries a usable offer side.
func (l Level) HasOfferPart() bool {
	return l.Processable() && l.Offer.HasPrice() && l.Offer.HasQuantity()
}

// Record is one depth-snapshot line: one instrument, a receive time,
// the row it came from, and an ordered vector of levels (index 0 is
// top of book).
type Record struct {
	Instrument       string
	ReceiveTime      time.Time
	SourceRow        uint64
	MessageTime      *time.Time
	SourceName       *string
	SourceConnection *string
	Levels           []Level
}

// HasLevels reports whether the record carries any depth levels.
func (r Record) HasLevels() bool { return len(r.Levels) > 0 }

// Action is the unit the scheduler emits: a non-empty set of records
// that shared one receive time in the source, rebased onto the
// simulator's wall clock as ActionTime.
type Action struct {
	Records    []Record
	ActionTime time.Time
}

// UpdateTime rebases every contained record's ReceiveTime (and
// MessageTime, if set) by the delta between the new action time and
// the action's current ActionTime, then updates ActionTime itself.
func (a *Action) UpdateTime(newActionTime time.Time) {
	delta := newActionTime.Sub(a.ActionTime)
	for i := range a.Records {
		a.Records[i].ReceiveTime = a.Records[i].ReceiveTime.Add(delta)
		if a.Records[i].MessageTime != nil {
			shifted := a.Records[i].MessageTime.Add(delta)
			a.Records[i].MessageTime = &shifted
		}
	}
	a.ActionTime = newActionTime
}
