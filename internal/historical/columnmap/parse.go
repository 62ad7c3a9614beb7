package columnmap

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ordergen/internal/historicaldomain"
)

// timestampLayouts covers "YYYY-MM-DD HH:MM:SS" with an optional
// fractional-seconds suffix, parsed to microsecond precision.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.Truncate(time.Microsecond), true
		}
	}
	return time.Time{}, false
}

func parseDecimal(cell string) (decimal.Decimal, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func cellAt(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

func (m *Mapping) decimalField(row []string, field Field, depth int) *decimal.Decimal {
	idx, ok := m.ColumnIndex(field, depth)
	if !ok {
		return nil
	}
	cell, ok := cellAt(row, idx)
	if !ok {
		return nil
	}
	value, ok := parseDecimal(cell)
	if !ok {
		return nil
	}
	return &value
}

func (m *Mapping) stringField(row []string, field Field, depth int) *string {
	idx, ok := m.ColumnIndex(field, depth)
	if !ok {
		return nil
	}
	cell, ok := cellAt(row, idx)
	if !ok || strings.TrimSpace(cell) == "" {
		return nil
	}
	value := strings.TrimSpace(cell)
	return &value
}

// BuildRecord decodes one row into a historicaldomain.Record, applying
// m's resolved column positions. sourceRow/sourceName/sourceConnection
// are stamped onto the record as-is; instrument is a mandatory
// attribute, so a row lacking it yields (Record{}, false).
func (m *Mapping) BuildRecord(row []string, sourceRow uint64, sourceName, sourceConnection string) (historicaldomain.Record, bool) {
	instrument := m.stringField(row, FieldInstrument, 0)
	if instrument == nil {
		return historicaldomain.Record{}, false
	}

	record := historicaldomain.Record{
		Instrument:       *instrument,
		SourceRow:        sourceRow,
		SourceName:       &sourceName,
		SourceConnection: &sourceConnection,
	}

	if idx, ok := m.ColumnIndex(FieldReceivedTimestamp, 0); ok {
		if cell, ok := cellAt(row, idx); ok {
			if t, ok := parseTimestamp(cell); ok {
				record.ReceiveTime = t
			}
		}
	}
	if idx, ok := m.ColumnIndex(FieldMessageTimestamp, 0); ok {
		if cell, ok := cellAt(row, idx); ok {
			if t, ok := parseTimestamp(cell); ok {
				record.MessageTime = &t
			}
		}
	}

	for depth := 1; depth <= m.ParseDepth; depth++ {
		level := historicaldomain.Level{
			Bid: historicaldomain.LevelSide{
				Price:        m.decimalField(row, FieldBidPrice, depth),
				Quantity:     m.decimalField(row, FieldBidQuantity, depth),
				Counterparty: m.stringField(row, FieldBidParty, depth),
			},
			Offer: historicaldomain.LevelSide{
				Price:        m.decimalField(row, FieldAskPrice, depth),
				Quantity:     m.decimalField(row, FieldAskQuantity, depth),
				Counterparty: m.stringField(row, FieldAskParty, depth),
			},
		}
		if level.Bid.HasPrice() || level.Bid.HasQuantity() || level.Offer.HasPrice() || level.Offer.HasQuantity() {
			record.Levels = append(record.Levels, level)
		}
	}

	return record, true
}
