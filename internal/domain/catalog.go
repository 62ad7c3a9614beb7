package domain

import "github.com/shopspring/decimal"

// Instrument is an immutable catalog record: one listing the generator
// may drive. Zero-value optional numeric knobs are represented with
// pointers so the algorithm can tell "unset" apart from "zero".
type Instrument struct {
	Symbol       string
	SecurityType string
	Currency     string
	Exchange     string

	CUSIP             string
	ISIN              string
	SEDOL             string
	RIC               string
	ExchangeSymbol    string
	BloombergSymbolID string

	RandomDepthLevels *uint32
	RandomTickRange   uint32
	PriceTickSize     decimal.Decimal
	RandomOrdersSpread decimal.Decimal

	QtyMultiple decimal.Decimal
	QtyMinimum  decimal.Decimal
	QtyMaximum  decimal.Decimal

	RandomQtyMin *decimal.Decimal
	RandomQtyMax *decimal.Decimal

	RandomAmtMin *decimal.Decimal
	RandomAmtMax *decimal.Decimal

	RandomAggressiveQtyMin *decimal.Decimal
	RandomAggressiveQtyMax *decimal.Decimal

	RandomAggressiveAmtMin *decimal.Decimal
	RandomAggressiveAmtMax *decimal.Decimal

	RandomOrdersRate uint32
}

// GeneratorEligible reports whether this instrument has the minimum
// configuration required to drive the random generator: a non-empty
// symbol and a sane qty range.
func (i Instrument) GeneratorEligible() bool {
	if i.Symbol == "" {
		return false
	}
	return i.QtyMinimum.LessThanOrEqual(i.QtyMaximum)
}

// Venue is an immutable, venue-scoped configuration record.
type Venue struct {
	VenueID           string
	RandomPartiesCount uint32
	OrdersOnStartup   bool
	Datasources       []Datasource
}

// PriceSeed holds the seed prices used when no market state is
// available yet for an instrument.
type PriceSeed struct {
	Symbol      string
	BidPrice    *decimal.Decimal
	MidPrice    *decimal.Decimal
	OfferPrice  *decimal.Decimal
}

// ColumnMapping maps one semantic CSV/DB column name to a source
// column. ColumnFrom/ColumnTo ending in "#" denote a depth-tagged
// family, expanded once the row width is known (see §6 of the spec).
type ColumnMapping struct {
	ColumnFrom string
	ColumnTo   string
}

// DatasourceFormat distinguishes CSV files from relational tables.
type DatasourceFormat int

const (
	DatasourceFormatCSV DatasourceFormat = iota
	DatasourceFormatDatabase
)

// Datasource describes one historical-replay input: a CSV file or a
// database table, plus the column mapping used to decode it.
type Datasource struct {
	VenueID    string
	Enabled    bool
	Repeat     bool
	Format     DatasourceFormat
	Connection string
	Name       string

	// CSV-specific.
	Delimiter      rune
	HasHeaderRow   bool
	HeaderRowLine  int
	FirstDataLine  int

	// DB-specific.
	Table string

	MaxDepthLevels int
	Columns        []ColumnMapping
}
