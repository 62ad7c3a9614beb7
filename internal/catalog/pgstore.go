package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"ordergen/internal/domain"
)

// PgStore reads the catalog from a PostgreSQL-compatible database via
// a pooled connection, grounded on the original's pqxx-backed
// DataLayer access pattern and spec.md §6's catalog-inputs contract.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps an already-connected pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Venue(ctx context.Context, venueID string) (domain.Venue, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT venue_id, random_parties_count, orders_on_startup FROM venue WHERE venue_id = $1`,
		venueID)

	var v domain.Venue
	if err := row.Scan(&v.VenueID, &v.RandomPartiesCount, &v.OrdersOnStartup); err != nil {
		return domain.Venue{}, fmt.Errorf("catalog: query venue %q: %w", venueID, err)
	}

	datasources, err := s.Datasources(ctx, venueID)
	if err != nil {
		return domain.Venue{}, err
	}
	v.Datasources = datasources
	return v, nil
}

func (s *PgStore) Listings(ctx context.Context, venueID string) ([]domain.Instrument, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT symbol, security_type, currency, exchange,
		       cusip, isin, sedol, ric, exchange_symbol, bloomberg_symbol_id,
		       random_depth_levels, random_tick_range, price_tick_size, random_orders_spread,
		       qty_multiple, qty_minimum, qty_maximum,
		       random_qty_min, random_qty_max, random_amt_min, random_amt_max,
		       random_aggressive_qty_min, random_aggressive_qty_max,
		       random_aggressive_amt_min, random_aggressive_amt_max,
		       random_orders_rate
		FROM listing WHERE venue_id = $1`, venueID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query listings for venue %q: %w", venueID, err)
	}
	defer rows.Close()

	var listings []domain.Instrument
	for rows.Next() {
		var in domain.Instrument
		var randomDepthLevels *uint32
		var randomQtyMin, randomQtyMax *decimal.Decimal
		var randomAmtMin, randomAmtMax *decimal.Decimal
		var randomAggQtyMin, randomAggQtyMax *decimal.Decimal
		var randomAggAmtMin, randomAggAmtMax *decimal.Decimal

		err := rows.Scan(
			&in.Symbol, &in.SecurityType, &in.Currency, &in.Exchange,
			&in.CUSIP, &in.ISIN, &in.SEDOL, &in.RIC, &in.ExchangeSymbol, &in.BloombergSymbolID,
			&randomDepthLevels, &in.RandomTickRange, &in.PriceTickSize, &in.RandomOrdersSpread,
			&in.QtyMultiple, &in.QtyMinimum, &in.QtyMaximum,
			&randomQtyMin, &randomQtyMax, &randomAmtMin, &randomAmtMax,
			&randomAggQtyMin, &randomAggQtyMax,
			&randomAggAmtMin, &randomAggAmtMax,
			&in.RandomOrdersRate,
		)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan listing row: %w", err)
		}

		in.RandomDepthLevels = randomDepthLevels
		in.RandomQtyMin, in.RandomQtyMax = randomQtyMin, randomQtyMax
		in.RandomAmtMin, in.RandomAmtMax = randomAmtMin, randomAmtMax
		in.RandomAggressiveQtyMin, in.RandomAggressiveQtyMax = randomAggQtyMin, randomAggQtyMax
		in.RandomAggressiveAmtMin, in.RandomAggressiveAmtMax = randomAggAmtMin, randomAggAmtMax

		if in.Symbol == "" {
			continue
		}
		listings = append(listings, in)
	}
	return listings, rows.Err()
}

func (s *PgStore) PriceSeed(ctx context.Context, symbol string) (domain.PriceSeed, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT symbol, bid_price, mid_price, offer_price FROM price_seed WHERE symbol = $1`, symbol)

	var seed domain.PriceSeed
	err := row.Scan(&seed.Symbol, &seed.BidPrice, &seed.MidPrice, &seed.OfferPrice)
	if err == pgx.ErrNoRows {
		return domain.PriceSeed{}, false, nil
	}
	if err != nil {
		return domain.PriceSeed{}, false, fmt.Errorf("catalog: query price seed for %q: %w", symbol, err)
	}
	return seed, true, nil
}

func (s *PgStore) Datasources(ctx context.Context, venueID string) ([]domain.Datasource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT venue_id, enabled, repeat, format, connection, name,
		       delimiter, has_header_row, header_row_line, first_data_line,
		       table_name, max_depth_levels
		FROM datasource WHERE venue_id = $1 AND enabled = true`, venueID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query datasources for venue %q: %w", venueID, err)
	}
	defer rows.Close()

	var datasources []domain.Datasource
	for rows.Next() {
		var ds domain.Datasource
		var format int
		var delimiter string

		err := rows.Scan(
			&ds.VenueID, &ds.Enabled, &ds.Repeat, &format, &ds.Connection, &ds.Name,
			&delimiter, &ds.HasHeaderRow, &ds.HeaderRowLine, &ds.FirstDataLine,
			&ds.Table, &ds.MaxDepthLevels,
		)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan datasource row: %w", err)
		}
		ds.Format = domain.DatasourceFormat(format)
		if len(delimiter) > 0 {
			ds.Delimiter = rune(delimiter[0])
		}

		columns, err := s.columnMappings(ctx, ds.Name, ds.VenueID)
		if err != nil {
			return nil, err
		}
		ds.Columns = columns

		datasources = append(datasources, ds)
	}
	return datasources, rows.Err()
}

func (s *PgStore) columnMappings(ctx context.Context, datasourceName, venueID string) ([]domain.ColumnMapping, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT column_from, column_to FROM datasource_column_mapping
		WHERE datasource_name = $1 AND venue_id = $2`, datasourceName, venueID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query column mappings for %q: %w", datasourceName, err)
	}
	defer rows.Close()

	var mappings []domain.ColumnMapping
	for rows.Next() {
		var m domain.ColumnMapping
		if err := rows.Scan(&m.ColumnFrom, &m.ColumnTo); err != nil {
			return nil, fmt.Errorf("catalog: scan column mapping row: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

var _ Store = (*PgStore)(nil)
