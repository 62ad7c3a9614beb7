// Package catalog is the read-only model source the engine queries at
// startup: the venue record, its listings, one price seed per symbol,
// and its enabled datasources. Grounded on spec.md §6's catalog-inputs
// description; the original's DataLayer persistence is outside the
// generator sources retrieved for this pack, so the store here is a
// thin, idiomatic Go reading of the same schema.
package catalog

import (
	"context"

	"ordergen/internal/domain"
)

// Store is the read-only catalog surface the engine depends on.
type Store interface {
	Venue(ctx context.Context, venueID string) (domain.Venue, error)
	Listings(ctx context.Context, venueID string) ([]domain.Instrument, error)
	PriceSeed(ctx context.Context, symbol string) (domain.PriceSeed, bool, error)
	Datasources(ctx context.Context, venueID string) ([]domain.Datasource, error)
}
