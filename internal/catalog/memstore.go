package catalog

import (
	"context"
	"fmt"

	"ordergen/internal/domain"
)

// MemStore is a fixed, in-process catalog used for local
// demonstration and tests in place of a database connection.
type MemStore struct {
	venues      map[string]domain.Venue
	listings    map[string][]domain.Instrument
	priceSeeds  map[string]domain.PriceSeed
	datasources map[string][]domain.Datasource
}

// NewMemStore builds an empty MemStore; use the With* methods to
// populate it before passing it to the engine.
func NewMemStore() *MemStore {
	return &MemStore{
		venues:      make(map[string]domain.Venue),
		listings:    make(map[string][]domain.Instrument),
		priceSeeds:  make(map[string]domain.PriceSeed),
		datasources: make(map[string][]domain.Datasource),
	}
}

// WithVenue registers venue.
func (s *MemStore) WithVenue(venue domain.Venue) *MemStore {
	s.venues[venue.VenueID] = venue
	s.datasources[venue.VenueID] = venue.Datasources
	return s
}

// WithListing registers instrument under venueID.
func (s *MemStore) WithListing(venueID string, instrument domain.Instrument) *MemStore {
	s.listings[venueID] = append(s.listings[venueID], instrument)
	return s
}

// WithPriceSeed registers seed.
func (s *MemStore) WithPriceSeed(seed domain.PriceSeed) *MemStore {
	s.priceSeeds[seed.Symbol] = seed
	return s
}

func (s *MemStore) Venue(_ context.Context, venueID string) (domain.Venue, error) {
	v, ok := s.venues[venueID]
	if !ok {
		return domain.Venue{}, fmt.Errorf("catalog: unknown venue %q", venueID)
	}
	return v, nil
}

func (s *MemStore) Listings(_ context.Context, venueID string) ([]domain.Instrument, error) {
	return s.listings[venueID], nil
}

func (s *MemStore) PriceSeed(_ context.Context, symbol string) (domain.PriceSeed, bool, error) {
	seed, ok := s.priceSeeds[symbol]
	return seed, ok, nil
}

func (s *MemStore) Datasources(_ context.Context, venueID string) ([]domain.Datasource, error) {
	var enabled []domain.Datasource
	for _, ds := range s.datasources[venueID] {
		if ds.Enabled {
			enabled = append(enabled, ds)
		}
	}
	return enabled, nil
}

var _ Store = (*MemStore)(nil)
