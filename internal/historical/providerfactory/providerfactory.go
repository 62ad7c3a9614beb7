// Package providerfactory builds a dataprovider.Provider from a
// catalog datasource, picking the CSV or database adapter by format
// and wrapping the decoded records in a FiniteProvider or
// RepeatingProvider per the datasource's repeat flag. Grounded on
// historical/data/provider.cpp's DataProvidersFactoryImpl::createProvider.
package providerfactory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/historical/csvadapter"
	"ordergen/internal/historical/dataprovider"
	"ordergen/internal/historical/dbadapter"
	"ordergen/internal/historicaldomain"
)

// Create decodes ds's records and returns the matching Provider. A
// failed decode is logged and yields a nil Provider rather than an
// error, since one bad datasource must not abort the rest of the
// venue's startup.
func Create(ctx context.Context, ds domain.Datasource, logger *zap.Logger) dataprovider.Provider {
	records, err := load(ctx, ds)
	if err != nil {
		logger.Warn("failed to initialize a data provider for datasource",
			zap.String("datasource", ds.Name), zap.Error(err))
		return nil
	}

	logger.Info("created a data provider for datasource",
		zap.String("datasource", ds.Name),
		zap.Int("records_prepared", len(records)))

	if ds.Repeat {
		return dataprovider.NewRepeating(records)
	}
	return dataprovider.NewFinite(records)
}

func load(ctx context.Context, ds domain.Datasource) ([]historicaldomain.Record, error) {
	switch ds.Format {
	case domain.DatasourceFormatCSV:
		return csvadapter.Load(ds)
	case domain.DatasourceFormatDatabase:
		return dbadapter.Load(ctx, ds)
	default:
		return nil, fmt.Errorf("providerfactory: unknown datasource format for %q", ds.Name)
	}
}
