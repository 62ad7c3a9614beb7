// Package dbadapter decodes a database historical datasource into
// historicaldomain.Records via a single "SELECT * FROM <table>"
// query, processed in result order. Grounded on
// historical/adapters/postgresql_connector.cpp.
package dbadapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"ordergen/internal/domain"
	"ordergen/internal/historical/columnmap"
	"ordergen/internal/historicaldomain"
)

// Load connects to ds's database, runs "SELECT * FROM <table>", and
// decodes every row in result order.
func Load(ctx context.Context, ds domain.Datasource) ([]historicaldomain.Record, error) {
	if ds.Format != domain.DatasourceFormatDatabase {
		return nil, fmt.Errorf("dbadapter: datasource %q is not database-formatted", ds.Name)
	}

	conn, err := pgx.Connect(ctx, ds.Connection)
	if err != nil {
		return nil, fmt.Errorf("dbadapter: connect %q: %w", ds.Name, err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, fmt.Sprintf("SELECT * FROM %s;", ds.Table))
	if err != nil {
		return nil, fmt.Errorf("dbadapter: query %q: %w", ds.Table, err)
	}
	defer rows.Close()

	var headerNames []string
	for _, fd := range rows.FieldDescriptions() {
		headerNames = append(headerNames, string(fd.Name))
	}

	mapping, err := columnmap.Build(ds.Columns, headerNames, len(headerNames), ds.MaxDepthLevels)
	if err != nil {
		return nil, fmt.Errorf("dbadapter: %q: %w", ds.Name, err)
	}

	var records []historicaldomain.Record
	sourceRow := uint64(0)
	for rows.Next() {
		sourceRow++
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("dbadapter: reading row %d of %q: %w", sourceRow, ds.Table, err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}

		record, ok := mapping.BuildRecord(row, sourceRow, ds.Name, ds.Connection)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dbadapter: iterating %q: %w", ds.Table, err)
	}

	return records, nil
}
