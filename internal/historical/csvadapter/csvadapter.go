// Package csvadapter decodes a CSV historical datasource into
// historicaldomain.Records. Grounded on historical/adapters/csv_reader.cpp's
// row-trimming and depth-inference behavior; no CSV parsing library
// appears among the example pack's dependencies, so this uses the
// standard library's encoding/csv (see DESIGN.md).
package csvadapter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"ordergen/internal/domain"
	"ordergen/internal/historical/columnmap"
	"ordergen/internal/historicaldomain"
)

// Load reads and decodes every data row of ds, a CSV-format
// domain.Datasource, in file order.
func Load(ds domain.Datasource) ([]historicaldomain.Record, error) {
	if ds.Format != domain.DatasourceFormatCSV {
		return nil, fmt.Errorf("csvadapter: datasource %q is not CSV-formatted", ds.Name)
	}

	f, err := os.Open(ds.Connection)
	if err != nil {
		return nil, fmt.Errorf("csvadapter: open %q: %w", ds.Connection, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if ds.Delimiter != 0 {
		reader.Comma = ds.Delimiter
	}
	reader.FieldsPerRecord = -1

	var headerNames []string
	rowSentinel := uint64(0)
	dataRowNumber := uint64(ds.FirstDataLine)

	var rawRows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvadapter: reading %q: %w", ds.Connection, err)
		}

		rowSentinel++
		if ds.HasHeaderRow && rowSentinel == uint64(ds.HeaderRowLine) {
			headerNames = row
			continue
		}
		if rowSentinel >= dataRowNumber {
			rawRows = append(rawRows, row)
		}
	}

	rowWidth := len(headerNames)
	if rowWidth == 0 && len(rawRows) > 0 {
		rowWidth = len(rawRows[0])
	}

	var headerArg []string
	if ds.HasHeaderRow {
		headerArg = headerNames
	}

	mapping, err := columnmap.Build(ds.Columns, headerArg, rowWidth, ds.MaxDepthLevels)
	if err != nil {
		return nil, fmt.Errorf("csvadapter: %q: %w", ds.Name, err)
	}

	records := make([]historicaldomain.Record, 0, len(rawRows))
	for i, row := range rawRows {
		sourceRow := dataRowNumber + uint64(i)
		record, ok := mapping.BuildRecord(row, sourceRow, ds.Name, ds.Connection)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
