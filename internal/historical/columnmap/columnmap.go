// Package columnmap resolves a datasource's column-mapping list (read
// from the catalog) into concrete column positions, expanding
// variable-depth ("#") mapping families once the row width is known.
// Grounded on spec.md §6's CSV/database datasource rules; the
// original's equivalent (DataLayer::Converter::ColumnFrom /
// MappingParams) lives outside the generator sources retrieved for
// this pack, so the resolution algorithm below is derived directly
// from the prose rules rather than ported line-for-line.
package columnmap

import (
	"fmt"
	"strconv"
	"strings"

	"ordergen/internal/domain"
)

// Field identifies one semantic historical-record attribute a column
// mapping can populate.
type Field int

const (
	FieldReceivedTimestamp Field = iota
	FieldMessageTimestamp
	FieldInstrument
	FieldBidPrice
	FieldBidQuantity
	FieldBidParty
	FieldAskPrice
	FieldAskQuantity
	FieldAskParty
)

var baseNames = map[string]Field{
	"ReceivedTimeStamp": FieldReceivedTimestamp,
	"MessageTimeStamp":  FieldMessageTimestamp,
	"Instrument":        FieldInstrument,
	"BidPrice":          FieldBidPrice,
	"BidQuantity":       FieldBidQuantity,
	"BidParty":          FieldBidParty,
	"AskPrice":          FieldAskPrice,
	"AskQuantity":       FieldAskQuantity,
	"AskParty":          FieldAskParty,
}

func isDepthField(f Field) bool {
	switch f {
	case FieldReceivedTimestamp, FieldMessageTimestamp, FieldInstrument:
		return false
	default:
		return true
	}
}

func isBidField(f Field) bool {
	return f == FieldBidPrice || f == FieldBidQuantity || f == FieldBidParty
}

func isAskField(f Field) bool {
	return f == FieldAskPrice || f == FieldAskQuantity || f == FieldAskParty
}

// ColumnRef is a resolved column position: a 0-based row index, plus
// the header name it was matched by (for error messages only).
type ColumnRef struct {
	Index int
	Name  string
}

type key struct {
	field Field
	depth int
}

// Mapping is the fully resolved set of column positions for one
// datasource, ready to answer "where does field/depth live in a row".
type Mapping struct {
	refs      map[key]ColumnRef
	BidDepth  int
	AskDepth  int
	ParseDepth int
}

// splitBaseDepth splits a semantic column name like "BidPrice2" into
// its base ("BidPrice") and depth (2); a name with no trailing digits
// is depth 1 for depth-bearing fields, depth 0 otherwise.
func splitBaseDepth(name string) (base string, depth int, err error) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	base = name[:i]
	if i == len(name) {
		field, ok := baseNames[base]
		if !ok {
			return "", 0, fmt.Errorf("columnmap: unknown column semantic name %q", name)
		}
		if isDepthField(field) {
			return base, 1, nil
		}
		return base, 0, nil
	}
	depth, err = strconv.Atoi(name[i:])
	if err != nil || depth < 1 {
		return "", 0, fmt.Errorf("columnmap: invalid depth suffix in column name %q", name)
	}
	return base, depth, nil
}

// Build resolves columns, a datasource's raw column-mapping list,
// against the row shape the datasource will actually produce:
// headerNames is the header row's column names (nil if the datasource
// has none), and rowWidth is the column count of the first data row.
// maxDepth is the datasource's configured max_depth_levels (0 meaning
// unconfigured, in which case the inferred ladder depth is used as-is).
func Build(columns []domain.ColumnMapping, headerNames []string, rowWidth int, maxDepth int) (*Mapping, error) {
	hasHeader := headerNames != nil
	headerIdx := make(map[string]int, len(headerNames))
	for i, n := range headerNames {
		headerIdx[n] = i
	}

	m := &Mapping{refs: make(map[key]ColumnRef)}

	for _, col := range columns {
		fromVariable := strings.HasSuffix(col.ColumnFrom, "#")
		toVariable := strings.HasSuffix(col.ColumnTo, "#")
		if fromVariable != toVariable {
			return nil, fmt.Errorf("columnmap: mapping %q -> %q: column_from and column_to must both, or neither, end with '#'", col.ColumnFrom, col.ColumnTo)
		}
		if !hasHeader && toVariable {
			return nil, fmt.Errorf("columnmap: mapping %q -> %q: variable-depth column_to requires a header row", col.ColumnFrom, col.ColumnTo)
		}
		if !hasHeader {
			if _, err := strconv.Atoi(col.ColumnTo); err != nil {
				return nil, fmt.Errorf("columnmap: mapping %q -> %q: column_to must be numeric without a header row", col.ColumnFrom, col.ColumnTo)
			}
		}

		if fromVariable {
			if err := m.resolveFamily(col, headerIdx); err != nil {
				return nil, err
			}
			continue
		}
		if err := m.resolveSingle(col, hasHeader, headerIdx); err != nil {
			return nil, err
		}
	}

	bidDepth, err := m.ladderDepth(isBidField)
	if err != nil {
		return nil, err
	}
	askDepth, err := m.ladderDepth(isAskField)
	if err != nil {
		return nil, err
	}
	m.BidDepth, m.AskDepth = bidDepth, askDepth

	if maxDepth > 0 {
		if bidDepth > 0 && bidDepth < maxDepth {
			return nil, fmt.Errorf("columnmap: bid depth ladder (%d) shorter than configured max depth (%d)", bidDepth, maxDepth)
		}
		if askDepth > 0 && askDepth < maxDepth {
			return nil, fmt.Errorf("columnmap: ask depth ladder (%d) shorter than configured max depth (%d)", askDepth, maxDepth)
		}
	}

	dataDepth := bidDepth
	if askDepth > dataDepth {
		dataDepth = askDepth
	}
	m.ParseDepth = dataDepth
	if maxDepth > 0 && maxDepth < m.ParseDepth {
		m.ParseDepth = maxDepth
	}

	return m, nil
}

func (m *Mapping) resolveSingle(col domain.ColumnMapping, hasHeader bool, headerIdx map[string]int) error {
	base, depth, err := splitBaseDepth(col.ColumnFrom)
	if err != nil {
		return err
	}
	field := baseNames[base]

	ref, err := resolveTarget(col.ColumnTo, hasHeader, headerIdx)
	if err != nil {
		return fmt.Errorf("columnmap: column_from %q: %w", col.ColumnFrom, err)
	}
	m.refs[key{field, depth}] = ref
	return nil
}

func (m *Mapping) resolveFamily(col domain.ColumnMapping, headerIdx map[string]int) error {
	base := strings.TrimSuffix(col.ColumnFrom, "#")
	field, ok := baseNames[base]
	if !ok {
		return fmt.Errorf("columnmap: unknown column semantic family %q", col.ColumnFrom)
	}

	for depth := 1; ; depth++ {
		name := strings.ReplaceAll(col.ColumnTo, "#", strconv.Itoa(depth))
		idx, ok := headerIdx[name]
		if !ok {
			break
		}
		m.refs[key{field, depth}] = ColumnRef{Index: idx, Name: name}
	}
	return nil
}

func resolveTarget(columnTo string, hasHeader bool, headerIdx map[string]int) (ColumnRef, error) {
	if hasHeader {
		if idx, ok := headerIdx[columnTo]; ok {
			return ColumnRef{Index: idx, Name: columnTo}, nil
		}
		if idx, err := strconv.Atoi(columnTo); err == nil {
			return ColumnRef{Index: idx - 1, Name: columnTo}, nil
		}
		return ColumnRef{}, fmt.Errorf("column_to %q not found in header row", columnTo)
	}
	idx, err := strconv.Atoi(columnTo)
	if err != nil {
		return ColumnRef{}, fmt.Errorf("column_to %q is not numeric", columnTo)
	}
	return ColumnRef{Index: idx - 1, Name: columnTo}, nil
}

func (m *Mapping) ladderDepth(side func(Field) bool) (int, error) {
	maxDepth := 0
	for k := range m.refs {
		if side(k.field) && k.depth > maxDepth {
			maxDepth = k.depth
		}
	}
	for d := 1; d <= maxDepth; d++ {
		found := false
		for f := FieldBidPrice; f <= FieldAskParty; f++ {
			if !side(f) {
				continue
			}
			if _, ok := m.refs[key{f, d}]; ok {
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("columnmap: depth ladder has a gap at level %d", d)
		}
	}
	return maxDepth, nil
}

// ColumnIndex returns the row position mapped to field at depth (0 for
// non-depth fields), or false if unmapped.
func (m *Mapping) ColumnIndex(field Field, depth int) (int, bool) {
	ref, ok := m.refs[key{field, depth}]
	if !ok {
		return 0, false
	}
	return ref.Index, true
}
