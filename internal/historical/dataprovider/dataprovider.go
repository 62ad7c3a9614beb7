// Package dataprovider groups a datasource's decoded records into
// time-ordered Actions and rebases their timestamps onto the
// simulator's wall clock. Grounded on historical/data/provider.cpp.
package dataprovider

import (
	"errors"
	"time"

	"ordergen/internal/historicaldomain"
)

// errNoData is returned by PullAction when the provider has nothing
// left to give (FiniteProvider) or genuinely never received any
// records (RepeatingProvider).
var errNoData = errors.New("dataprovider: no data to provide")

// Provider feeds a scheduler one time-grouped Action at a time,
// applying a fixed offset that rebases historical receive times onto
// the wall clock the first time (or, for a repeating provider, each
// time it loops) it is asked to initialize.
type Provider interface {
	IsEmpty() bool
	HasTimeOffset() bool
	InitializeTimeOffset()
	PullAction() (historicaldomain.Action, error)
}

// pullBatch consumes every record at the front of records that shares
// the same ReceiveTime, grounded on FiniteProvider::pullInto /
// RepeatingProvider::pullInto.
func pullBatch(records []historicaldomain.Record) (batch []historicaldomain.Record, rest []historicaldomain.Record) {
	if len(records) == 0 {
		return nil, records
	}
	first := records[0].ReceiveTime
	i := 0
	for i < len(records) && records[i].ReceiveTime.Equal(first) {
		i++
	}
	return records[:i], records[i:]
}

// FiniteProvider exhausts its records exactly once.
type FiniteProvider struct {
	records []historicaldomain.Record
	offset  *time.Duration
}

// NewFinite builds a FiniteProvider over records, which must already
// be in receive-time order.
func NewFinite(records []historicaldomain.Record) *FiniteProvider {
	return &FiniteProvider{records: records}
}

func (p *FiniteProvider) IsEmpty() bool       { return len(p.records) == 0 }
func (p *FiniteProvider) HasTimeOffset() bool { return p.offset != nil }

func (p *FiniteProvider) InitializeTimeOffset() {
	if p.IsEmpty() {
		return
	}
	offset := time.Since(p.records[0].ReceiveTime)
	p.offset = &offset
}

func (p *FiniteProvider) PullAction() (historicaldomain.Action, error) {
	if p.IsEmpty() {
		return historicaldomain.Action{}, errNoData
	}
	if !p.HasTimeOffset() {
		p.InitializeTimeOffset()
	}

	batch, rest := pullBatch(p.records)
	p.records = rest

	return historicaldomain.Action{
		Records:    batch,
		ActionTime: batch[0].ReceiveTime.Add(*p.offset),
	}, nil
}

// RepeatingProvider replays its records indefinitely, re-deriving the
// wall-clock offset each time it loops back to the start.
type RepeatingProvider struct {
	records   []historicaldomain.Record
	processed []historicaldomain.Record
	offset    *time.Duration
}

// NewRepeating builds a RepeatingProvider over records.
func NewRepeating(records []historicaldomain.Record) *RepeatingProvider {
	return &RepeatingProvider{records: records}
}

func (p *RepeatingProvider) IsEmpty() bool {
	return len(p.records) == 0 && len(p.processed) == 0
}

func (p *RepeatingProvider) HasTimeOffset() bool { return p.offset != nil }

func (p *RepeatingProvider) InitializeTimeOffset() {
	if p.IsEmpty() {
		return
	}
	if len(p.records) == 0 {
		p.records, p.processed = p.processed, p.records
	}
	offset := time.Since(p.records[0].ReceiveTime)
	p.offset = &offset
}

func (p *RepeatingProvider) PullAction() (historicaldomain.Action, error) {
	if p.IsEmpty() {
		return historicaldomain.Action{}, errNoData
	}
	if len(p.records) == 0 {
		p.records, p.processed = p.processed, p.records
		p.InitializeTimeOffset()
	}
	if !p.HasTimeOffset() {
		p.InitializeTimeOffset()
	}

	batch, rest := pullBatch(p.records)
	p.records = rest
	p.processed = append(p.processed, batch...)

	return historicaldomain.Action{
		Records:    batch,
		ActionTime: batch[0].ReceiveTime.Add(*p.offset),
	}, nil
}

var (
	_ Provider = (*FiniteProvider)(nil)
	_ Provider = (*RepeatingProvider)(nil)
)
