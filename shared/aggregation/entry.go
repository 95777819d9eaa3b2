package aggregation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Entry accumulates the statistics of one entity.
type Entry struct {
	SumScore       int64
	Count          int64
	SecondaryIDs   map[string]struct{}
	Attribute      decimal.NullDecimal
	LabelFrequency map[string]int64
}

// NewEntry returns an empty entry.
func NewEntry() *Entry {
	return &Entry{
		SecondaryIDs:   make(map[string]struct{}),
		LabelFrequency: make(map[string]int64),
	}
}

// Clone returns a deep copy.
func (e *Entry) Clone() *Entry {
	c := &Entry{
		SumScore:       e.SumScore,
		Count:          e.Count,
		Attribute:      e.Attribute,
		SecondaryIDs:   make(map[string]struct{}, len(e.SecondaryIDs)),
		LabelFrequency: make(map[string]int64, len(e.LabelFrequency)),
	}
	for id := range e.SecondaryIDs {
		c.SecondaryIDs[id] = struct{}{}
	}
	for label, n := range e.LabelFrequency {
		c.LabelFrequency[label] = n
	}
	return c
}

// AddSecondary records a secondary id in the set.
func (e *Entry) AddSecondary(id string) {
	if e.SecondaryIDs == nil {
		e.SecondaryIDs = make(map[string]struct{})
	}
	e.SecondaryIDs[id] = struct{}{}
}

// AddLabel bumps the frequency of a label.
func (e *Entry) AddLabel(label string, n int64) {
	if e.LabelFrequency == nil {
		e.LabelFrequency = make(map[string]int64)
	}
	e.LabelFrequency[label] += n
}

// SetAttributeOnce keeps the first attribute ever set.
func (e *Entry) SetAttributeOnce(value decimal.NullDecimal) {
	if !e.Attribute.Valid && value.Valid {
		e.Attribute = value
	}
}

// Secondaries returns the secondary ids in sorted order.
func (e *Entry) Secondaries() []string {
	ids := make([]string, 0, len(e.SecondaryIDs))
	for id := range e.SecondaryIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PartialMap holds the entries of one worker, or the merged global map.
type PartialMap map[string]*Entry

// IDs returns the entity ids in sorted order.
func (p PartialMap) IDs() []string {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy.
func (p PartialMap) Clone() PartialMap {
	c := make(PartialMap, len(p))
	for id, e := range p {
		c[id] = e.Clone()
	}
	return c
}

func (p PartialMap) entry(id string) *Entry {
	e, ok := p[id]
	if !ok {
		e = NewEntry()
		p[id] = e
	}
	return e
}
