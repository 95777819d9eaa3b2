package report

import (
	"fmt"
	"sort"

	"github.com/golang/snappy"
	"github.com/shopspring/decimal"

	"github.com/reviewstats/partagg/protocol/common"
	"github.com/reviewstats/partagg/shared/aggregation"
)

// EncodePartial serializes a partial map with entries in id order, then
// compresses it with snappy.
func EncodePartial(partial aggregation.PartialMap) ([]byte, error) {
	w := common.NewWriter(0)
	w.PutUint32(uint32(len(partial)))
	for _, id := range partial.IDs() {
		e := partial[id]
		w.PutString(id)
		w.PutInt64(e.SumScore)
		w.PutInt64(e.Count)

		secondaries := e.Secondaries()
		w.PutUint32(uint32(len(secondaries)))
		for _, s := range secondaries {
			w.PutString(s)
		}

		w.PutBool(e.Attribute.Valid)
		if e.Attribute.Valid {
			w.PutString(e.Attribute.Decimal.String())
		}

		labels := make([]string, 0, len(e.LabelFrequency))
		for label := range e.LabelFrequency {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		w.PutUint32(uint32(len(labels)))
		for _, label := range labels {
			w.PutString(label)
			w.PutInt64(e.LabelFrequency[label])
		}
	}

	raw, err := w.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to encode partial map: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

// DecodePartial reverses EncodePartial.
func DecodePartial(body []byte) (aggregation.PartialMap, error) {
	raw, err := snappy.Decode(nil, body)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress partial map: %w", err)
	}

	r, _, err := common.NewReader(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid partial map: %w", err)
	}

	n := r.Uint32()
	partial := make(aggregation.PartialMap, min(int(n), len(raw)))
	for i := uint32(0); i < n; i++ {
		id := r.Text()
		e := aggregation.NewEntry()
		e.SumScore = r.Int64()
		e.Count = r.Int64()

		secondaries := r.Uint32()
		for j := uint32(0); j < secondaries && !r.Failed(); j++ {
			e.AddSecondary(r.Text())
		}

		if r.Bool() {
			price, err := decimal.NewFromString(r.Text())
			if err != nil {
				return nil, fmt.Errorf("invalid attribute for %q: %w", id, err)
			}
			e.Attribute = decimal.NewNullDecimal(price)
		}

		labels := r.Uint32()
		for j := uint32(0); j < labels && !r.Failed(); j++ {
			label := r.Text()
			e.AddLabel(label, r.Int64())
		}

		if r.Failed() {
			break
		}
		partial[id] = e
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("invalid partial map: %w", err)
	}
	return partial, nil
}
