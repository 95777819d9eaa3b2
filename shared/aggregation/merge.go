package aggregation

// Merge folds partial maps, in argument order, into a new map. The inputs are
// left untouched. Sums and counts add, secondary sets union, label
// frequencies add per label and the first attribute seen wins.
func Merge(partials ...PartialMap) PartialMap {
	size := 0
	for _, p := range partials {
		size = max(size, len(p))
	}

	global := make(PartialMap, size)
	for _, p := range partials {
		for id, e := range p {
			if e == nil {
				continue
			}
			mergeEntry(global.entry(id), e)
		}
	}
	return global
}

func mergeEntry(dst, src *Entry) {
	dst.SumScore += src.SumScore
	dst.Count += src.Count
	for id := range src.SecondaryIDs {
		dst.AddSecondary(id)
	}
	for label, n := range src.LabelFrequency {
		dst.AddLabel(label, n)
	}
	dst.SetAttributeOnce(src.Attribute)
}
