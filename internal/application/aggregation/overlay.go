package aggregation

import (
	"sort"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// OverlayMean pairs a mean series with a per-row distribution on their shared
// key so a trend line can be drawn over a box plot.
//
// Both sides are sorted by key before pairing. Keys found on only one side are
// reported in Unmatched and left out of Points.
func OverlayMean(means []entity.GroupMean, samples []entity.Sample) entity.Overlay {
	sortedMeans := SortByKey(means)

	byKey := make(map[string][]float64)
	keys := make([]string, 0)
	for _, s := range samples {
		if _, ok := byKey[s.Key]; !ok {
			keys = append(keys, s.Key)
		}
		byKey[s.Key] = append(byKey[s.Key], s.Value)
	}
	sort.SliceStable(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	overlay := entity.Overlay{Points: make([]entity.OverlayPoint, 0, len(keys))}
	i, j := 0, 0
	for i < len(sortedMeans) && j < len(keys) {
		m, k := sortedMeans[i], keys[j]
		switch {
		case m.Key == k:
			overlay.Points = append(overlay.Points, entity.OverlayPoint{
				Key:    k,
				Mean:   m.Mean,
				Count:  m.Count,
				Values: byKey[k],
			})
			i++
			j++
		case lessKey(m.Key, k):
			overlay.Unmatched = append(overlay.Unmatched, m.Key)
			i++
		default:
			overlay.Unmatched = append(overlay.Unmatched, k)
			j++
		}
	}
	for ; i < len(sortedMeans); i++ {
		overlay.Unmatched = append(overlay.Unmatched, sortedMeans[i].Key)
	}
	for ; j < len(keys); j++ {
		overlay.Unmatched = append(overlay.Unmatched, keys[j])
	}
	return overlay
}
