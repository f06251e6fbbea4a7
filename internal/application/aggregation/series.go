package aggregation

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// DimensionSeries returns one raw series per requested dimension, in request
// order, each row-aligned with t. Repeated, unknown or absent dimensions are skipped.
func DimensionSeries(t entity.Table, dimensions []entity.Dimension) []entity.DimensionSeries {
	out := make([]entity.DimensionSeries, 0, len(dimensions))
	seen := make(map[entity.Dimension]bool, len(dimensions))
	for _, d := range dimensions {
		if seen[d] || !knownDimension(d) || !t.HasColumn(d.Column()) {
			continue
		}
		seen[d] = true
		out = append(out, entity.DimensionSeries{
			Dimension: d,
			Samples:   Samples(t, d, entity.KeyUnit),
		})
	}
	return out
}

// Samples lists the per-row values of d, keyed by unit, year or role.
func Samples(t entity.Table, d entity.Dimension, key entity.GroupKey) []entity.Sample {
	samples := make([]entity.Sample, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		v, ok := r.Score(d)
		if !ok {
			return []entity.Sample{}
		}
		samples = append(samples, entity.Sample{
			Key:   sampleKey(r, key),
			Unit:  r.Unit,
			Year:  r.Year,
			Value: v,
		})
	}
	return samples
}

// Summarize computes the five-number summary drawn by a box plot.
func Summarize(values []float64) entity.Summary {
	if len(values) == 0 {
		return entity.Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return entity.Summary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Mean:   stat.Mean(sorted, nil),
	}
}

func sampleKey(r entity.Record, key entity.GroupKey) string {
	switch key {
	case entity.KeyYear:
		return strconv.Itoa(r.Year)
	case entity.KeyUnitYear:
		return UnitYearKey(r.Unit, r.Year)
	case entity.KeyRole:
		return r.Role
	}
	return r.Unit
}

func knownDimension(d entity.Dimension) bool {
	for _, known := range entity.Dimensions {
		if d == known {
			return true
		}
	}
	return false
}
