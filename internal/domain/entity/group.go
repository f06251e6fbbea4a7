package entity

// GroupKey diz por qual campo uma série foi agrupada.
type GroupKey string

const (
	KeyUnit     GroupKey = "unit"
	KeyYear     GroupKey = "year"
	KeyUnitYear GroupKey = "unit_year"
	KeyRole     GroupKey = "role"
)

// GroupMean is the arithmetic mean of a score within rows sharing a key.
type GroupMean struct {
	Key   string  `json:"key" csv:"key"`
	Unit  string  `json:"unit,omitempty" csv:"unit"`
	Year  int     `json:"year,omitempty" csv:"year"`
	Role  string  `json:"role,omitempty" csv:"role"`
	Mean  float64 `json:"mean" csv:"mean"`
	Count int     `json:"count" csv:"count"`
}

// GroupTotal é a soma do Nota_RAD de uma unidade.
type GroupTotal struct {
	Key   string  `json:"key"`
	Unit  string  `json:"unit"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Sample is one per-row value of a dimension, tagged with its grouping key.
type Sample struct {
	Key   string  `json:"key"`
	Unit  string  `json:"unit"`
	Year  int     `json:"year,omitempty"`
	Value float64 `json:"value"`
}

// DimensionSeries carries the raw samples of one dimension, row-aligned to the
// table they came from.
type DimensionSeries struct {
	Dimension Dimension `json:"dimension"`
	Samples   []Sample  `json:"samples"`
}

// Values returns only the numeric part of the samples.
func (s DimensionSeries) Values() []float64 {
	out := make([]float64, len(s.Samples))
	for i, sm := range s.Samples {
		out[i] = sm.Value
	}
	return out
}

// OverlayPoint pairs a group mean with the samples that share its key.
type OverlayPoint struct {
	Key    string    `json:"key"`
	Mean   float64   `json:"mean"`
	Count  int       `json:"count"`
	Values []float64 `json:"values"`
}

// Overlay aligns a mean trend line with a distribution on a shared key.
// Unmatched lists keys that appeared on only one side.
type Overlay struct {
	Points    []OverlayPoint `json:"points"`
	Unmatched []string       `json:"unmatched,omitempty"`
}

// Keys returns the ordered keys of the overlay.
func (o Overlay) Keys() []string {
	keys := make([]string, len(o.Points))
	for i, p := range o.Points {
		keys[i] = p.Key
	}
	return keys
}

// Summary é o resumo de cinco números usado para descrever uma distribuição no terminal.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}
