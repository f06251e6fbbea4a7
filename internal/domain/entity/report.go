package entity

// Report é o conjunto de séries derivadas de uma seleção, pronto para exportação.
// Overall é a média geral do Nota_RAD sobre as linhas selecionadas. Charts guarda
// caminhos de PNGs já renderizados que o PDF deve embutir.
type Report struct {
	Title        string             `json:"title"`
	Selection    FilterSelection    `json:"selection"`
	UnitMeans    []GroupMean        `json:"unit_means"`
	UnitTotals   []GroupTotal       `json:"unit_totals,omitempty"`
	Overall      float64            `json:"overall"`
	OverallCount int                `json:"overall_count"`
	YearMeans    []GroupMean        `json:"year_means,omitempty"`
	RoleMeans    []GroupMean        `json:"role_means,omitempty"`
	Dimensions   []DimensionSeries  `json:"dimensions,omitempty"`
	Summaries    []DimensionSummary `json:"summaries,omitempty"`
	Overlay      *Overlay           `json:"overlay,omitempty"`
	Charts       []string           `json:"-"`
}

// DimensionSummary nomeia o resumo de uma dimensão.
type DimensionSummary struct {
	Dimension Dimension `json:"dimension"`
	Summary
}
