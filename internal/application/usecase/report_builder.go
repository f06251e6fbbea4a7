package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/igormath/ic-dataviz/internal/application/aggregation"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// SelectionFromConfig monta a seleção a partir da configuração já resolvida.
func SelectionFromConfig(cfg *types.Config) entity.FilterSelection {
	sel := entity.FilterSelection{
		Units: cfg.Units,
		Year:  cfg.Year,
		Unit:  cfg.Unit,
		Role:  cfg.Role,
	}
	for _, d := range cfg.Dimensions {
		sel.Dimensions = append(sel.Dimensions, entity.Dimension(d))
	}
	return aggregation.NormalizeSelection(sel)
}

// BuildReport deriva todas as séries do painel para uma seleção.
//
// A tabela principal alimenta as médias por unidade e por cargo; a de médias
// por unidade (ou a principal, na falta dela) alimenta as dimensões; a série
// histórica alimenta as médias por ano e o overlay.
func BuildReport(ds entity.Dataset, sel entity.FilterSelection) entity.Report {
	report := entity.Report{
		Title:     "RAD Dashboard",
		Selection: sel,
		UnitMeans: []entity.GroupMean{},
	}

	if primary, ok := ds.Table(entity.DatasetMain); ok {
		// Ordenada por unidade, como o groupby do painel web.
		base := aggregation.SortedByUnit(aggregation.ApplyPresent(primary, entity.FilterSelection{
			Units: sel.Units,
			Year:  sel.Year,
			Role:  sel.Role,
		}))
		report.UnitMeans = aggregation.MeanByUnit(base)
		report.UnitTotals = aggregation.SumByUnit(base)
		report.Overall, report.OverallCount = aggregation.MeanOf(base, entity.DimensionTotal)
		if primary.HasColumn(entity.ColumnRole) {
			report.RoleMeans = aggregation.MeanByRole(base)
		}
	}

	dimSource, ok := ds.Table(entity.DatasetPerUnitAverage)
	if !ok {
		dimSource, ok = ds.Table(entity.DatasetMain)
	}
	if ok && len(sel.Dimensions) > 0 {
		report.Dimensions = aggregation.DimensionSeries(narrow(dimSource, sel), sel.Dimensions)
		for _, s := range report.Dimensions {
			report.Summaries = append(report.Summaries, entity.DimensionSummary{
				Dimension: s.Dimension,
				Summary:   aggregation.Summarize(s.Values()),
			})
		}
	}

	if history, ok := ds.Table(entity.DatasetTimeSeries); ok && history.HasColumn(entity.ColumnYear) {
		scoped := narrow(history, sel)
		report.YearMeans = aggregation.SortByKey(aggregation.MeanByYearWithinUnit(scoped))
		overlay := aggregation.OverlayMean(report.YearMeans, aggregation.Samples(scoped, entity.DimensionTotal, entity.KeyYear))
		report.Overlay = &overlay
	}

	return report
}

// narrow restringe à unidade única quando ela foi escolhida; senão, ao checklist de unidades.
func narrow(t entity.Table, sel entity.FilterSelection) entity.Table {
	if sel.Unit != "" {
		return aggregation.FilterByUnit(t, sel.Unit)
	}
	return aggregation.FilterByUnits(t, sel.Units)
}

// Describe calcula estatísticas descritivas das colunas numéricas presentes em t.
// A primeira linha do resultado é o cabeçalho.
func Describe(t entity.Table) ([][]string, error) {
	var dims []entity.Dimension
	for _, d := range entity.Dimensions {
		if t.HasColumn(d.Column()) {
			dims = append(dims, d)
		}
	}
	if t.Len() == 0 || len(dims) == 0 {
		return nil, fmt.Errorf("describe: %w", types.ErrEmptySeries)
	}

	records := make([][]string, 0, t.Len()+1)
	header := make([]string, len(dims))
	for i, d := range dims {
		header[i] = string(d)
	}
	records = append(records, header)
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		row := make([]string, len(dims))
		for j, d := range dims {
			v, _ := r.Score(d)
			row[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		records = append(records, row)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("error building data frame: %w", df.Err)
	}
	desc := df.Describe()
	if desc.Err != nil {
		return nil, fmt.Errorf("error describing data frame: %w", desc.Err)
	}
	return desc.Records(), nil
}

// PreviewRows devolve as primeiras n linhas de t como texto, com cabeçalho.
func PreviewRows(t entity.Table, n int) [][]string {
	columns := t.Columns()
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = string(c)
	}
	rows := [][]string{header}

	for i := 0; i < t.Len() && i < n; i++ {
		r := t.At(i)
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = cellText(r, c)
		}
		rows = append(rows, row)
	}
	return rows
}

func cellText(r entity.Record, c entity.Column) string {
	switch c {
	case entity.ColumnUnit:
		return r.Unit
	case entity.ColumnRole:
		return r.Role
	case entity.ColumnYear:
		return strconv.Itoa(r.Year)
	}
	v, ok := r.Score(entity.Dimension(c))
	if !ok {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
