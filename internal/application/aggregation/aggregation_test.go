package aggregation

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

func exampleTable() entity.Table {
	return entity.NewTable([]entity.Record{
		{Unit: "A", Total: 8.0},
		{Unit: "A", Total: 6.0},
		{Unit: "B", Total: 9.0},
	}, entity.AllColumns...)
}

func timeSeriesTable() entity.Table {
	return entity.NewTable([]entity.Record{
		{Unit: "Caruaru", Role: "Professor Adjunto", Year: 2019, Total: 7.5, Ensino: 8, Pesquisa: 6},
		{Unit: "Caruaru", Role: "Professor Titular", Year: 2018, Total: 6.5, Ensino: 7, Pesquisa: 5},
		{Unit: "Caruaru", Role: "Professor Adjunto", Year: 2019, Total: 8.5, Ensino: 9, Pesquisa: 7},
		{Unit: "POLI", Role: "Professor Associado", Year: 2019, Total: 9.0, Ensino: 9, Pesquisa: 9},
		{Unit: "POLI", Role: "Professor Adjunto", Year: 2020, Total: 5.0, Ensino: 4, Pesquisa: 6},
		{Unit: "ESEF", Role: "Professor Auxiliar", Year: 2017, Total: 7.0, Ensino: 7, Pesquisa: 7},
	}, entity.AllColumns...)
}

// randomTable monta uma tabela determinística para os testes de propriedade.
func randomTable(seed int64, n int) entity.Table {
	rng := rand.New(rand.NewSource(seed))
	records := make([]entity.Record, n)
	for i := range records {
		records[i] = entity.Record{
			Unit:  entity.Units[rng.Intn(len(entity.Units))],
			Year:  2017 + rng.Intn(6),
			Total: math.Round(rng.Float64()*1000) / 100,
		}
	}
	return entity.NewTable(records, entity.AllColumns...)
}

func TestMeanByUnit_Example(t *testing.T) {
	got := MeanByUnit(exampleTable())
	want := []entity.GroupMean{
		{Key: "A", Unit: "A", Mean: 7.0, Count: 2},
		{Key: "B", Unit: "B", Mean: 9.0, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MeanByUnit mismatch (-want +got):\n%s", diff)
	}
}

func TestMeanByUnit_FirstAppearanceOrder(t *testing.T) {
	table := entity.NewTable([]entity.Record{
		{Unit: "POLI", Total: 1},
		{Unit: "Arcoverde", Total: 2},
		{Unit: "POLI", Total: 3},
	}, entity.AllColumns...)

	got := MeanByUnit(table)
	require.Len(t, got, 2)
	assert.Equal(t, "POLI", got[0].Key)
	assert.Equal(t, "Arcoverde", got[1].Key)
}

func TestMeanByUnit_Properties(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		table := randomTable(seed, 200)
		means := MeanByUnit(table)

		distinct := map[string]bool{}
		for i := 0; i < table.Len(); i++ {
			distinct[table.At(i).Unit] = true
		}
		assert.Len(t, means, len(distinct))

		total, weighted := 0, 0.0
		for _, m := range means {
			total += m.Count
			weighted += m.Mean * float64(m.Count)

			direct, n := MeanOf(FilterByUnit(table, m.Key), entity.DimensionTotal)
			assert.Equal(t, m.Count, n)
			assert.InDelta(t, direct, m.Mean, 1e-9)
		}
		assert.Equal(t, table.Len(), total)

		overall, _ := MeanOf(table, entity.DimensionTotal)
		assert.InDelta(t, overall, weighted/float64(total), 1e-9)
	}
}

func TestFilterByUnits(t *testing.T) {
	table := exampleTable()

	t.Run("single unit", func(t *testing.T) {
		got := FilterByUnits(table, []string{"B"})
		assert.Equal(t, []entity.Record{{Unit: "B", Total: 9.0}}, got.Records())
	})

	t.Run("empty selection yields empty table", func(t *testing.T) {
		assert.Equal(t, 0, FilterByUnits(table, nil).Len())
		assert.Equal(t, 0, FilterByUnits(table, []string{}).Len())
	})

	t.Run("all present units keep every row", func(t *testing.T) {
		assert.Equal(t, table.Len(), FilterByUnits(table, []string{"A", "B"}).Len())
	})

	t.Run("unknown unit matches nothing", func(t *testing.T) {
		assert.Equal(t, 0, FilterByUnits(table, []string{"Atlantis"}).Len())
	})

	t.Run("input is left untouched", func(t *testing.T) {
		FilterByUnits(table, []string{"A"})
		assert.Equal(t, 3, table.Len())
	})
}

func TestFilterByUnits_FullEnumeratedSet(t *testing.T) {
	table := randomTable(42, 120)
	assert.Equal(t, table.Len(), FilterByUnits(table, SelectAllUnits(true)).Len())
}

func TestSingleValueFilters_UnsetSelectsNothing(t *testing.T) {
	table := timeSeriesTable()

	assert.Equal(t, 0, FilterByYear(table, 0).Len())
	assert.Equal(t, 0, FilterByUnit(table, "").Len())
	assert.Equal(t, 0, FilterByRole(table, "").Len())

	assert.Equal(t, 3, FilterByYear(table, 2019).Len())
	assert.Equal(t, 3, FilterByUnit(table, "Caruaru").Len())
	assert.Equal(t, 3, FilterByRole(table, "Professor Adjunto").Len())
	assert.Equal(t, 0, FilterByYear(table, 1999).Len())
}

func TestFilterByYear_RoundTrip(t *testing.T) {
	table := timeSeriesTable()
	for _, year := range Years(table) {
		filtered := FilterByYear(table, year)
		series := MeanByYearWithinUnit(filtered)

		require.Len(t, series, 1)
		assert.Equal(t, year, series[0].Year)

		direct, _ := MeanOf(filtered, entity.DimensionTotal)
		assert.InDelta(t, direct, series[0].Mean, 1e-12)
	}
}

func TestMeanByYearWithinUnit(t *testing.T) {
	got := MeanByYearWithinUnit(FilterByUnit(timeSeriesTable(), "Caruaru"))
	want := []entity.GroupMean{
		{Key: "2019", Year: 2019, Mean: 8.0, Count: 2},
		{Key: "2018", Year: 2018, Mean: 6.5, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MeanByYearWithinUnit mismatch (-want +got):\n%s", diff)
	}
}

func TestMeanByUnitWithinYear(t *testing.T) {
	got := MeanByUnitWithinYear(FilterByYear(timeSeriesTable(), 2019))
	require.Len(t, got, 2)
	assert.Equal(t, "Caruaru", got[0].Key)
	assert.InDelta(t, 8.0, got[0].Mean, 1e-12)
	assert.Equal(t, "POLI", got[1].Key)
	assert.InDelta(t, 9.0, got[1].Mean, 1e-12)
}

func TestMeanByUnitAndYear(t *testing.T) {
	got := MeanByUnitAndYear(timeSeriesTable())
	keys := make([]string, len(got))
	for i, g := range got {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"Caruaru|2019", "Caruaru|2018", "POLI|2019", "POLI|2020", "ESEF|2017"}, keys)
	assert.Equal(t, 2, got[0].Count)
}

func TestMeanByRole(t *testing.T) {
	got := MeanByRole(timeSeriesTable())
	require.NotEmpty(t, got)
	assert.Equal(t, "Professor Adjunto", got[0].Role)
	assert.InDelta(t, (7.5+8.5+5.0)/3, got[0].Mean, 1e-12)
}

func TestGroupings_EmptyInput(t *testing.T) {
	empty := timeSeriesTable().Derive(nil)
	for name, fn := range map[string]func(entity.Table) []entity.GroupMean{
		"unit":     MeanByUnit,
		"year":     MeanByYearWithinUnit,
		"unitYear": MeanByUnitAndYear,
		"inYear":   MeanByUnitWithinYear,
		"role":     MeanByRole,
	} {
		got := fn(empty)
		assert.NotNil(t, got, name)
		assert.Empty(t, got, name)
	}

	mean, n := MeanOf(empty, entity.DimensionTotal)
	assert.False(t, math.IsNaN(mean))
	assert.Zero(t, n)
}

func TestSumByUnit(t *testing.T) {
	got := SumByUnit(timeSeriesTable())
	want := []entity.GroupTotal{
		{Key: "Caruaru", Unit: "Caruaru", Total: 22.5, Count: 3},
		{Key: "POLI", Unit: "POLI", Total: 14, Count: 2},
		{Key: "ESEF", Unit: "ESEF", Total: 7, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SumByUnit mismatch (-want +got):\n%s", diff)
	}

	empty := SumByUnit(timeSeriesTable().Derive(nil))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMeanOf_AbsentColumn(t *testing.T) {
	table := entity.NewTable([]entity.Record{
		{Unit: "Caruaru", Total: 7},
		{Unit: "POLI", Total: 9},
	}, entity.ColumnUnit, entity.ColumnTotal)

	mean, n := MeanOf(table, entity.DimensionEnsino)
	assert.Zero(t, mean)
	assert.Zero(t, n)

	mean, n = MeanOf(table, entity.Dimension("Bogus"))
	assert.Zero(t, mean)
	assert.Zero(t, n)

	mean, n = MeanOf(table, entity.DimensionTotal)
	assert.Equal(t, 8.0, mean)
	assert.Equal(t, 2, n)
}

func TestGroupings_SingleRow(t *testing.T) {
	single := FilterByYear(timeSeriesTable(), 2017)
	got := MeanByYearWithinUnit(single)
	require.Len(t, got, 1)
	assert.Equal(t, 7.0, got[0].Mean)
	assert.Equal(t, 1, got[0].Count)
}

func TestDimensionSeries(t *testing.T) {
	table := FilterByUnit(timeSeriesTable(), "Caruaru")

	got := DimensionSeries(table, []entity.Dimension{
		entity.DimensionPesquisa,
		entity.DimensionEnsino,
		entity.DimensionPesquisa,
		"Inexistente",
	})

	require.Len(t, got, 2)
	assert.Equal(t, entity.DimensionPesquisa, got[0].Dimension)
	assert.Equal(t, entity.DimensionEnsino, got[1].Dimension)
	assert.Equal(t, []float64{6, 5, 7}, got[0].Values())
	assert.Equal(t, []float64{8, 7, 9}, got[1].Values())
	for _, s := range got[0].Samples {
		assert.Equal(t, "Caruaru", s.Key)
	}
}

func TestDimensionSeries_AbsentColumnIsSkipped(t *testing.T) {
	table := entity.NewTable([]entity.Record{{Unit: "FCM", Total: 7}},
		entity.ColumnUnit, entity.ColumnTotal)

	got := DimensionSeries(table, []entity.Dimension{entity.DimensionTotal, entity.DimensionGestao})
	require.Len(t, got, 1)
	assert.Equal(t, entity.DimensionTotal, got[0].Dimension)
}

func TestOverlayMean_AlignedWhenDerivedFromSameTable(t *testing.T) {
	for seed := int64(10); seed < 14; seed++ {
		table := FilterByUnits(randomTable(seed, 150), []string{"Caruaru", "POLI", "FOP"})

		for _, key := range []entity.GroupKey{entity.KeyYear, entity.KeyUnit} {
			var means []entity.GroupMean
			if key == entity.KeyYear {
				means = MeanByYearWithinUnit(table)
			} else {
				means = MeanByUnit(table)
			}
			samples := Samples(table, entity.DimensionTotal, key)

			overlay := OverlayMean(means, samples)
			assert.Empty(t, overlay.Unmatched)

			sortedKeys := make([]string, 0, len(means))
			for _, m := range SortByKey(means) {
				sortedKeys = append(sortedKeys, m.Key)
			}
			assert.Equal(t, sortedKeys, overlay.Keys())

			for _, p := range overlay.Points {
				sum := 0.0
				for _, v := range p.Values {
					sum += v
				}
				assert.InDelta(t, sum/float64(len(p.Values)), p.Mean, 1e-9)
				assert.Equal(t, p.Count, len(p.Values))
			}
		}
	}
}

func TestOverlayMean_ReportsUnmatchedKeys(t *testing.T) {
	means := []entity.GroupMean{
		{Key: "2020", Year: 2020, Mean: 5, Count: 1},
		{Key: "2018", Year: 2018, Mean: 6, Count: 1},
	}
	samples := []entity.Sample{
		{Key: "2019", Year: 2019, Value: 7},
		{Key: "2018", Year: 2018, Value: 6},
	}

	overlay := OverlayMean(means, samples)
	assert.Equal(t, []string{"2018"}, overlay.Keys())
	assert.ElementsMatch(t, []string{"2019", "2020"}, overlay.Unmatched)
}

func TestOverlayMean_Empty(t *testing.T) {
	overlay := OverlayMean(nil, nil)
	assert.Empty(t, overlay.Points)
	assert.Empty(t, overlay.Unmatched)
}

func TestSelectAllToggle(t *testing.T) {
	on := SelectAllUnits(true)
	assert.Equal(t, entity.Units, on)

	on[0] = "mutated"
	assert.Equal(t, "Arcoverde", entity.Units[0])

	off := SelectAllUnits(false)
	assert.Empty(t, off)

	table := randomTable(7, 50)
	filtered := FilterByUnits(table, off)
	assert.Equal(t, 0, filtered.Len())
	assert.Empty(t, MeanByUnit(filtered))
	for _, s := range DimensionSeries(filtered, entity.Dimensions) {
		assert.Empty(t, s.Samples)
	}
	assert.Empty(t, OverlayMean(MeanByUnit(filtered), Samples(filtered, entity.DimensionTotal, entity.KeyUnit)).Points)
}

func TestApply(t *testing.T) {
	table := timeSeriesTable()

	got := Apply(table, entity.FilterSelection{
		Units: []string{"Caruaru", "POLI"},
		Year:  2019,
		Role:  "Professor Adjunto",
	})
	assert.Equal(t, 2, got.Len())

	assert.Equal(t, 0, Apply(table, entity.FilterSelection{Year: 2019}).Len())
}

func TestApplyPresent(t *testing.T) {
	noYearNoRole := entity.NewTable([]entity.Record{
		{Unit: "Caruaru", Total: 7},
		{Unit: "POLI", Total: 9},
	}, entity.ColumnUnit, entity.ColumnTotal)
	sel := entity.FilterSelection{Units: []string{"Caruaru", "POLI"}, Year: 2019, Role: "Professor Adjunto"}

	assert.Equal(t, 0, Apply(noYearNoRole, sel).Len())
	assert.Equal(t, 2, ApplyPresent(noYearNoRole, sel).Len())

	// Com as colunas presentes, ApplyPresent é o próprio Apply.
	table := timeSeriesTable()
	assert.Equal(t, Apply(table, sel).Records(), ApplyPresent(table, sel).Records())
	assert.Equal(t, 0, ApplyPresent(table, entity.FilterSelection{Year: 2019}).Len())
}

func TestSortedByUnit(t *testing.T) {
	sorted := SortedByUnit(timeSeriesTable())
	units := make([]string, sorted.Len())
	for i := range units {
		units[i] = sorted.At(i).Unit
	}
	assert.Equal(t, []string{"Caruaru", "Caruaru", "Caruaru", "ESEF", "POLI", "POLI"}, units)
	assert.Equal(t, 2019, sorted.At(0).Year)
	assert.Equal(t, 2018, sorted.At(1).Year)
}

func TestSortByKey_YearsNumeric(t *testing.T) {
	got := SortByKey([]entity.GroupMean{{Key: "2020"}, {Key: "2017"}, {Key: "2019"}})
	assert.Equal(t, "2017", got[0].Key)
	assert.Equal(t, "2019", got[1].Key)
	assert.Equal(t, "2020", got[2].Key)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{5, 1, 4, 2, 3})
	assert.Equal(t, entity.Summary{Count: 5, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 5, Mean: 3}, s)
	assert.Equal(t, entity.Summary{}, Summarize(nil))
}

func TestNormalizeAndValidateSelection(t *testing.T) {
	table := timeSeriesTable()
	sel := NormalizeSelection(entity.FilterSelection{
		Units:      []string{"mata norte", "Mata Norte", "Atlantis"},
		Dimensions: []entity.Dimension{"extensao", "Nota_RAD"},
		Unit:       "serra talhada",
		Role:       "professor titular",
		Year:       1990,
	})

	assert.Equal(t, []string{"Mata Norte", "Atlantis"}, sel.Units)
	assert.Equal(t, []entity.Dimension{entity.DimensionExtensao, entity.DimensionTotal}, sel.Dimensions)
	assert.Equal(t, "Serra Talhada", sel.Unit)
	assert.Equal(t, "Professor Titular", sel.Role)

	errs := ValidateSelection(table, sel)
	require.Len(t, errs, 2)
	var unknown *types.UnknownGroupKeyError
	require.True(t, errors.As(errs[0], &unknown))
	assert.Equal(t, "unit", unknown.Kind)
	assert.Equal(t, "Atlantis", unknown.Value)
	require.True(t, errors.As(errs[1], &unknown))
	assert.Equal(t, "year", unknown.Kind)

	assert.Equal(t, 0, Apply(table, sel).Len())
}

func TestConcurrentCallsShareTable(t *testing.T) {
	table := randomTable(99, 500)
	want := MeanByUnit(table)

	var wg sync.WaitGroup
	results := make([][]entity.GroupMean, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = MeanByUnit(FilterByUnits(table, SelectAllUnits(true)))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
