package aggregation

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// MeanByUnit groups rows by unit and averages Nota_RAD. Groups come out in the
// order their unit first appears in the table.
func MeanByUnit(t entity.Table) []entity.GroupMean {
	return groupMeans(t, unitKey, totalScore)
}

// MeanByUnitWithinYear is MeanByUnit over a table already narrowed to one year.
func MeanByUnitWithinYear(t entity.Table) []entity.GroupMean {
	return groupMeans(t, unitKey, totalScore)
}

// MeanByYearWithinUnit averages Nota_RAD per year, usually over a table already
// narrowed to one unit.
func MeanByYearWithinUnit(t entity.Table) []entity.GroupMean {
	return groupMeans(t, yearKey, totalScore)
}

// MeanByUnitAndYear averages Nota_RAD per unit×year pair.
func MeanByUnitAndYear(t entity.Table) []entity.GroupMean {
	return groupMeans(t, unitYearKey, totalScore)
}

// MeanByRole averages Nota_RAD per role.
func MeanByRole(t entity.Table) []entity.GroupMean {
	return groupMeans(t, roleKey, totalScore)
}

// SumByUnit soma o Nota_RAD de cada unidade: é a barra empilhada do gráfico
// cumulativo. Mesma ordem de primeira aparição do MeanByUnit.
func SumByUnit(t entity.Table) []entity.GroupTotal {
	groups, values := groupValues(t, unitKey, totalScore)
	totals := make([]entity.GroupTotal, len(groups))
	for i, g := range groups {
		totals[i] = entity.GroupTotal{
			Key:   g.Key,
			Unit:  g.Unit,
			Total: floats.Sum(values[i]),
			Count: len(values[i]),
		}
	}
	return totals
}

// MeanOf returns the overall mean of one dimension and the number of rows it
// covers. An empty table, an unknown dimension or a column the file does not
// have yields (0, 0).
func MeanOf(t entity.Table, d entity.Dimension) (float64, int) {
	if t.Len() == 0 || !knownDimension(d) || !t.HasColumn(d.Column()) {
		return 0, 0
	}
	values := make([]float64, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		v, ok := t.At(i).Score(d)
		if !ok {
			return 0, 0
		}
		values = append(values, v)
	}
	return stat.Mean(values, nil), len(values)
}

// SortByKey returns a copy of means ordered by key. Year keys sort numerically.
func SortByKey(means []entity.GroupMean) []entity.GroupMean {
	out := make([]entity.GroupMean, len(means))
	copy(out, means)
	sort.SliceStable(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out
}

// UnitYearKey formata a chave composta unidade×ano.
func UnitYearKey(unit string, year int) string {
	return unit + "|" + strconv.Itoa(year)
}

func groupMeans(
	t entity.Table,
	key func(entity.Record) entity.GroupMean,
	value func(entity.Record) float64,
) []entity.GroupMean {
	groups, values := groupValues(t, key, value)
	for i := range groups {
		groups[i].Count = len(values[i])
		groups[i].Mean = stat.Mean(values[i], nil)
	}
	return groups
}

// groupValues agrupa os valores por chave, na ordem de primeira aparição.
func groupValues(
	t entity.Table,
	key func(entity.Record) entity.GroupMean,
	value func(entity.Record) float64,
) ([]entity.GroupMean, [][]float64) {
	groups := make([]entity.GroupMean, 0)
	var values [][]float64
	index := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		g := key(r)
		pos, ok := index[g.Key]
		if !ok {
			pos = len(groups)
			index[g.Key] = pos
			groups = append(groups, g)
			values = append(values, nil)
		}
		values[pos] = append(values[pos], value(r))
	}
	return groups, values
}

func unitKey(r entity.Record) entity.GroupMean {
	return entity.GroupMean{Key: r.Unit, Unit: r.Unit}
}

func yearKey(r entity.Record) entity.GroupMean {
	return entity.GroupMean{Key: strconv.Itoa(r.Year), Year: r.Year}
}

func unitYearKey(r entity.Record) entity.GroupMean {
	return entity.GroupMean{Key: UnitYearKey(r.Unit, r.Year), Unit: r.Unit, Year: r.Year}
}

func roleKey(r entity.Record) entity.GroupMean {
	return entity.GroupMean{Key: r.Role, Role: r.Role}
}

func totalScore(r entity.Record) float64 { return r.Total }

// lessKey compara chaves numéricas como números e o resto como texto.
func lessKey(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
