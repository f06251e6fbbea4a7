// Package aggregation turns a loaded RAD table and a filter selection into
// chart-ready series.
//
// Every function here is pure: it reads the table, never edits it, and keeps no
// state between calls, so the same table can be shared by concurrent callers.
// Empty selections produce empty tables and series, never errors.
package aggregation

import (
	"sort"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// FilterByUnits returns the rows whose unit is in units.
// An empty set selects nothing; "select all" is an explicit full set.
func FilterByUnits(t entity.Table, units []string) entity.Table {
	if len(units) == 0 {
		return t.Derive(nil)
	}
	set := make(map[string]struct{}, len(units))
	for _, u := range units {
		set[u] = struct{}{}
	}
	return filter(t, func(r entity.Record) bool {
		_, ok := set[r.Unit]
		return ok
	})
}

// FilterByUnit keeps the rows of a single unit. An unset unit ("") selects nothing.
func FilterByUnit(t entity.Table, unit string) entity.Table {
	if unit == "" {
		return t.Derive(nil)
	}
	return filter(t, func(r entity.Record) bool { return r.Unit == unit })
}

// FilterByYear keeps the rows of one year. Year 0 means unset and selects nothing.
func FilterByYear(t entity.Table, year int) entity.Table {
	if year == 0 {
		return t.Derive(nil)
	}
	return filter(t, func(r entity.Record) bool { return r.Year == year })
}

// FilterByRole keeps the rows of one role. An unset role selects nothing.
func FilterByRole(t entity.Table, role string) entity.Table {
	if role == "" {
		return t.Derive(nil)
	}
	return filter(t, func(r entity.Record) bool { return r.Role == role })
}

// Apply runs a whole selection. The unit checklist always applies, so an empty
// checklist yields an empty table; the single-value controls (unit, year, role)
// only narrow the result when they are set.
func Apply(t entity.Table, sel entity.FilterSelection) entity.Table {
	out := FilterByUnits(t, sel.Units)
	if sel.Unit != "" {
		out = FilterByUnit(out, sel.Unit)
	}
	if sel.Year != 0 {
		out = FilterByYear(out, sel.Year)
	}
	if sel.Role != "" {
		out = FilterByRole(out, sel.Role)
	}
	return out
}

// ApplyPresent é o Apply que ignora ano e cargo quando o arquivo não tem essas
// colunas. Sem isso um filtro de ano sobre uma tabela sem ANO a esvaziaria inteira.
func ApplyPresent(t entity.Table, sel entity.FilterSelection) entity.Table {
	if !t.HasColumn(entity.ColumnYear) {
		sel.Year = 0
	}
	if !t.HasColumn(entity.ColumnRole) {
		sel.Role = ""
	}
	return Apply(t, sel)
}

// SortedByUnit returns the rows ordered by unit name. Rows of the same unit keep
// their relative order.
func SortedByUnit(t entity.Table) entity.Table {
	records := t.Records()
	sort.SliceStable(records, func(i, j int) bool { return records[i].Unit < records[j].Unit })
	return t.Derive(records)
}

func filter(t entity.Table, keep func(entity.Record) bool) entity.Table {
	records := make([]entity.Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		if r := t.At(i); keep(r) {
			records = append(records, r)
		}
	}
	return t.Derive(records)
}
