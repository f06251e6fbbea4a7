package aggregation

import (
	"strconv"

	"golang.org/x/exp/slices"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/textnorm"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// SelectAllUnits is the "select all" toggle: on yields every unit in display
// order, off yields the empty set.
func SelectAllUnits(on bool) []string {
	if !on {
		return []string{}
	}
	units := make([]string, len(entity.Units))
	copy(units, entity.Units)
	return units
}

// LookupUnit resolves a user-typed unit name ("mata norte") to its published
// spelling ("Mata Norte").
func LookupUnit(name string) (string, bool) {
	for _, u := range entity.Units {
		if textnorm.Equal(u, name) {
			return u, true
		}
	}
	return name, false
}

// LookupRole resolves a role name ignoring case and accents.
func LookupRole(name string) (string, bool) {
	for _, r := range entity.Roles {
		if textnorm.Equal(r.Name, name) {
			return r.Name, true
		}
	}
	return name, false
}

// LookupDimension resolves a dimension name ("extensao", "nota_rad").
func LookupDimension(name string) (entity.Dimension, bool) {
	for _, d := range entity.Dimensions {
		if textnorm.Equal(string(d), name) {
			return d, true
		}
	}
	return entity.Dimension(name), false
}

// NormalizeSelection rewrites every known name in sel to its canonical
// spelling. Unknown names are kept as typed so they still match nothing.
func NormalizeSelection(sel entity.FilterSelection) entity.FilterSelection {
	out := entity.FilterSelection{Year: sel.Year}
	out.Units = make([]string, 0, len(sel.Units))
	for _, u := range sel.Units {
		canonical, _ := LookupUnit(u)
		if !slices.Contains(out.Units, canonical) {
			out.Units = append(out.Units, canonical)
		}
	}
	out.Dimensions = make([]entity.Dimension, 0, len(sel.Dimensions))
	for _, d := range sel.Dimensions {
		canonical, _ := LookupDimension(string(d))
		if !slices.Contains(out.Dimensions, canonical) {
			out.Dimensions = append(out.Dimensions, canonical)
		}
	}
	if sel.Unit != "" {
		out.Unit, _ = LookupUnit(sel.Unit)
	}
	if sel.Role != "" {
		out.Role, _ = LookupRole(sel.Role)
	}
	return out
}

// ValidateSelection lists the selection values that fall outside the known
// domain. A year is known when t has at least one row for it. The errors are
// warnings only; running the selection just yields empty results for them.
func ValidateSelection(t entity.Table, sel entity.FilterSelection) []error {
	var errs []error
	for _, u := range sel.Units {
		if !slices.Contains(entity.Units, u) {
			errs = append(errs, &types.UnknownGroupKeyError{Kind: "unit", Value: u})
		}
	}
	if sel.Unit != "" && !slices.Contains(entity.Units, sel.Unit) {
		errs = append(errs, &types.UnknownGroupKeyError{Kind: "unit", Value: sel.Unit})
	}
	for _, d := range sel.Dimensions {
		if !knownDimension(d) {
			errs = append(errs, &types.UnknownGroupKeyError{Kind: "dimension", Value: string(d)})
		}
	}
	if sel.Role != "" {
		if _, ok := LookupRole(sel.Role); !ok {
			errs = append(errs, &types.UnknownGroupKeyError{Kind: "role", Value: sel.Role})
		}
	}
	if sel.Year != 0 && !slices.Contains(Years(t), sel.Year) {
		errs = append(errs, &types.UnknownGroupKeyError{Kind: "year", Value: strconv.Itoa(sel.Year)})
	}
	return errs
}

// Years returns the distinct non-zero years of t in ascending order.
func Years(t entity.Table) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for i := 0; i < t.Len(); i++ {
		y := t.At(i).Year
		if y != 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}
