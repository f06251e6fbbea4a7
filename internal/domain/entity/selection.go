package entity

// FilterSelection holds what the user picked in the dashboard controls.
// Zero values mean "not selected": an empty Units set, Year 0, Unit "" and Role "".
type FilterSelection struct {
	Units      []string    `json:"units"`
	Dimensions []Dimension `json:"dimensions"`
	Year       int         `json:"year,omitempty"`
	Unit       string      `json:"unit,omitempty"`
	Role       string      `json:"role,omitempty"`
}

// HasUnits reports whether at least one unit was selected in the checklist.
func (s FilterSelection) HasUnits() bool { return len(s.Units) > 0 }
