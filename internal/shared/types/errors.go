package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoDatasetConfigured = errors.New("no dataset configured. Use --main or a config file")
	ErrDatasetNotFound     = errors.New("dataset not found")
	ErrMissingColumn       = errors.New("required column missing")
	ErrEmptySeries         = errors.New("nothing to plot for the current selection")
)

// MalformedScoreError is returned when a designated numeric column cannot be
// parsed after the decimal comma is normalized. It aborts loading.
type MalformedScoreError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("%s:%d: malformed value %q in column %s", e.Path, e.Line, e.Value, e.Column)
}

func (e *MalformedScoreError) Unwrap() error { return e.Err }

// UnknownGroupKeyError reports a selection that names a unit, year, role or
// dimension outside the known domain. It is a warning: filters still run and
// simply match nothing.
type UnknownGroupKeyError struct {
	Kind  string
	Value string
}

func (e *UnknownGroupKeyError) Error() string {
	return fmt.Sprintf("unknown %s %q: no rows will match", e.Kind, e.Value)
}
