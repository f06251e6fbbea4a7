package repository

import (
	"context"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// DatasetRepository defines how RAD tables are read from their source files.
type DatasetRepository interface {
	// LoadTable reads one file into an immutable table.
	LoadTable(ctx context.Context, path string) (entity.Table, error)
	// LoadDataset reads every file keyed by logical table name. Any failure
	// aborts the whole load.
	LoadDataset(ctx context.Context, paths map[string]string) (entity.Dataset, error)
}

// DelimitedRepository is implemented by readers whose field separator can be
// chosen after construction, e.g. once the configuration file has been read.
type DelimitedRepository interface {
	WithDelimiter(delimiter string) DatasetRepository
}
