package types

import "github.com/igormath/ic-dataviz/internal/domain/entity"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Datasets   DatasetPaths `json:"datasets" yaml:"datasets" toml:"datasets"`
	Delimiter  string       `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	Units      []string     `json:"units" yaml:"units" toml:"units"`
	Dimensions []string     `json:"dimensions" yaml:"dimensions" toml:"dimensions"`
	Year       int          `json:"year" yaml:"year" toml:"year"`
	Unit       string       `json:"unit" yaml:"unit" toml:"unit"`
	Role       string       `json:"role" yaml:"role" toml:"role"`
	ReportName string       `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string     `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string       `json:"dir" yaml:"dir" toml:"dir"`
	Trend      bool         `json:"trend" yaml:"trend" toml:"trend"`
	Listen     string       `json:"listen" yaml:"listen" toml:"listen"`
}

// DatasetPaths aponta os arquivos CSV de cada tabela lógica.
type DatasetPaths struct {
	Main           string `json:"main" yaml:"main" toml:"main"`
	PerUnitAverage string `json:"per_unit_average" yaml:"per_unit_average" toml:"per_unit_average"`
	TimeSeries     string `json:"time_series" yaml:"time_series" toml:"time_series"`
}

// Map returns the configured paths keyed by logical table name, skipping empty ones.
func (p DatasetPaths) Map() map[string]string {
	out := make(map[string]string, 3)
	if p.Main != "" {
		out[entity.DatasetMain] = p.Main
	}
	if p.PerUnitAverage != "" {
		out[entity.DatasetPerUnitAverage] = p.PerUnitAverage
	}
	if p.TimeSeries != "" {
		out[entity.DatasetTimeSeries] = p.TimeSeries
	}
	return out
}
