package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile     string
	MainPath       string
	PerUnitAvgPath string
	TimeSeriesPath string
	Delimiter      string
	Units          []string
	AllUnits       bool
	Dimensions     []string
	Year           int
	Unit           string
	Role           string
	Trend          bool
	Distribution   bool
	Describe       bool
	Preview        int
	ReportName     string
	ReportType     []string
	Dir            string
}
