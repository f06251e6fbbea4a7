package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/igormath/ic-dataviz/internal/application/usecase"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
	"github.com/igormath/ic-dataviz/pkg/version"
)

const defaultListenAddr = ":8050"

// Listener serve o dataset carregado até ctx ser cancelado.
type Listener interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// ServerFactory monta o servidor HTTP para um dataset já carregado.
type ServerFactory func(ds entity.Dataset) Listener

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd          *cobra.Command
	dashboardUseCase *usecase.DashboardUseCase
	newServer        ServerFactory
	version          string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "rad-dashboard",
		Short:         "RAD faculty score dashboard",
		Version:       version.FormatVersion(),
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "RAD Dashboard version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("main", "m", "", "CSV file with the main RAD table")
	flags.String("per-unit-average", "", "CSV file with the per-unit average table")
	flags.String("time-series", "", "CSV file with the yearly time-series table")
	flags.String("delimiter", "", "CSV field delimiter (default: detected from the header)")
	flags.StringSliceP("units", "u", nil, "Units to include (comma-separated)")
	flags.BoolP("all-units", "a", false, "Select every unit")
	flags.StringSliceP("dimensions", "D", nil, "Score dimensions: Nota_RAD, Ensino, Pesquisa, Extensão, Gestão")
	flags.IntP("year", "Y", 0, "Restrict to one year")
	flags.StringP("unit", "U", "", "Single unit for the yearly trend")
	flags.StringP("role", "R", "", "Restrict to one role, e.g. \"Professor Adjunto\"")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf, xlsx, png")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	rootCmd.Flags().Bool("trend", false, "Display the yearly mean as bars")
	rootCmd.Flags().Bool("distribution", false, "Display the five-number summary of each dimension")
	rootCmd.Flags().Bool("describe", false, "Display descriptive statistics of every loaded table")
	rootCmd.Flags().Int("preview", 0, "Print the first N rows of every loaded table (e.g. 20)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregation engine as a JSON API",
		RunE:  app.serveCommand,
	}
	serveCmd.Flags().String("addr", "", "Listen address (default: config listen or "+defaultListenAddr+")")
	rootCmd.AddCommand(serveCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	mainPath, _ := flags.GetString("main")
	perUnitAvg, _ := flags.GetString("per-unit-average")
	timeSeries, _ := flags.GetString("time-series")
	delimiter, _ := flags.GetString("delimiter")
	units, _ := flags.GetStringSlice("units")
	allUnits, _ := flags.GetBool("all-units")
	dimensions, _ := flags.GetStringSlice("dimensions")
	year, _ := flags.GetInt("year")
	unit, _ := flags.GetString("unit")
	role, _ := flags.GetString("role")
	reportName, _ := flags.GetString("report-name")
	dir, _ := flags.GetString("dir")
	trend, _ := flags.GetBool("trend")
	distribution, _ := flags.GetBool("distribution")
	describe, _ := flags.GetBool("describe")
	preview, _ := flags.GetInt("preview")

	// O default "csv" só vale quando nem flag nem arquivo escolheram outro formato.
	var reportType []string
	if flags.Changed("report-type") {
		reportType, _ = flags.GetStringSlice("report-type")
	}

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:     configFile,
		MainPath:       mainPath,
		PerUnitAvgPath: perUnitAvg,
		TimeSeriesPath: timeSeries,
		Delimiter:      delimiter,
		Units:          units,
		AllUnits:       allUnits,
		Dimensions:     dimensions,
		Year:           year,
		Unit:           unit,
		Role:           role,
		Trend:          trend,
		Distribution:   distribution,
		Describe:       describe,
		Preview:        preview,
		ReportName:     reportName,
		ReportType:     reportType,
		Dir:            dir,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go version.CheckLatestVersion(ctx, app.version)

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}
	if cliArgs.Dir == "" {
		if cliArgs.Dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	return app.dashboardUseCase.RunDashboard(ctx, cliArgs)
}

// serveCommand carrega o dataset uma vez e atende a API até SIGINT/SIGTERM.
func (app *CLIApp) serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return err
	}
	cfg, err := app.dashboardUseCase.ResolveConfig(cliArgs)
	if err != nil {
		return err
	}
	ds, err := app.dashboardUseCase.LoadDataset(ctx, cfg)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = defaultListenAddr
	}

	return app.newServer(ds).ListenAndServe(ctx, addr)
}

// SetDashboardUseCase sets the dashboard use case for the CLI app.
func (app *CLIApp) SetDashboardUseCase(useCase *usecase.DashboardUseCase) {
	app.dashboardUseCase = useCase
}

// SetServerFactory define como o subcomando serve monta o servidor HTTP.
func (app *CLIApp) SetServerFactory(factory ServerFactory) {
	app.newServer = factory
}
