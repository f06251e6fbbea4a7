package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igormath/ic-dataviz/internal/adapter/driven/chart"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/config"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/dataset"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/export"
	"github.com/igormath/ic-dataviz/internal/application/usecase"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
	"github.com/igormath/ic-dataviz/pkg/console"
)

func TestParseArgs(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags([]string{
		"-m", "rad.csv",
		"--time-series", "serie.csv",
		"-u", "Caruaru,POLI",
		"-D", "Ensino",
		"-Y", "2021",
		"-R", "Professor Adjunto",
		"--trend",
		"--preview", "20",
		"-n", "rad",
		"-y", "pdf,xlsx",
		"-d", "out",
	}))

	args, err := app.parseArgs(app.rootCmd)
	require.NoError(t, err)

	abs, _ := filepath.Abs("out")
	assert.Equal(t, "rad.csv", args.MainPath)
	assert.Equal(t, "serie.csv", args.TimeSeriesPath)
	assert.Equal(t, []string{"Caruaru", "POLI"}, args.Units)
	assert.Equal(t, []string{"Ensino"}, args.Dimensions)
	assert.Equal(t, 2021, args.Year)
	assert.Equal(t, "Professor Adjunto", args.Role)
	assert.True(t, args.Trend)
	assert.Equal(t, 20, args.Preview)
	assert.Equal(t, "rad", args.ReportName)
	assert.Equal(t, []string{"pdf", "xlsx"}, args.ReportType)
	assert.Equal(t, abs, args.Dir)
}

func TestParseArgs_ReportTypeDefaultLeftToConfig(t *testing.T) {
	app := NewCLIApp("1.0.0")
	require.NoError(t, app.rootCmd.ParseFlags([]string{"--all-units"}))

	args, err := app.parseArgs(app.rootCmd)
	require.NoError(t, err)

	assert.True(t, args.AllUnits)
	assert.Nil(t, args.ReportType)
	assert.Empty(t, args.Dir)
}

type fakeListener struct {
	addr string
	ds   entity.Dataset
}

func (f *fakeListener) ListenAndServe(ctx context.Context, addr string) error {
	f.addr = addr
	return nil
}

func TestServeCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rad.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("UNIDADE;Nota_RAD\nCaruaru;7,5\nPOLI;8\n"), 0644))

	app := NewCLIApp("1.0.0")
	app.SetDashboardUseCase(usecase.NewDashboardUseCase(
		dataset.NewCSVRepository(""),
		chart.NewChartRepository(),
		export.NewExportRepository(),
		config.NewConfigRepositoryWithEnvFile(filepath.Join(dir, "missing.env")),
		console.NewConsole(),
	))
	l := &fakeListener{}
	app.SetServerFactory(func(ds entity.Dataset) Listener {
		l.ds = ds
		return l
	})

	app.rootCmd.SetArgs([]string{"serve", "-m", csvPath, "--addr", "127.0.0.1:0"})
	require.NoError(t, app.Execute())

	assert.Equal(t, "127.0.0.1:0", l.addr)
	primary, ok := l.ds.Table(entity.DatasetMain)
	require.True(t, ok)
	assert.Equal(t, 2, primary.Len())
}

func TestServeCommand_NoDataset(t *testing.T) {
	t.Setenv(config.EnvDatasetMain, "")
	app := NewCLIApp("1.0.0")
	app.SetDashboardUseCase(usecase.NewDashboardUseCase(
		dataset.NewCSVRepository(""),
		chart.NewChartRepository(),
		export.NewExportRepository(),
		config.NewConfigRepositoryWithEnvFile(filepath.Join(t.TempDir(), "missing.env")),
		console.NewConsole(),
	))
	app.SetServerFactory(func(ds entity.Dataset) Listener { return &fakeListener{} })

	app.rootCmd.SetArgs([]string{"serve"})
	assert.ErrorIs(t, app.Execute(), types.ErrNoDatasetConfigured)
}
