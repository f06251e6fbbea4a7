package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/igormath/ic-dataviz/internal/application/aggregation"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/domain/repository"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	datasetRepo repository.DatasetRepository
	chartRepo   repository.ChartRepository
	exportRepo  repository.ExportRepository
	configRepo  repository.ConfigRepository
	console     types.ConsoleInterface
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	datasetRepo repository.DatasetRepository,
	chartRepo repository.ChartRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		datasetRepo: datasetRepo,
		chartRepo:   chartRepo,
		exportRepo:  exportRepo,
		configRepo:  configRepo,
		console:     console,
	}
}

// ResolveConfig junta arquivo de configuração, ambiente (.env e RAD_*) e flags.
// As flags têm a palavra final.
func (uc *DashboardUseCase) ResolveConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := &types.Config{}
	if args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := uc.configRepo.ApplyEnvironment(cfg); err != nil {
		return nil, err
	}

	if args.MainPath != "" {
		cfg.Datasets.Main = args.MainPath
	}
	if args.PerUnitAvgPath != "" {
		cfg.Datasets.PerUnitAverage = args.PerUnitAvgPath
	}
	if args.TimeSeriesPath != "" {
		cfg.Datasets.TimeSeries = args.TimeSeriesPath
	}
	if args.Delimiter != "" {
		cfg.Delimiter = args.Delimiter
	}
	if len(args.Units) > 0 {
		cfg.Units = args.Units
	}
	if args.AllUnits {
		cfg.Units = aggregation.SelectAllUnits(true)
	}
	if len(args.Dimensions) > 0 {
		cfg.Dimensions = args.Dimensions
	}
	if len(cfg.Dimensions) == 0 {
		cfg.Dimensions = []string{string(entity.DimensionTotal)}
	}
	if args.Year != 0 {
		cfg.Year = args.Year
	}
	if args.Unit != "" {
		cfg.Unit = args.Unit
	}
	if args.Role != "" {
		cfg.Role = args.Role
	}
	if args.ReportName != "" {
		cfg.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
	if len(cfg.ReportType) == 0 {
		cfg.ReportType = []string{"csv"}
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}
	cfg.Trend = cfg.Trend || args.Trend

	return cfg, nil
}

// LoadDataset carrega as tabelas configuradas mostrando um spinner.
func (uc *DashboardUseCase) LoadDataset(ctx context.Context, cfg *types.Config) (entity.Dataset, error) {
	paths := cfg.Datasets.Map()
	if len(paths) == 0 {
		return entity.Dataset{}, types.ErrNoDatasetConfigured
	}

	repo := uc.datasetRepo
	if d, ok := repo.(repository.DelimitedRepository); ok && cfg.Delimiter != "" {
		repo = d.WithDelimiter(cfg.Delimiter)
	}

	status := uc.console.Status("Loading RAD tables...")
	ds, err := repo.LoadDataset(ctx, paths)
	status.Stop()
	if err != nil {
		return entity.Dataset{}, err
	}

	for _, name := range ds.Names() {
		t, _ := ds.Table(name)
		uc.console.LogInfo("Loaded %s table: %d rows", name, t.Len())
	}
	return ds, nil
}

// RunDashboard executa o fluxo completo: carga, seleção, painéis e exportação.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	cfg, err := uc.ResolveConfig(args)
	if err != nil {
		return err
	}

	ds, err := uc.LoadDataset(ctx, cfg)
	if err != nil {
		return err
	}

	sel := SelectionFromConfig(cfg)
	uc.warnSelection(ds, sel)

	if args.Preview > 0 {
		uc.displayPreview(ds, args.Preview)
	}
	if args.Describe {
		uc.displayDescribe(ds)
	}

	report := BuildReport(ds, sel)

	uc.displayUnitMeans(report)
	uc.displayRoleMeans(report)
	if cfg.Trend {
		uc.displayTrend(report, sel)
	}
	if args.Distribution {
		uc.displayDistribution(report)
	}

	if cfg.ReportName != "" {
		uc.exportReport(report, cfg)
	}
	return nil
}

// warnSelection avisa sobre valores fora do domínio; a execução segue com resultados vazios.
func (uc *DashboardUseCase) warnSelection(ds entity.Dataset, sel entity.FilterSelection) {
	if !sel.HasUnits() && sel.Unit == "" {
		uc.console.LogWarning("No units selected. Use --units or --all-units; unit panels will be empty")
	}

	reference, ok := ds.Table(entity.DatasetTimeSeries)
	if !ok {
		reference, _ = ds.Table(entity.DatasetMain)
	}
	for _, err := range aggregation.ValidateSelection(reference, sel) {
		uc.console.LogWarning("%s", err)
	}
}

func (uc *DashboardUseCase) displayPreview(ds entity.Dataset, n int) {
	for _, name := range ds.Names() {
		t, _ := ds.Table(name)
		rows := PreviewRows(t, n)

		table := uc.console.CreateTable()
		for _, h := range rows[0] {
			table.AddColumn(h)
		}
		for _, row := range rows[1:] {
			cells := make([]interface{}, len(row))
			for i, c := range row {
				cells[i] = c
			}
			table.AddRow(cells...)
		}
		uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("Preview: %s (%d of %d rows)", name, len(rows)-1, t.Len()))
		uc.console.Print(table.Render())
	}
}

func (uc *DashboardUseCase) displayDescribe(ds entity.Dataset) {
	for _, name := range ds.Names() {
		t, _ := ds.Table(name)
		records, err := Describe(t)
		if err != nil {
			uc.console.LogWarning("Cannot describe %s table: %s", name, err)
			continue
		}

		table := uc.console.CreateTable()
		for _, h := range records[0] {
			table.AddColumn(h)
		}
		for _, row := range records[1:] {
			cells := make([]interface{}, len(row))
			for i, c := range row {
				cells[i] = c
			}
			table.AddRow(cells...)
		}
		uc.console.Printf("\n%s\n", pterm.FgYellow.Sprintf("Describe: %s", name))
		uc.console.Print(table.Render())
	}
}

func (uc *DashboardUseCase) displayUnitMeans(report entity.Report) {
	if len(report.UnitMeans) == 0 {
		uc.console.LogWarning("No rows match the selected units")
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Unit")
	table.AddColumn("Mean Nota_RAD")
	table.AddColumn("Rows")
	for _, m := range report.UnitMeans {
		table.AddRow(m.Unit, fmt.Sprintf("%.2f", m.Mean), m.Count)
	}
	table.AddRow("Overall", fmt.Sprintf("%.2f", report.Overall), report.OverallCount)
	uc.console.Print(table.Render())

	uc.console.DisplayBars("Notas por unidade média", toBars(report.UnitMeans))
	uc.console.DisplayBars("Notas por unidade cumulativo", totalBars(report.UnitTotals))
}

func (uc *DashboardUseCase) displayRoleMeans(report entity.Report) {
	if len(report.RoleMeans) == 0 {
		return
	}
	uc.console.DisplayBars("Nota média por cargo", toBars(report.RoleMeans))
}

func (uc *DashboardUseCase) displayTrend(report entity.Report, sel entity.FilterSelection) {
	uc.console.LogInfo("Analysing score trends...")
	if len(report.YearMeans) == 0 {
		uc.console.LogWarning("No time-series data for the current selection")
		return
	}

	title := "Média anual"
	if sel.Unit != "" {
		title = fmt.Sprintf("Média anual: %s", sel.Unit)
	}
	uc.console.DisplayBars(title, toBars(report.YearMeans))

	if report.Overlay == nil {
		return
	}
	if keys := report.Overlay.Keys(); len(keys) > 0 {
		uc.console.LogInfo("Distribution overlay aligned on %s", strings.Join(keys, ", "))
	}
	if len(report.Overlay.Unmatched) > 0 {
		uc.console.LogWarning("Keys without a pair in the overlay: %v", report.Overlay.Unmatched)
	}
}

func (uc *DashboardUseCase) displayDistribution(report entity.Report) {
	if len(report.Summaries) == 0 {
		uc.console.LogWarning("No dimension data for the current selection")
		return
	}

	table := uc.console.CreateTable()
	for _, h := range []string{"Dimension", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"} {
		table.AddColumn(h)
	}
	for _, s := range report.Summaries {
		if s.Count == 0 {
			table.AddRow(string(s.Dimension), 0, "-", "-", "-", "-", "-", "-")
			continue
		}
		table.AddRow(
			string(s.Dimension), s.Count,
			fmt.Sprintf("%.2f", s.Min), fmt.Sprintf("%.2f", s.Q1), fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.Q3), fmt.Sprintf("%.2f", s.Max), fmt.Sprintf("%.2f", s.Mean),
		)
	}
	uc.console.Printf("\n%s\n", pterm.FgYellow.Sprint("Distribution by dimension"))
	uc.console.Print(table.Render())
}

// exportReport grava o relatório em cada formato pedido. Falhas de um formato não impedem os outros.
func (uc *DashboardUseCase) exportReport(report entity.Report, cfg *types.Config) {
	needsCharts := false
	for _, t := range cfg.ReportType {
		if t == "png" || t == "pdf" || t == "xlsx" {
			needsCharts = true
		}
	}
	if needsCharts {
		report.Charts = uc.RenderCharts(report, cfg.ReportName, cfg.Dir)
	}

	for _, reportType := range cfg.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		case "xlsx":
			xlsxPath, err := uc.exportRepo.ExportToXLSX(report, cfg.ReportName, cfg.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to XLSX: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to XLSX: %s", xlsxPath)
			}
		case "png":
			for _, p := range report.Charts {
				uc.console.LogSuccess("Chart saved: %s", p)
			}
		default:
			uc.console.LogWarning("Unknown report type %q ignored", reportType)
		}
	}
}

// RenderCharts grava os gráficos PNG do relatório em dir e devolve os caminhos.
// Séries vazias são puladas com um aviso.
func (uc *DashboardUseCase) RenderCharts(report entity.Report, base, dir string) []string {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		uc.console.LogError("Cannot create chart directory %s: %s", dir, err)
		return nil
	}
	timestamp := time.Now().Format("20060102_150405")

	charts := []struct {
		kind   string
		render func(f *os.File) error
	}{
		{"unit_means", func(f *os.File) error {
			return uc.chartRepo.RenderMeanBars(f, "Notas por unidade média", report.UnitMeans)
		}},
		{"unit_totals", func(f *os.File) error {
			return uc.chartRepo.RenderTotalBars(f, "Notas por unidade cumulativo", report.UnitTotals)
		}},
		{"role_means", func(f *os.File) error {
			return uc.chartRepo.RenderMeanBars(f, "Nota média por cargo", report.RoleMeans)
		}},
		{"year_trend", func(f *os.File) error {
			return uc.chartRepo.RenderTrend(f, "Média anual", report.YearMeans)
		}},
		{"dimensions", func(f *os.File) error {
			return uc.chartRepo.RenderDistribution(f, "Dimensões", report.Dimensions, nil)
		}},
		{"year_distribution", func(f *os.File) error {
			return uc.chartRepo.RenderDistribution(f, "Distribuição anual", nil, report.Overlay)
		}},
	}

	progress := uc.console.ProgressWithTotal(len(charts))
	defer progress.Stop()

	var paths []string
	for _, c := range charts {
		progress.Increment()
		if c.kind == "year_distribution" && report.Overlay == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s.png", base, c.kind, timestamp))
		f, err := os.Create(path)
		if err != nil {
			uc.console.LogError("Cannot create chart file %s: %s", path, err)
			continue
		}
		err = c.render(f)
		f.Close()
		if err != nil {
			os.Remove(path)
			if errors.Is(err, types.ErrEmptySeries) {
				uc.console.LogWarning("Skipping %s chart: %s", c.kind, err)
			} else {
				uc.console.LogError("Failed to render %s chart: %s", c.kind, err)
			}
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		paths = append(paths, abs)
	}
	return paths
}

func toBars(means []entity.GroupMean) []types.BarValue {
	bars := make([]types.BarValue, len(means))
	for i, m := range means {
		label := m.Key
		switch {
		case m.Unit != "":
			label = m.Unit
		case m.Role != "":
			label = m.Role
		}
		bars[i] = types.BarValue{Label: label, Value: m.Mean}
	}
	return bars
}

func totalBars(totals []entity.GroupTotal) []types.BarValue {
	bars := make([]types.BarValue, len(totals))
	for i, t := range totals {
		bars[i] = types.BarValue{Label: t.Unit, Value: t.Total}
	}
	return bars
}
