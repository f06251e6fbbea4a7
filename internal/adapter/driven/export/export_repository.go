package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/domain/repository"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Seções do CSV achatado.
const (
	sectionUnitMean  = "unit_mean"
	sectionUnitTotal = "unit_total"
	sectionOverall   = "overall"
	sectionYearMean  = "year_mean"
	sectionRoleMean  = "role_mean"
	sectionSummary   = "summary"
)

// reportRow é uma linha do CSV exportado. Cada seção do relatório preenche só as colunas que usa.
type reportRow struct {
	Section   string `csv:"section"`
	Key       string `csv:"key"`
	Unit      string `csv:"unit"`
	Year      string `csv:"year"`
	Role      string `csv:"role"`
	Dimension string `csv:"dimension"`
	Mean      string `csv:"mean"`
	Total     string `csv:"total"`
	Count     int    `csv:"count"`
	Min       string `csv:"min"`
	Q1        string `csv:"q1"`
	Median    string `csv:"median"`
	Q3        string `csv:"q3"`
	Max       string `csv:"max"`
}

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportToCSV(report entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := gocsv.MarshalCSV(flatten(report), writer); err != nil {
		return "", fmt.Errorf("error writing CSV data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(report entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(report entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("RAD Dashboard | %s", time.Now().Format("2006-01-02"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	title := report.Title
	if title == "" {
		title = "RAD Dashboard"
	}
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+title), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, tr("  "+describeSelection(report.Selection)), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	headers := []string{"Group", "Mean", "Count"}
	widths := []float64{110, 40, 40}
	meanRows := func(means []entity.GroupMean) [][]string {
		rows := make([][]string, len(means))
		for i, m := range means {
			rows[i] = []string{groupLabel(m), formatScore(m.Mean), strconv.Itoa(m.Count)}
		}
		return rows
	}

	drawTable(pdf, tr, "Mean score by unit", headers, widths, meanRows(report.UnitMeans))
	if report.OverallCount > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Overall mean: %s (%d rows)", formatScore(report.Overall), report.OverallCount)), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}
	totalRows := make([][]string, len(report.UnitTotals))
	for i, t := range report.UnitTotals {
		totalRows[i] = []string{t.Unit, formatScore(t.Total), strconv.Itoa(t.Count)}
	}
	drawTable(pdf, tr, "Cumulative score by unit", []string{"Unit", "Total", "Count"}, widths, totalRows)
	drawTable(pdf, tr, "Mean score by year", headers, widths, meanRows(report.YearMeans))
	drawTable(pdf, tr, "Mean score by role", headers, widths, meanRows(report.RoleMeans))

	summaryRows := make([][]string, len(report.Summaries))
	for i, s := range report.Summaries {
		summaryRows[i] = []string{
			string(s.Dimension), strconv.Itoa(s.Count),
			formatScore(s.Min), formatScore(s.Q1), formatScore(s.Median),
			formatScore(s.Q3), formatScore(s.Max), formatScore(s.Mean),
		}
	}
	drawTable(pdf, tr, "Dimension distribution",
		[]string{"Dimension", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"},
		[]float64{36, 18, 22, 22, 22, 22, 22, 26},
		summaryRows)

	for _, chartPath := range report.Charts {
		pdf.AddPage()
		pdf.ImageOptions(chartPath, 10, 20, 190, 0, false, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToXLSX(report entity.Report, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		means []entity.GroupMean
	}{
		{"Unidades", report.UnitMeans},
		{"Anos", report.YearMeans},
		{"Cargos", report.RoleMeans},
	}

	first := true
	for _, s := range sheets {
		if len(s.means) == 0 && !first {
			continue
		}
		if first {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return "", fmt.Errorf("error naming sheet: %w", err)
			}
			first = false
		} else if _, err := f.NewSheet(s.name); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", s.name, err)
		}

		rows := [][]interface{}{{"Key", "Unit", "Year", "Role", "Mean", "Count"}}
		for _, m := range s.means {
			rows = append(rows, []interface{}{m.Key, m.Unit, yearCell(m.Year), m.Role, m.Mean, m.Count})
		}
		if err := writeRows(f, s.name, rows); err != nil {
			return "", err
		}
	}

	if len(report.UnitTotals) > 0 {
		const sheet = "Cumulativo"
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", sheet, err)
		}
		rows := [][]interface{}{{"Unit", "Total", "Count"}}
		for _, t := range report.UnitTotals {
			rows = append(rows, []interface{}{t.Unit, t.Total, t.Count})
		}
		if err := writeRows(f, sheet, rows); err != nil {
			return "", err
		}
	}

	if len(report.Summaries) > 0 {
		const sheet = "Dimensoes"
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", sheet, err)
		}
		rows := [][]interface{}{{"Dimension", "Count", "Min", "Q1", "Median", "Q3", "Max", "Mean"}}
		for _, s := range report.Summaries {
			rows = append(rows, []interface{}{string(s.Dimension), s.Count, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean})
		}
		if err := writeRows(f, sheet, rows); err != nil {
			return "", err
		}
	}

	if len(report.Charts) > 0 {
		const sheet = "Graficos"
		if _, err := f.NewSheet(sheet); err != nil {
			return "", fmt.Errorf("error creating sheet %s: %w", sheet, err)
		}
		for i, chartPath := range report.Charts {
			cell, _ := excelize.CoordinatesToCellName(1, 1+i*28)
			if err := f.AddPicture(sheet, cell, chartPath, nil); err != nil {
				return "", fmt.Errorf("error embedding chart %s: %w", chartPath, err)
			}
		}
	}

	if err := f.SaveAs(outputFilename); err != nil {
		return "", fmt.Errorf("error writing XLSX file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// flatten achata as séries do relatório em linhas do CSV.
func flatten(report entity.Report) []reportRow {
	var rows []reportRow
	add := func(section string, means []entity.GroupMean) {
		for _, m := range means {
			rows = append(rows, reportRow{
				Section: section,
				Key:     m.Key,
				Unit:    m.Unit,
				Year:    yearText(m.Year),
				Role:    m.Role,
				Mean:    formatScore(m.Mean),
				Count:   m.Count,
			})
		}
	}
	add(sectionUnitMean, report.UnitMeans)
	for _, t := range report.UnitTotals {
		rows = append(rows, reportRow{
			Section: sectionUnitTotal,
			Key:     t.Key,
			Unit:    t.Unit,
			Total:   formatScore(t.Total),
			Count:   t.Count,
		})
	}
	if report.OverallCount > 0 {
		rows = append(rows, reportRow{
			Section: sectionOverall,
			Key:     sectionOverall,
			Mean:    formatScore(report.Overall),
			Count:   report.OverallCount,
		})
	}
	add(sectionYearMean, report.YearMeans)
	add(sectionRoleMean, report.RoleMeans)

	for _, s := range report.Summaries {
		rows = append(rows, reportRow{
			Section:   sectionSummary,
			Key:       string(s.Dimension),
			Dimension: string(s.Dimension),
			Mean:      formatScore(s.Mean),
			Count:     s.Count,
			Min:       formatScore(s.Min),
			Q1:        formatScore(s.Q1),
			Median:    formatScore(s.Median),
			Q3:        formatScore(s.Q3),
			Max:       formatScore(s.Max),
		})
	}
	return rows
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, headers []string, widths []float64, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("error writing %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

// describeSelection resume a seleção no cabeçalho do PDF.
func describeSelection(sel entity.FilterSelection) string {
	var parts []string
	if len(sel.Units) > 0 {
		parts = append(parts, "Units: "+strings.Join(sel.Units, ", "))
	}
	if len(sel.Dimensions) > 0 {
		dims := make([]string, len(sel.Dimensions))
		for i, d := range sel.Dimensions {
			dims[i] = string(d)
		}
		parts = append(parts, "Dimensions: "+strings.Join(dims, ", "))
	}
	if sel.Year != 0 {
		parts = append(parts, "Year: "+strconv.Itoa(sel.Year))
	}
	if sel.Unit != "" {
		parts = append(parts, "Unit: "+sel.Unit)
	}
	if sel.Role != "" {
		parts = append(parts, "Role: "+sel.Role)
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return cleanANSI(strings.Join(parts, " | "))
}

func groupLabel(m entity.GroupMean) string {
	switch {
	case m.Unit != "" && m.Year != 0:
		return fmt.Sprintf("%s %d", m.Unit, m.Year)
	case m.Unit != "":
		return m.Unit
	case m.Role != "":
		return m.Role
	case m.Year != 0:
		return strconv.Itoa(m.Year)
	}
	return m.Key
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yearText(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func yearCell(y int) interface{} {
	if y == 0 {
		return ""
	}
	return y
}

// generateFilename monta "<base>_<timestamp>.<ext>" dentro de dir, criando o diretório se preciso.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}

func cleanANSI(text string) string {
	return ansiRegex.ReplaceAllString(text, "")
}
