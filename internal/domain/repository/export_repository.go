package repository

import (
	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.Report, filename string, outputDir string) (string, error)
	ExportToJSON(report entity.Report, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.Report, filename string, outputDir string) (string, error)
	ExportToXLSX(report entity.Report, filename string, outputDir string) (string, error)
}
