package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/igormath/ic-dataviz/internal/adapter/driven/chart"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/config"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/dataset"
	"github.com/igormath/ic-dataviz/internal/adapter/driven/export"
	"github.com/igormath/ic-dataviz/internal/adapter/driving/cli"
	"github.com/igormath/ic-dataviz/internal/adapter/driving/httpapi"
	"github.com/igormath/ic-dataviz/internal/application/usecase"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/pkg/console"
	"github.com/igormath/ic-dataviz/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios. O delimitador é detectado por arquivo até a
	// configuração escolher outro.
	datasetRepo := dataset.NewCSVRepository("")
	chartRepo := chart.NewChartRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	dashboardUseCase := usecase.NewDashboardUseCase(
		datasetRepo,
		chartRepo,
		exportRepo,
		configRepo,
		consoleImpl,
	)
	app.SetDashboardUseCase(dashboardUseCase)

	app.SetServerFactory(func(ds entity.Dataset) cli.Listener {
		logger, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
		return httpapi.NewServer(ds, chartRepo, logger)
	})

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
