package repository

import (
	"io"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
)

// ChartRepository renders chart-ready series as PNG images.
type ChartRepository interface {
	RenderMeanBars(w io.Writer, title string, means []entity.GroupMean) error
	RenderTotalBars(w io.Writer, title string, totals []entity.GroupTotal) error
	RenderTrend(w io.Writer, title string, means []entity.GroupMean) error
	RenderDistribution(w io.Writer, title string, series []entity.DimensionSeries, overlay *entity.Overlay) error
}
