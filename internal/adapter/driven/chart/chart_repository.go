package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/domain/repository"
	"github.com/igormath/ic-dataviz/internal/shared/types"
)

// palette é a paleta categórica usada para unidades e dimensões.
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ChartRepositoryImpl implementa o ChartRepository gerando PNGs.
type ChartRepositoryImpl struct {
	width  int
	height int
}

// NewChartRepository cria o renderizador com o tamanho padrão dos painéis.
func NewChartRepository() repository.ChartRepository {
	return &ChartRepositoryImpl{width: 1024, height: 512}
}

// RenderMeanBars desenha uma barra por grupo, na ordem recebida.
func (r *ChartRepositoryImpl) RenderMeanBars(w io.Writer, title string, means []entity.GroupMean) error {
	if len(means) == 0 {
		return fmt.Errorf("%s: %w", title, types.ErrEmptySeries)
	}

	bars := make([]gochart.Value, len(means))
	for i, m := range means {
		bars[i] = bar(label(m), m.Mean, seriesColor(m, i))
	}
	return r.renderBars(w, title, bars)
}

// RenderTotalBars desenha a soma do Nota_RAD de cada unidade (gráfico cumulativo).
func (r *ChartRepositoryImpl) RenderTotalBars(w io.Writer, title string, totals []entity.GroupTotal) error {
	if len(totals) == 0 {
		return fmt.Errorf("%s: %w", title, types.ErrEmptySeries)
	}

	bars := make([]gochart.Value, len(totals))
	for i, t := range totals {
		bars[i] = bar(t.Unit, t.Total, seriesColor(entity.GroupMean{Unit: t.Unit}, i))
	}
	return r.renderBars(w, title, bars)
}

func bar(name string, value float64, fill drawing.Color) gochart.Value {
	return gochart.Value{
		Label: name,
		Value: value,
		Style: gochart.Style{
			FillColor:   fill,
			StrokeColor: fill,
		},
	}
}

func (r *ChartRepositoryImpl) renderBars(w io.Writer, title string, bars []gochart.Value) error {
	values := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = b.Value
	}

	const barWidth, barSpacing = 40, 20
	width := r.width
	if needed := len(bars)*(barWidth+barSpacing) + 120; needed > width {
		width = needed
	}

	graph := gochart.BarChart{
		Title:      title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax(values)},
		},
		Bars: bars,
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("error rendering bar chart: %w", err)
	}
	return nil
}

// RenderTrend desenha a média como linha. Séries por ano usam o ano no eixo X;
// as demais usam a posição do grupo.
func (r *ChartRepositoryImpl) RenderTrend(w io.Writer, title string, means []entity.GroupMean) error {
	if len(means) == 0 {
		return fmt.Errorf("%s: %w", title, types.ErrEmptySeries)
	}

	xs := make([]float64, len(means))
	ys := make([]float64, len(means))
	ticks := make([]gochart.Tick, len(means))
	for i, m := range means {
		xs[i] = float64(i)
		if m.Year != 0 && m.Unit == "" {
			xs[i] = float64(m.Year)
		}
		ys[i] = m.Mean
		ticks[i] = gochart.Tick{Value: xs[i], Label: label(m)}
	}

	// Um único ponto deixaria o eixo X com intervalo zero. Com ticks definidos o
	// go-chart tira o intervalo deles, então o tick extra também é necessário.
	if len(xs) == 1 {
		xs = append(xs, xs[0]+1)
		ys = append(ys, ys[0])
		ticks = append(ticks, gochart.Tick{Value: xs[1]})
	}

	line := gochart.ColorBlue
	graph := gochart.Chart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{Ticks: ticks},
		YAxis: gochart.YAxis{
			Name:  "Nota RAD",
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax(ys)},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "mean",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: line,
					StrokeWidth: 2,
					DotColor:    line,
					DotWidth:    4,
				},
			},
		},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("error rendering trend chart: %w", err)
	}
	return nil
}

// RenderDistribution desenha um box plot com os pontos individuais por cima.
// Com overlay, cada chave do overlay vira uma caixa e as médias formam uma linha;
// sem overlay, cada dimensão de series vira uma caixa.
func (r *ChartRepositoryImpl) RenderDistribution(w io.Writer, title string, series []entity.DimensionSeries, overlay *entity.Overlay) error {
	type group struct {
		name   string
		values []float64
		mean   float64
	}

	var groups []group
	if overlay != nil {
		for _, pt := range overlay.Points {
			groups = append(groups, group{name: pt.Key, values: pt.Values, mean: pt.Mean})
		}
	} else {
		for _, s := range series {
			groups = append(groups, group{name: string(s.Dimension), values: s.Values()})
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Nota"

	var names []string
	var meanLine plotter.XYs
	for _, g := range groups {
		if len(g.values) == 0 {
			continue
		}
		x := float64(len(names))
		fill := hexColor(palette[len(names)%len(palette)])

		box, err := plotter.NewBoxPlot(vg.Points(24), x, plotter.Values(g.values))
		if err != nil {
			return fmt.Errorf("error building box plot for %s: %w", g.name, err)
		}
		box.FillColor = withAlpha(fill, 0x60)
		p.Add(box)

		points := make(plotter.XYs, len(g.values))
		for j, v := range g.values {
			points[j].X = x + jitter(j)
			points[j].Y = v
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			return fmt.Errorf("error building strip plot for %s: %w", g.name, err)
		}
		scatter.GlyphStyle.Color = fill
		scatter.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(scatter)

		meanLine = append(meanLine, plotter.XY{X: x, Y: g.mean})
		names = append(names, g.name)
	}

	if len(names) == 0 {
		return fmt.Errorf("%s: %w", title, types.ErrEmptySeries)
	}

	if overlay != nil {
		line, err := plotter.NewLine(meanLine)
		if err != nil {
			return fmt.Errorf("error building mean line: %w", err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = hexColor("#d62728")
		p.Add(line)
		p.Legend.Add("mean", line)
		p.Legend.Top = true
	}

	p.NominalX(names...)
	p.Add(plotter.NewGrid())

	wt, err := p.WriterTo(vg.Points(float64(r.width)*0.75), vg.Points(float64(r.height)*0.75), "png")
	if err != nil {
		return fmt.Errorf("error rendering distribution chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("error writing distribution chart: %w", err)
	}
	return nil
}

// label é o rótulo de eixo de um grupo.
func label(m entity.GroupMean) string {
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

// seriesColor usa a cor do cargo quando houver, senão a paleta.
func seriesColor(m entity.GroupMean, i int) drawing.Color {
	if m.Role != "" {
		return drawing.ColorFromHex(strings.TrimPrefix(entity.RoleColor(m.Role), "#"))
	}
	return drawing.ColorFromHex(strings.TrimPrefix(palette[i%len(palette)], "#"))
}

// yMax mantém a escala de 0 a 10 das notas, crescendo se algum valor passar disso.
func yMax(values []float64) float64 {
	top := 10.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	return math.Ceil(top)
}

// jitter espalha os pontos de uma caixa de forma determinística.
func jitter(i int) float64 {
	return (float64((i*7)%11)/10 - 0.5) * 0.3
}

func hexColor(hex string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
