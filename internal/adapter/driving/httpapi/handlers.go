package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/igormath/ic-dataviz/internal/application/aggregation"
	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/shared/types"
	"github.com/igormath/ic-dataviz/pkg/version"
)

type errorResponse struct {
	Error string `json:"error"`
}

type meansResponse struct {
	Dataset string              `json:"dataset"`
	Means   []entity.GroupMean  `json:"means"`
	Totals  []entity.GroupTotal `json:"totals,omitempty"`
	Overall *overallMean        `json:"overall,omitempty"`
}

type overallMean struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type dimensionsResponse struct {
	Dataset   string                    `json:"dataset"`
	Series    []entity.DimensionSeries  `json:"series"`
	Summaries []entity.DimensionSummary `json:"summaries"`
}

type overlayResponse struct {
	Dataset string `json:"dataset"`
	entity.Overlay
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Current(),
		"tables":  s.dataset.Names(),
	})
}

// handleUnits é o "selecionar todas": all=false devolve a lista vazia.
func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	all := true
	if v := r.URL.Query().Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid all=%q", v))
			return
		}
		all = b
	}
	writeJSON(w, http.StatusOK, map[string][]string{"units": aggregation.SelectAllUnits(all)})
}

func (s *Server) handleMeansByUnit(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetMain)
	if !ok {
		return
	}
	sel, ok := selection(w, r)
	if !ok {
		return
	}
	base := unitBase(t, sel)
	mean, n := aggregation.MeanOf(base, entity.DimensionTotal)
	writeJSON(w, http.StatusOK, meansResponse{
		Dataset: name,
		Means:   aggregation.MeanByUnit(base),
		Totals:  aggregation.SumByUnit(base),
		Overall: &overallMean{Mean: mean, Count: n},
	})
}

func (s *Server) handleMeansByRole(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetMain)
	if !ok {
		return
	}
	sel, ok := selection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, meansResponse{Dataset: name, Means: aggregation.MeanByRole(aggregation.ApplyPresent(t, sel))})
}

func (s *Server) handleMeansByYear(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetTimeSeries)
	if !ok {
		return
	}
	unit, _ := aggregation.LookupUnit(r.URL.Query().Get("unit"))
	means := aggregation.SortByKey(aggregation.MeanByYearWithinUnit(aggregation.FilterByUnit(t, unit)))
	writeJSON(w, http.StatusOK, meansResponse{Dataset: name, Means: means})
}

// handleMeansByUnitYear devolve médias por unidade dentro de um ano; sem ano, por par unidade×ano.
func (s *Server) handleMeansByUnitYear(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetTimeSeries)
	if !ok {
		return
	}
	if r.URL.Query().Get("year") == "" {
		writeJSON(w, http.StatusOK, meansResponse{Dataset: name, Means: aggregation.MeanByUnitAndYear(t)})
		return
	}
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	means := aggregation.MeanByUnitWithinYear(aggregation.FilterByYear(t, year))
	writeJSON(w, http.StatusOK, meansResponse{Dataset: name, Means: means})
}

func (s *Server) handleDimensions(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetPerUnitAverage)
	if !ok {
		return
	}
	unit, _ := aggregation.LookupUnit(r.URL.Query().Get("unit"))

	var dims []entity.Dimension
	for _, d := range splitParam(r.URL.Query().Get("dimensions")) {
		canonical, _ := aggregation.LookupDimension(d)
		dims = append(dims, canonical)
	}

	series := aggregation.DimensionSeries(aggregation.FilterByUnit(t, unit), dims)
	summaries := make([]entity.DimensionSummary, 0, len(series))
	for _, ds := range series {
		summaries = append(summaries, entity.DimensionSummary{Dimension: ds.Dimension, Summary: aggregation.Summarize(ds.Values())})
	}
	writeJSON(w, http.StatusOK, dimensionsResponse{Dataset: name, Series: series, Summaries: summaries})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	name, t, ok := s.table(w, r, entity.DatasetTimeSeries)
	if !ok {
		return
	}
	unit, _ := aggregation.LookupUnit(r.URL.Query().Get("unit"))
	scoped := aggregation.FilterByUnit(t, unit)

	overlay := aggregation.OverlayMean(
		aggregation.MeanByYearWithinUnit(scoped),
		aggregation.Samples(scoped, entity.DimensionTotal, entity.KeyYear),
	)
	writeJSON(w, http.StatusOK, overlayResponse{Dataset: name, Overlay: overlay})
}

func (s *Server) handleMeansChart(w http.ResponseWriter, r *http.Request) {
	_, t, ok := s.table(w, r, entity.DatasetMain)
	if !ok {
		return
	}
	sel, ok := selection(w, r)
	if !ok {
		return
	}
	means := aggregation.MeanByUnit(unitBase(t, sel))
	s.writeChart(w, func(buf io.Writer) error {
		return s.charts.RenderMeanBars(buf, "Notas por unidade média", means)
	})
}

func (s *Server) handleTotalsChart(w http.ResponseWriter, r *http.Request) {
	_, t, ok := s.table(w, r, entity.DatasetMain)
	if !ok {
		return
	}
	sel, ok := selection(w, r)
	if !ok {
		return
	}
	totals := aggregation.SumByUnit(unitBase(t, sel))
	s.writeChart(w, func(buf io.Writer) error {
		return s.charts.RenderTotalBars(buf, "Notas por unidade cumulativo", totals)
	})
}

// writeChart responde o PNG; uma série vazia vira 204.
func (s *Server) writeChart(w http.ResponseWriter, render func(io.Writer) error) {
	var buf bytes.Buffer
	err := render(&buf)
	switch {
	case errors.Is(err, types.ErrEmptySeries):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		s.logger.Error("chart rendering failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// unitBase é a seleção sobre a tabela principal, ordenada por unidade como no CLI.
func unitBase(t entity.Table, sel entity.FilterSelection) entity.Table {
	return aggregation.SortedByUnit(aggregation.ApplyPresent(t, sel))
}

// table resolve o parâmetro dataset. Um nome desconhecido responde 404.
func (s *Server) table(w http.ResponseWriter, r *http.Request, fallback string) (string, entity.Table, bool) {
	name := r.URL.Query().Get("dataset")
	if name == "" {
		name = fallback
	}
	t, ok := s.dataset.Table(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", types.ErrDatasetNotFound, name))
		return name, entity.Table{}, false
	}
	return name, t, true
}

// selection lê units, year e role da query. Nomes são normalizados; desconhecidos
// continuam valendo e só não casam com nenhuma linha.
func selection(w http.ResponseWriter, r *http.Request) (entity.FilterSelection, bool) {
	q := r.URL.Query()
	sel := entity.FilterSelection{
		Units: splitParam(q.Get("units")),
		Role:  q.Get("role"),
	}
	if q.Get("all") == "true" {
		sel.Units = aggregation.SelectAllUnits(true)
	}
	if q.Get("year") != "" {
		year, ok := yearParam(w, r)
		if !ok {
			return entity.FilterSelection{}, false
		}
		sel.Year = year
	}
	return aggregation.NormalizeSelection(sel), true
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("year")
	year, err := strconv.Atoi(v)
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid year %q", v))
		return 0, false
	}
	return year, true
}

func splitParam(v string) []string {
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
