// Package httpapi expõe o motor de agregação como uma API JSON. Cada requisição
// corresponde a uma mudança de filtro no painel e é respondida com chamadas
// diretas ao motor sobre o dataset carregado, que é somente leitura.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/igormath/ic-dataviz/internal/domain/entity"
	"github.com/igormath/ic-dataviz/internal/domain/repository"
)

const shutdownTimeout = 5 * time.Second

// Server serve a API sobre um dataset imutável.
type Server struct {
	dataset entity.Dataset
	charts  repository.ChartRepository
	logger  *zap.Logger
	router  chi.Router
}

// NewServer monta o roteador. logger nil vira um logger no-op.
func NewServer(ds entity.Dataset, charts repository.ChartRepository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{dataset: ds, charts: charts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/units", s.handleUnits)
		r.Get("/means/unit", s.handleMeansByUnit)
		r.Get("/means/year", s.handleMeansByYear)
		r.Get("/means/unit-year", s.handleMeansByUnitYear)
		r.Get("/means/role", s.handleMeansByRole)
		r.Get("/dimensions", s.handleDimensions)
		r.Get("/overlay", s.handleOverlay)
	})
	r.Get("/charts/means.png", s.handleMeansChart)
	r.Get("/charts/totals.png", s.handleTotalsChart)

	s.router = r
	return s
}

// Handler devolve o http.Handler da API.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe escuta em addr até ctx ser cancelado.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve atende em ln e faz shutdown gracioso quando ctx termina.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("RAD API listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("RAD API stopped")
	return nil
}

// logRequests registra cada requisição com campos estruturados.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
