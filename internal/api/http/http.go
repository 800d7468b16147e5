package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"github.com/amitd-dev/icebarcatmf/internal/entity"
	"github.com/amitd-dev/icebarcatmf/internal/report"
)

func init() {
	// Report payloads carry monetary figures as JSON numbers, matching the
	// dashboard clients.
	decimal.MarshalJSONWithoutQuotes = true
}

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server
type Server struct {
	hs     *http.Server
	c      *Config
	engine *report.Engine
	done   chan struct{}
}

// New creates a new server
func New(config *Config, engine *report.Engine) *Server {
	return &Server{
		c:      config,
		engine: engine,
		done:   make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/v1/reports/{reportType}", s.handleReport)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Default().InfoContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rt, err := report.ParseReportType(chi.URLParam(r, "reportType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	params := report.Params{
		ReportType: rt,
		PlayerType: entity.ParsePlayerSegment(q.Get("playerType")),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
		Timezone:   q.Get("timezone"),
	}

	payload, err := s.engine.ComputeReport(ctx, params)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Default().ErrorContext(ctx, "can't compute report",
			slog.String("reportType", string(rt)),
			slog.String("playerType", params.PlayerType.String()),
			slog.String("err", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, errors.New("can't compute report"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": payload})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("can't encode response", slog.String("err", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("report service new listener on: http://%v", listenerAddr))
		err := s.hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts down the http server.
func (s *Server) Stop(ctx context.Context) {
	if s.hs == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.hs.Shutdown(shutdownCtx); err != nil {
		slog.Default().ErrorContext(ctx, "http server shutdown failed",
			slog.String("err", err.Error()),
		)
	}
}
