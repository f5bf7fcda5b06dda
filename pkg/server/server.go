// Package server is the HTTP translation shim over the audit engine and
// comparison engine. It owns wire framing only; all behavior lives in the
// core packages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/llmscope/llmscope/pkg/compare"
	"github.com/llmscope/llmscope/pkg/config"
	"github.com/llmscope/llmscope/pkg/engine"
	"github.com/llmscope/llmscope/pkg/provider"
	"github.com/llmscope/llmscope/pkg/store"
)

// Server exposes the audit API over HTTP.
type Server struct {
	cfg        *config.Config
	engine     *engine.Engine
	comparator *compare.Comparator
	mux        *http.ServeMux
	log        *logrus.Entry
}

// New creates a Server wired with all dependencies.
func New(cfg *config.Config, eng *engine.Engine, cmp *compare.Comparator) *Server {
	s := &Server{
		cfg:        cfg,
		engine:     eng,
		comparator: cmp,
		mux:        http.NewServeMux(),
		log:        logrus.WithField("component", "server"),
	}
	s.mux.HandleFunc("GET /api/models", s.handleListModels)
	s.mux.HandleFunc("POST /api/models", s.handleUpsertModel)
	s.mux.HandleFunc("GET /api/models/{id}", s.handleGetModel)
	s.mux.HandleFunc("POST /api/models/{id}/ping", s.handlePing)
	s.mux.HandleFunc("GET /api/models/{id}/comparisons", s.handleListComparisons)
	s.mux.HandleFunc("POST /api/audits", s.handleStartAudit)
	s.mux.HandleFunc("GET /api/audits/{id}", s.handleGetAudit)
	s.mux.HandleFunc("GET /api/audits/{id}/export", s.handleExportAudit)
	s.mux.HandleFunc("POST /api/comparisons", s.handleCompare)
	s.mux.HandleFunc("GET /api/comparisons/{id}", s.handleGetComparison)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the API server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("listen", s.cfg.Listen).Info("llmscope API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"message":%q,"code":%d}}`, message, code)
}

// writeError maps core errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var unknown *provider.UnknownProviderError
	var badConfig *provider.ConfigError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, compare.ErrRunNotCompleted):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrUnsupportedFormat),
		errors.Is(err, engine.ErrInvalidSuite),
		errors.As(err, &unknown),
		errors.As(err, &badConfig):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
