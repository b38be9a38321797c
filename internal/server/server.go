// Package server provides the HTTP API for the content pipeline.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorforge/nexus/internal/config"
	"github.com/creatorforge/nexus/internal/pipeline"
	"github.com/creatorforge/nexus/internal/store"
	"github.com/creatorforge/nexus/internal/types"
)

// Runner is the pipeline surface the handlers invoke
type Runner interface {
	RunPhase1(ctx context.Context, inputs pipeline.Inputs) (*pipeline.Phase1Result, error)
	RunPhase2(ctx context.Context, runID int64, mediaPath string) (*types.PipelineState, error)
}

// RunLister reads run history for the listing endpoint
type RunLister interface {
	ListRecent(ctx context.Context, limit int) ([]store.RunRecord, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	runner     Runner
	lister     RunLister
	uploadDir  string
}

// New creates a new server instance
func New(cfg *config.Config, port int, runner Runner, lister RunLister) *Server {
	s := &Server{
		runner:    runner,
		lister:    lister,
		uploadDir: cfg.UploadDir,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-script", s.handleGenerateScript)
	mux.HandleFunc("POST /process-video", s.handleProcessVideo)
	mux.HandleFunc("GET /recent-runs", s.handleRecentRuns)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withCORS(mux),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Start runs the server until interrupted, then shuts down gracefully
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for the dashboard frontends
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
