package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
)

// StatusReport is served by the watch-mode status endpoint.
type StatusReport struct {
	Project   string    `json:"project"`
	Objects   int       `json:"objects"`
	Reloads   int       `json:"reloads"`
	LoadedAt  time.Time `json:"loaded_at"`
	LastError string    `json:"last_error,omitempty"`
}

// Healthy reports whether the last load succeeded.
func (r StatusReport) Healthy() bool { return r.Reloads > 0 && r.LastError == "" }

type watchStatus struct {
	mu     sync.Mutex
	report StatusReport
}

func (s *watchStatus) record(dir string, p *xcodeproj.Project, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Project = dir
	s.report.Reloads++
	if err != nil {
		s.report.LastError = err.Error()
		return
	}
	s.report.LastError = ""
	s.report.Objects = p.Objects().Len()
	s.report.LoadedAt = time.Now()
}

func (s *watchStatus) snapshot() StatusReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// healthHandler writes the current status; failed loads answer 503.
func (s *watchStatus) healthHandler(ctx context.Context) http.HandlerFunc {
	logger := ctxlog.FromContext(ctx)
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		report := s.snapshot()
		w.Header().Set("Content-Type", "application/json")
		if !report.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.Error("Writing health report failed.", "error", err)
		}
	}
}

type statusServer struct {
	srv    *http.Server
	addr   string
	logger *slog.Logger
}

// startStatusServer listens on addr and serves /health until Shutdown.
func startStatusServer(ctx context.Context, addr string, status *watchStatus) (*statusServer, error) {
	logger := ctxlog.FromContext(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("status server: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", status.healthHandler(ctx))

	s := &statusServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		addr:   ln.Addr().String(),
		logger: logger,
	}
	go func() {
		logger.Info("Status server starting.", "address", fmt.Sprintf("http://%s/health", s.addr))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly.", "error", err)
		}
	}()
	return s, nil
}

func (s *statusServer) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down status server.")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Status server shutdown failed.", "error", err)
		return err
	}
	return nil
}
