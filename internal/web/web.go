// Package web exposes the HTTP surface: health, the latest rendered
// frame as PNG, an out-of-cycle refresh trigger and battery status.
package web

import (
	"context"
	"crypto/subtle"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"inkcal/internal/battery"
	"inkcal/internal/config"
	appLog "inkcal/internal/log"
)

// Server provides the HTTP API around a running render pipeline.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux

	batteryReader battery.Reader

	// refresh is signaled (non-blocking) when /api/refresh is hit; the
	// pipeline owner drains it.
	refresh chan struct{}

	// Latest rendered frame, PNG-encoded. Replaced wholesale after each
	// successful render.
	previewMu sync.RWMutex
	preview   []byte
	updatedAt time.Time
}

//go:embed static
var embeddedStatic embed.FS

// NewServer constructs a Server around the given config and battery
// reader.
func NewServer(cfg *config.Config, batteryReader battery.Reader) *Server {
	s := &Server{
		cfg:           cfg,
		mux:           http.NewServeMux(),
		batteryReader: batteryReader,
		refresh:       make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

// Refresh returns the channel signaled by /api/refresh.
func (s *Server) Refresh() <-chan struct{} {
	return s.refresh
}

// SetPreview stores the latest rendered frame for /preview.png.
func (s *Server) SetPreview(png []byte) {
	s.previewMu.Lock()
	s.preview = png
	s.updatedAt = time.Now()
	s.previewMu.Unlock()
}

// Handler returns the http.Handler, wrapped in basic auth when
// configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// Serve runs the HTTP server until ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Listen, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.BasicAuth
	return ba != nil && ba.Username != "" && ba.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="inkcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
	s.mux.HandleFunc("/api/battery", s.handleBattery)
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	s.previewMu.RLock()
	png := s.preview
	updated := s.updatedAt
	s.previewMu.RUnlock()

	if len(png) == 0 {
		http.Error(w, "no frame rendered yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	_, _ = w.Write(png)
}

// handleRefresh is the webhook for an out-of-cycle refresh. The signal is
// dropped when a refresh is already queued.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	select {
	case s.refresh <- struct{}{}:
		appLog.Info("refresh requested via webhook")
	default:
	}
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("refresh queued\n"))
}

func (s *Server) handleBattery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, err := s.batteryReader.Read(ctx)
	if err != nil {
		appLog.Warn("battery read failed", "err", err)
		http.Error(w, "battery unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
