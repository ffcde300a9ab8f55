// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cdracars/OBS-Print-Progress/internal/status"
)

// drainTimeout bounds how long in-flight requests may finish on shutdown.
const drainTimeout = 5 * time.Second

// Config is the HTTP listener config.
type Config struct {
	Host        string
	Port        int
	AllowOrigin string
}

// Server serves read-only snapshots over HTTP.
// Every request is stateless: snapshot, encode, envelope, write.
type Server struct {
	cfg   Config
	store *status.Store
	log   *slog.Logger
	http  *http.Server
}

// envelope is the uniform response wrapper. Every response, including
// not-found, is one of these.
type envelope struct {
	OK    bool             `json:"ok"`
	Data  *status.Document `json:"data,omitempty"`
	Error string           `json:"error,omitempty"`
}

// New wires the route table. Run starts listening.
func New(cfg Config, store *status.Store, log *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: store required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{cfg: cfg, store: store, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /status.json", s.handleStatus)
	mux.HandleFunc("/", s.handleNotFound)

	s.http = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler: mux,
	}

	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run binds, serves until ctx is cancelled, then drains in-flight
// requests. A bind failure surfaces immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}

	s.log.Info("http listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// ---- handlers ----

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("status request", "path", r.URL.Path, "remote", r.RemoteAddr)

	doc := status.Encode(s.store.Snapshot())
	s.writeJSON(w, http.StatusOK, envelope{OK: true, Data: &doc})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("unknown path", "method", r.Method, "path", r.URL.Path)

	s.writeJSON(w, http.StatusNotFound, envelope{OK: false, Error: "not found"})
}

// writeJSON marshals before touching the response so Content-Length is
// always exact, then sets the headers every response carries.
func (s *Server) writeJSON(w http.ResponseWriter, code int, env envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		s.log.Error("response marshal failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", s.cfg.AllowOrigin)
	h.Set("Cache-Control", "no-store")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		s.log.Debug("response write failed", "err", err)
	}
}
