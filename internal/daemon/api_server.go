package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logwatch/internal/api"
	"logwatch/internal/config"
	"logwatch/internal/logging"
	"logwatch/internal/watcher"
)

// maxLinesPerRequest bounds /api/lines so one request cannot buffer the whole file.
const maxLinesPerRequest = 5000

type apiServer struct {
	bind        string
	replayLines int
	buffer      int
	logger      *slog.Logger
	watcher     *watcher.Watcher
	upgrader    websocket.Upgrader
	handler     http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	cancel   context.CancelFunc
	streams  sync.WaitGroup
}

func newAPIServer(cfg *config.Config, w *watcher.Watcher, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:        strings.TrimSpace(cfg.Paths.APIBind),
		replayLines: cfg.Tail.ReplayLines,
		buffer:      cfg.Tail.ClientBuffer,
		logger:      logging.NewComponentLogger(logger, "api-server"),
		watcher:     w,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	if srv.buffer <= 0 {
		srv.buffer = 1
	}

	token := cfg.Paths.APIToken
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/lines", srv.authMiddleware(token, srv.handleLines))
	mux.HandleFunc("/ws", srv.authMiddleware(token, srv.handleStream))
	mux.HandleFunc("/metrics", srv.authMiddleware(token, promhttp.Handler().ServeHTTP))
	srv.handler = mux
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		s.logger.Info("api server disabled")
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return streamCtx },
	}

	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// stop shuts the listener down and waits for open streams to close. Hijacked
// WebSocket connections are not tracked by http.Server, so they are ended
// through the stream context.
func (s *apiServer) stop() {
	s.mu.Lock()
	listener, server, cancel := s.listener, s.server, s.cancel
	s.listener, s.server, s.cancel = nil, nil, nil
	s.mu.Unlock()
	if listener == nil {
		return
	}

	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	_ = server.Shutdown(shutdownCtx)
	s.streams.Wait()
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state := s.watcher.State()
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:     state == watcher.StateRunning,
		State:       state.String(),
		PID:         os.Getpid(),
		Path:        s.watcher.Path(),
		Encoding:    s.watcher.Encoding().String(),
		Offset:      s.watcher.Offset(),
		Subscribers: s.watcher.Subscribers(),
	})
}

func (s *apiServer) handleLines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n := s.replayLines
	if value := strings.TrimSpace(r.URL.Query().Get("n")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid line count")
			return
		}
		n = parsed
	}
	n = min(n, maxLinesPerRequest)
	s.writeJSON(w, http.StatusOK, api.LinesResponse{Lines: s.watcher.LastLines(n)})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
