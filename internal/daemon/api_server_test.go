package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"logwatch/internal/api"
	"logwatch/internal/logging"
	"logwatch/internal/testsupport"
	"logwatch/internal/watcher"
)

func newTestAPIServer(t *testing.T, opts ...testsupport.ConfigOption) (*apiServer, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	w := watcher.New(cfg.Paths.WatchFile, watcher.Options{PollInterval: cfg.PollInterval()})
	return newAPIServer(cfg, w, logging.NewNop()), cfg.Paths.WatchFile
}

func TestAPIServerHandleLines(t *testing.T) {
	srv, path := newTestAPIServer(t, testsupport.WithReplayLines(3))
	for i := 1; i <= 5; i++ {
		testsupport.AppendString(t, path, fmt.Sprintf("entry %d\n", i))
	}

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"default count", "", []string{"entry 3", "entry 4", "entry 5"}},
		{"explicit count", "?n=2", []string{"entry 4", "entry 5"}},
		{"zero", "?n=0", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/lines"+tc.query, nil)
			rec := httptest.NewRecorder()
			srv.handleLines(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", rec.Code)
			}
			var resp api.LinesResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if !reflect.DeepEqual(resp.Lines, tc.want) {
				t.Fatalf("unexpected lines: %#v", resp.Lines)
			}
		})
	}
}

func TestAPIServerHandleLinesRejectsBadCount(t *testing.T) {
	srv, _ := newTestAPIServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/lines?n=ten", nil)
	rec := httptest.NewRecorder()
	srv.handleLines(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAPIServerHandleStatusStopped(t *testing.T) {
	srv, path := newTestAPIServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)

	var resp api.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Running || resp.State != "stopped" {
		t.Fatalf("expected stopped watcher, got %+v", resp)
	}
	if resp.Path != path || resp.Encoding != "utf-8" {
		t.Fatalf("unexpected status: %+v", resp)
	}
}

func TestAPIServerRejectsNonGet(t *testing.T) {
	srv, _ := newTestAPIServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv, _ := newTestAPIServer(t)
	handler := srv.authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer secret", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}

	open := srv.authMiddleware("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	open(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected open access without token, got %d", rec.Code)
	}
}

func TestStreamClientDropsWhenFull(t *testing.T) {
	client := newStreamClient(nil, 2)
	for _, line := range []string{"a", "b", "c", "d"} {
		client.enqueue(line)
	}
	if len(client.send) != 2 {
		t.Fatalf("expected 2 buffered lines, got %d", len(client.send))
	}
	if client.dropped.Load() != 2 {
		t.Fatalf("expected 2 dropped lines, got %d", client.dropped.Load())
	}
}
