package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/upstream"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAggregator struct {
	raws []article.Raw
	err  error
	got  []query.Description
}

func (f *fakeAggregator) Query(_ context.Context, d query.Description) ([]article.Raw, error) {
	f.got = append(f.got, d)
	return f.raws, f.err
}

func newTestServer(agg upstream.Aggregator) *Server {
	return New(feed.NewDirect(agg), Options{AllowedOrigins: []string{"*"}})
}

func get(t *testing.T, s *Server, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewsRoutesCategory(t *testing.T) {
	agg := &fakeAggregator{raws: []article.Raw{{URL: article.StringPtr("https://x.example/1")}}}
	s := newTestServer(agg)

	w := get(t, s, "/news?category=business", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if len(agg.got) != 1 {
		t.Fatalf("aggregator called %d times", len(agg.got))
	}
	d := agg.got[0]
	if d.Kind != query.KindTopHeadlines || d.Topic != "business" || d.Country != "us" {
		t.Errorf("unexpected description: %+v", d)
	}

	var raws []article.Raw
	if err := json.Unmarshal(w.Body.Bytes(), &raws); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(raws) != 1 || *raws[0].URL != "https://x.example/1" {
		t.Errorf("unexpected body: %s", w.Body)
	}
}

func TestNewsSearchWins(t *testing.T) {
	agg := &fakeAggregator{}
	s := newTestServer(agg)

	w := get(t, s, "/news?category=tech&search=climate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if d := agg.got[0]; d.Kind != query.KindSearch || d.Keyword != "climate" {
		t.Errorf("unexpected description: %+v", d)
	}
	if got := w.Body.String(); got != "[]" {
		t.Errorf("empty result body = %s, want []", got)
	}
}

func TestNewsErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing key", upstream.ErrMissingKey, http.StatusInternalServerError, "Missing API key"},
		{"upstream status", &upstream.StatusError{StatusCode: 429, Message: "rate limited"}, 429, "rate limited"},
		{"wrapped upstream status", fmt.Errorf("query: %w", &upstream.StatusError{StatusCode: 401, Message: "bad key"}), 401, "bad key"},
		{"transport", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Failed to fetch news"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAggregator{err: tt.err})
			w := get(t, s, "/news?category=world", nil)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	w := get(t, newTestServer(&fakeAggregator{}), "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "OK" || body["service"] != ServiceName {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer(&fakeAggregator{})

	w := get(t, s, "/health", nil)
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	w = get(t, s, "/health", http.Header{RequestIDHeader: {"abc-123"}})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want the caller's", got)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(&fakeAggregator{})
	w := get(t, s, "/news?category=all", http.Header{"Origin": {"http://localhost:3000"}})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCorsConfig(t *testing.T) {
	if cfg := corsConfig(nil); !cfg.AllowAllOrigins {
		t.Error("no origins should allow all")
	}
	cfg := corsConfig([]string{"http://localhost:3000"})
	if cfg.AllowAllOrigins || len(cfg.AllowOrigins) != 1 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := newTestServer(&fakeAggregator{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
