package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes: %v", codes)
	}

	clock = clock.Add(30 * time.Second)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("refilled before a full interval: %d", rec.Code)
	}

	clock = clock.Add(30 * time.Second)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("bucket not refilled: %d", rec.Code)
	}
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	body := strings.Repeat("lecture ", 512)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusOK, body) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("expected br encoding, headers: %v", rec.Header())
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rec.Body.Bytes())))
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(plain) != body {
		t.Fatalf("round trip mismatch: %d bytes", len(plain))
	}

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "" || rec.Body.String() != "ok" {
		t.Fatalf("small body should pass through: %q %v", rec.Body.String(), rec.Header())
	}
}

func TestBrotliLeavesEncodedBodiesAlone(t *testing.T) {
	payload := bytes.Repeat([]byte{0x1f, 0x8b, 0x08, 0x00}, 512)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/gz", func(c *gin.Context) {
		c.Header("Content-Encoding", "gzip")
		c.Data(http.StatusOK, "text/plain", payload)
	})

	req := httptest.NewRequest(http.MethodGet, "/gz", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("expected the handler's gzip encoding to survive, got %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("body was rewritten: %d bytes", rec.Body.Len())
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/"+id, nil))
	}
	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/students/:id", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests on template, got %v", got)
	}
}

func TestRequestLoggerWritesLine(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	line := buf.String()
	if !strings.Contains(line, `"status":404`) || !strings.Contains(line, `"level":"warn"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
}

func TestCacheControl(t *testing.T) {
	r := gin.New()
	r.Use(CacheControl("no-store"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("header missing: %v", rec.Header())
	}
}
