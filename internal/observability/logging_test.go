package observability

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func TestWrapSlogHandlerAddsCycleAndRequestFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(WrapSlogHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithCycleID(context.Background(), "cycle-42")
	ctx = WithRequestMetadata(ctx, "req-7", "/api/v1/migrations")
	log.InfoContext(ctx, "source migrated")

	line := buf.String()
	for _, want := range []string{"cycle_id=cycle-42", "request_id=req-7", "route=/api/v1/migrations"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line %q", want, line)
		}
	}
}

func TestContextValuesIgnoreBlankInput(t *testing.T) {
	t.Parallel()

	ctx := WithSource(WithCycleID(context.Background(), "  "), "")
	if _, ok := CycleIDFromContext(ctx); ok {
		t.Fatal("blank cycle id must not be stored")
	}
	if _, ok := SourceFromContext(ctx); ok {
		t.Fatal("blank source must not be stored")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewLoggerWritesJSONToOutputAndFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "snapledger.log")
	log := NewLogger(LogConfig{Format: "json", Level: "warn", File: path, Output: &buf})

	log.Info("dropped below level")
	log.Warn("source migration failed", "source", "news")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "dropped below level") {
		t.Fatalf("info record must be filtered at warn level: %q", line)
	}
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"source":"news"`) {
		t.Fatalf("expected a json record, got %q", line)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.TrimSpace(string(written)) != line {
		t.Fatalf("log file diverges from output: %q", written)
	}
}

func TestRequestMetadataMiddleware(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: func() string { return "req-1" }}))
	e.Use(RequestMetadataMiddleware())

	var gotID, gotRoute string
	e.GET("/api/v1/sources/:name/collections", func(c echo.Context) error {
		gotID, _ = RequestIDFromContext(c.Request().Context())
		gotRoute, _ = RouteFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sources/news/collections", nil))
	if gotID != "req-1" || gotRoute != "/api/v1/sources/:name/collections" {
		t.Fatalf("unexpected metadata id=%q route=%q", gotID, gotRoute)
	}
}
