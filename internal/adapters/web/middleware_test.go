package web

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tweetfeed/pkg/log"
	"tweetfeed/pkg/log/transporters"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func setupTestApp() *fiber.App {
	app := fiber.New()
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestContextMiddleware())
	return app
}

// captureLogs installs a JSON logger writing into the returned buffer.
// Call the returned func before reading the buffer to flush the async worker.
func captureLogs(t *testing.T) (*bytes.Buffer, func()) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(log.Info, transporters.NewStdoutWithWriter(&buf))
	log.SetDefault(logger)
	t.Cleanup(func() { log.SetDefault(nil) })
	return &buf, logger.Close
}

func TestRequestContext_ExtractsIDFromFiber(t *testing.T) {
	app := setupTestApp()

	var captured string
	app.Get("/test", func(c *fiber.Ctx) error {
		captured = log.RequestIDFromContext(c.UserContext())
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if captured == "" {
		t.Error("request_id should be extracted from Fiber's requestid middleware")
	}
	if headerID := resp.Header.Get("X-Request-ID"); headerID != captured {
		t.Errorf("response header = %q, context = %q, should match", headerID, captured)
	}
}

func TestRequestContext_UsesProvidedIDAndFeedType(t *testing.T) {
	app := setupTestApp()

	var id string
	var fields map[string]any
	app.Get("/test", func(c *fiber.Ctx) error {
		id = log.RequestIDFromContext(c.UserContext())
		fields = log.FieldsFromContext(c.UserContext())
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/test?feed_type=search", nil)
	req.Header.Set("X-Request-ID", "custom-trace-id-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if id != "custom-trace-id-123" {
		t.Errorf("request_id = %q, want %q", id, "custom-trace-id-123")
	}
	if fields["feed_type"] != "search" {
		t.Errorf("fields = %v", fields)
	}
}

func TestRequestLoggerMiddleware_LevelsByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"ok", 200, `"level":"INFO"`},
		{"client error", 404, `"level":"WARN"`},
		{"server error", 502, `"level":"ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			buf, flush := captureLogs(t)
			app := setupTestApp()
			app.Use(RequestLoggerMiddleware())
			app.Get("/path", func(c *fiber.Ctx) error {
				c.Set("X-Cache", "MISS")
				return c.Status(tt.status).SendString("body")
			})
			req := httptest.NewRequest("GET", "/path", nil)
			req.Header.Set("X-Request-ID", "test-req-123")

			// Act
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			flush()

			// Assert
			output := buf.String()
			for _, want := range []string{"request completed", "test-req-123", `"path":"/path"`, `"cache":"MISS"`, tt.level} {
				if !strings.Contains(output, want) {
					t.Errorf("log should contain %s, got: %s", want, output)
				}
			}
		})
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	// Arrange
	rl := NewRateLimiter(2, time.Minute)
	app := fiber.New()
	app.Get("/feed", rl.Middleware(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	// Act
	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/feed", nil))
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		statuses = append(statuses, resp.StatusCode)
		if i == 0 && resp.Header.Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q", resp.Header.Get("X-RateLimit-Limit"))
		}
		if i == 2 {
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), "Too many requests") {
				t.Errorf("body = %s", body)
			}
		}
		resp.Body.Close()
	}

	// Assert
	if statuses[0] != 200 || statuses[1] != 200 || statuses[2] != fiber.StatusTooManyRequests {
		t.Errorf("statuses = %v", statuses)
	}
}

func TestRateLimiter_DisabledWhenLimitIsZero(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	app := fiber.New()
	app.Get("/feed", rl.Middleware(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/feed", nil))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("request %d status = %d", i, resp.StatusCode)
		}
	}
}
