package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"

	"tweetfeed/internal/adapters/cache"
	"tweetfeed/internal/adapters/render"
	"tweetfeed/internal/adapters/settings"
	"tweetfeed/internal/adapters/twitter"
	"tweetfeed/internal/adapters/web"
	"tweetfeed/internal/domain"
	"tweetfeed/internal/usecases"
	"tweetfeed/test/fixtures"
)

// MockClient is a mock implementation of twitter.AuthenticatedClient.
type MockClient struct {
	body  string
	err   error
	creds domain.Credentials
	query url.Values
	calls int
}

func (m *MockClient) Get(_ context.Context, creds domain.Credentials, _ string, query url.Values) (string, error) {
	m.calls++
	m.creds, m.query = creds, query
	return m.body, m.err
}

func storedOptions(extra map[string]string) settings.Static {
	opts := map[string]string{
		"oauth_access_token":        "token",
		"oauth_access_token_secret": "secret",
		"consumer_key":              "key",
		"consumer_secret":           "consumer-secret",
	}
	for k, v := range extra {
		opts[k] = v
	}
	return settings.Static{"tweetfeed": opts}
}

// setupApp wires the real pipeline around a mock client and a memory store.
func setupApp(t *testing.T, client *MockClient, stored settings.Static) (*fiber.App, *cache.Gateway) {
	t.Helper()
	return setupLimitedApp(t, client, stored, 0)
}

// setupLimitedApp is setupApp with perMinute requests allowed per client.
func setupLimitedApp(t *testing.T, client *MockClient, stored settings.Static, perMinute int64) (*fiber.App, *cache.Gateway) {
	t.Helper()
	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { store.Close() })
	gateway := cache.NewGateway(store, "tweetfeed")

	uc := usecases.NewRenderFeedUseCase(
		usecases.NewConfigResolver(stored, "tweetfeed"),
		gateway,
		twitter.NewFetcher(client, ""),
		twitter.NewNormalizer(),
		render.NewRenderer(),
	)
	app := web.NewApp()
	web.SetupRoutes(app, web.NewHandlers(uc), web.NewRateLimiter(perMinute, time.Minute), "")
	return app, gateway
}

func do(t *testing.T, app *fiber.App, method, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestFeedPage_RendersFullDocument(t *testing.T) {
	// Arrange
	client := &MockClient{body: fixtures.GenerateTimeline()}
	app, _ := setupApp(t, client, storedOptions(map[string]string{"default_styling": "yes"}))

	// Act
	resp, body := do(t, app, "GET", "/feed?user=@janedoe")

	// Assert
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("title").Text() != "Tweets from @janedoe" {
		t.Errorf("title = %q", doc.Find("title").Text())
	}
	if doc.Find(`link[rel="stylesheet"]`).Length() != 1 {
		t.Error("default styling should link the stylesheet")
	}
	if doc.Find("body div.tweets div.tweet").Length() != 1 {
		t.Errorf("tweets = %d", doc.Find("div.tweet").Length())
	}
	if client.query.Get("screen_name") != "janedoe" {
		t.Errorf("handle not normalized: %v", client.query)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", resp.Header.Get("X-Cache"))
	}
}

func TestFragment_ServedFromCacheOnSecondRequest(t *testing.T) {
	// Arrange
	client := &MockClient{body: fixtures.GenerateSearch()}
	app, _ := setupApp(t, client, storedOptions(nil))
	target := "/api/feed?feed_type=search&search_term=golang"

	// Act
	_, first := do(t, app, "GET", target)
	resp, second := do(t, app, "GET", target)

	// Assert
	if strings.Contains(first, "<html") {
		t.Error("fragment should not be wrapped in a page")
	}
	if !strings.HasPrefix(first, `<div class="tweets">`) || first != second {
		t.Errorf("first = %s\nsecond = %s", first, second)
	}
	if resp.Header.Get("X-Cache") != "HIT" || client.calls != 1 {
		t.Errorf("X-Cache = %q, calls = %d", resp.Header.Get("X-Cache"), client.calls)
	}
}

func TestFragment_CredentialsInQueryAreIgnored(t *testing.T) {
	client := &MockClient{body: fixtures.GenerateTimeline()}
	app, _ := setupApp(t, client, storedOptions(nil))

	do(t, app, "GET", "/api/feed?user=janedoe&consumer_key=evil")

	if client.creds.ConsumerKey != "key" {
		t.Errorf("ConsumerKey = %q, want stored value", client.creds.ConsumerKey)
	}
}

func TestFragment_TransportFailure_Returns502(t *testing.T) {
	// Arrange
	client := &MockClient{err: errors.New("dial tcp: connection refused")}
	app, _ := setupApp(t, client, storedOptions(nil))

	// Act
	resp, body := do(t, app, "GET", "/api/feed?user=janedoe")

	// Assert
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "couldn&#39;t be reached") && !strings.Contains(body, "couldn't be reached") {
		t.Errorf("body = %s", body)
	}
	if strings.Contains(body, "connection refused") {
		t.Error("internal error leaked to the client")
	}
}

func TestFragment_MissingCredentials_Returns503(t *testing.T) {
	app, _ := setupApp(t, &MockClient{}, settings.Static{})

	resp, _ := do(t, app, "GET", "/api/feed?user=janedoe")

	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestFragment_InvalidHandle_Returns400(t *testing.T) {
	client := &MockClient{}
	app, _ := setupApp(t, client, storedOptions(nil))

	resp, _ := do(t, app, "GET", "/api/feed?user=not+a+handle")

	if resp.StatusCode != fiber.StatusBadRequest || client.calls != 0 {
		t.Errorf("status = %d, calls = %d", resp.StatusCode, client.calls)
	}
}

func TestFragment_APIErrorsRenderedWith200(t *testing.T) {
	client := &MockClient{body: fixtures.GenerateRateLimitError()}
	app, _ := setupApp(t, client, storedOptions(nil))

	resp, body := do(t, app, "GET", "/api/feed?user=janedoe")

	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Rate limit exceeded") || !strings.Contains(body, "88") {
		t.Errorf("body = %s", body)
	}
}

func TestClearCache_DropsEntry(t *testing.T) {
	// Arrange
	client := &MockClient{body: fixtures.GenerateTimeline()}
	app, gateway := setupApp(t, client, storedOptions(nil))
	do(t, app, "GET", "/api/feed?user=janedoe")
	if _, found := gateway.Get(context.Background(), "janedoe"); !found {
		t.Fatal("render should have populated the cache")
	}

	// Act
	resp, body := do(t, app, "POST", "/api/feed/cache/clear?user=janedoe")

	// Assert
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(body), &got); err != nil || got["cleared"] != "janedoe" {
		t.Errorf("body = %s", body)
	}
	if _, found := gateway.Get(context.Background(), "janedoe"); found {
		t.Error("entry still cached")
	}
}

func TestClearCache_UnknownFeedType_Returns400(t *testing.T) {
	app, _ := setupApp(t, &MockClient{}, storedOptions(nil))

	resp, _ := do(t, app, "POST", "/api/feed/cache/clear?feed_type=lists")

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestClearCache_IsRateLimited(t *testing.T) {
	// Arrange
	client := &MockClient{body: fixtures.GenerateTimeline()}
	app, _ := setupLimitedApp(t, client, storedOptions(nil), 1)

	// Act
	first, _ := do(t, app, "POST", "/api/feed/cache/clear?user=janedoe")
	second, body := do(t, app, "POST", "/api/feed/cache/clear?user=janedoe")

	// Assert
	if first.StatusCode != 200 {
		t.Errorf("first status = %d", first.StatusCode)
	}
	if second.StatusCode != fiber.StatusTooManyRequests || !strings.Contains(body, "Too many requests") {
		t.Errorf("second status = %d, body = %s", second.StatusCode, body)
	}
}

func TestHealthz(t *testing.T) {
	app, _ := setupApp(t, &MockClient{}, storedOptions(nil))

	resp, body := do(t, app, "GET", "/healthz")

	if resp.StatusCode != 200 || !strings.Contains(body, `"ok"`) {
		t.Errorf("status = %d, body = %s", resp.StatusCode, body)
	}
}
