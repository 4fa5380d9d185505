package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tweetfeed/internal/adapters/cache"
)

// failingStore errors on every call.
type failingStore struct{}

func (failingStore) Read(context.Context, string) (string, bool, error) {
	return "", false, errors.New("store down")
}
func (failingStore) Write(context.Context, string, string, time.Duration) error {
	return errors.New("store down")
}
func (failingStore) Invalidate(context.Context, string) error { return errors.New("store down") }

func TestGateway_Key_UsesNamespaceAndTerm(t *testing.T) {
	g := cache.NewGateway(cache.NewMemoryStore(time.Minute), "tweetfeed")

	if got := g.Key("golang"); got != "tweetfeed_output_golang" {
		t.Errorf("got %q, want tweetfeed_output_golang", got)
	}
}

func TestGateway_PutThenGet_RoundTrips(t *testing.T) {
	// Arrange
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	g := cache.NewGateway(store, "ns")
	html := `<div class="tweets"><p>"quoted" & more</p></div>`
	ctx := context.Background()

	// Act
	g.Put(ctx, "golang", html, 1)
	got, found := g.Get(ctx, "golang")

	// Assert
	if !found {
		t.Fatal("expected cached output to be found")
	}
	if got.HTML != html || got.Format != cache.FormatEncoded {
		t.Errorf("got %+v, want encoded %q", got, html)
	}
}

func TestGateway_Get_LegacyValue_ReturnsRawString(t *testing.T) {
	// Arrange: values written before output was JSON-encoded.
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	legacy := `<div class="tweets"></div>`
	_ = store.Write(context.Background(), "ns_output_golang", legacy, time.Hour)
	g := cache.NewGateway(store, "ns")

	// Act
	got, found := g.Get(context.Background(), "golang")

	// Assert
	if !found || got.HTML != legacy || got.Format != cache.FormatLegacy {
		t.Errorf("got %+v found=%v, want legacy %q", got, found, legacy)
	}
}

func TestGateway_Clear_EmptiesTerm(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	g := cache.NewGateway(store, "ns")
	ctx := context.Background()
	g.Put(ctx, "golang", "<div></div>", 1)

	if err := g.Clear(ctx, "golang"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, found := g.Get(ctx, "golang"); found {
		t.Error("expected term to be cleared")
	}
}

func TestGateway_StoreFailure_DegradesToMiss(t *testing.T) {
	g := cache.NewGateway(failingStore{}, "ns")
	ctx := context.Background()

	g.Put(ctx, "golang", "<div></div>", 1)
	_, found := g.Get(ctx, "golang")

	if found {
		t.Error("a failing store should read as a miss")
	}
}

func TestDecodeOutput(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		html   string
		format cache.PayloadFormat
	}{
		{"encoded", `"<p>hi<\/p>"`, "<p>hi</p>", cache.FormatEncoded},
		{"legacy html", "<p>hi</p>", "<p>hi</p>", cache.FormatLegacy},
		{"json but not a string", `{"a":1}`, `{"a":1}`, cache.FormatLegacy},
		{"empty", "", "", cache.FormatLegacy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cache.DecodeOutput(tt.raw)
			if got.HTML != tt.html || got.Format != tt.format {
				t.Errorf("DecodeOutput(%q) = %+v", tt.raw, got)
			}
		})
	}
}
