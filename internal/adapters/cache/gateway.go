// Package cache stores rendered feed output keyed by feed term.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"tweetfeed/pkg/log"
)

// Store is a key/value surface with per-key expiry. A ttl <= 0 means the
// value does not expire.
type Store interface {
	Read(ctx context.Context, key string) (string, bool, error)
	Write(ctx context.Context, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// PayloadFormat tells how a stored value was written.
type PayloadFormat int

const (
	// FormatEncoded values are JSON string literals.
	FormatEncoded PayloadFormat = iota
	// FormatLegacy values are raw HTML written before output was encoded.
	FormatLegacy
)

// CachedOutput is a previously rendered feed.
type CachedOutput struct {
	HTML   string
	Format PayloadFormat
}

// EncodeOutput returns the stored form of html.
func EncodeOutput(html string) string {
	data, _ := json.Marshal(html)
	return string(data)
}

// DecodeOutput reads a stored value. Anything that is not a JSON string
// literal is a legacy value and is returned unchanged.
func DecodeOutput(raw string) CachedOutput {
	var html string
	if json.Valid([]byte(raw)) && json.Unmarshal([]byte(raw), &html) == nil {
		return CachedOutput{HTML: html, Format: FormatEncoded}
	}
	return CachedOutput{HTML: raw, Format: FormatLegacy}
}

// Gateway maps feed terms onto store keys of the form
// <namespace>_output_<term>. Store failures are logged and treated as a
// miss so that a broken cache never breaks a render.
type Gateway struct {
	store     Store
	namespace string
}

// NewGateway creates a gateway over store.
func NewGateway(store Store, namespace string) *Gateway {
	return &Gateway{store: store, namespace: namespace}
}

// Key returns the store key for term.
func (g *Gateway) Key(term string) string {
	return g.namespace + "_output_" + term
}

// Get returns the cached output for term.
func (g *Gateway) Get(ctx context.Context, term string) (CachedOutput, bool) {
	key := g.Key(term)
	raw, ok, err := g.store.Read(ctx, key)
	if err != nil {
		log.GlobalWarnCtx(ctx, "cache read failed", "key", key, "error", err)
		return CachedOutput{}, false
	}
	if !ok {
		return CachedOutput{}, false
	}

	out := DecodeOutput(raw)
	if out.Format == FormatLegacy {
		log.GlobalDebugCtx(ctx, "legacy cache value", "key", key)
	}
	return out, true
}

// Put stores html for term for ttlHours hours.
func (g *Gateway) Put(ctx context.Context, term, html string, ttlHours int) {
	key := g.Key(term)
	ttl := time.Duration(ttlHours) * time.Hour
	if err := g.store.Write(ctx, key, EncodeOutput(html), ttl); err != nil {
		log.GlobalWarnCtx(ctx, "cache write failed", "key", key, "error", err)
	}
}

// Clear removes the cached output for term.
func (g *Gateway) Clear(ctx context.Context, term string) error {
	return g.store.Invalidate(ctx, g.Key(term))
}

// Lookup returns the cached HTML for term, whichever format it was stored in.
func (g *Gateway) Lookup(ctx context.Context, term string) (string, bool) {
	out, ok := g.Get(ctx, term)
	return out.HTML, ok
}
