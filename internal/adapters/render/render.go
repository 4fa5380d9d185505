// Package render turns normalized tweets into HTML.
package render

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"tweetfeed/internal/domain"
	"tweetfeed/templates/components"
)

// String renders c into a string.
func String(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Renderer adapts the feed components to the use case's port.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// RenderFeed renders the feed container for payload and its normalized tweets.
func (r *Renderer) RenderFeed(ctx context.Context, cfg domain.FeedConfig, payload domain.Payload, tweets []domain.Tweet) (string, error) {
	return String(ctx, components.Feed(cfg, payload, tweets))
}
