package usecases

import (
	"context"

	"tweetfeed/internal/domain"
	"tweetfeed/pkg/log"
)

// FeedCache stores rendered feeds keyed by feed term.
type FeedCache interface {
	Lookup(ctx context.Context, term string) (string, bool)
	Put(ctx context.Context, term, html string, ttlHours int)
	Clear(ctx context.Context, term string) error
}

// FeedFetcher retrieves the raw payload of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, cfg domain.FeedConfig) (domain.Payload, error)
}

// TweetNormalizer converts one raw item into a display-ready tweet.
type TweetNormalizer interface {
	Normalize(item domain.Item, cfg domain.FeedConfig) domain.Tweet
}

// FeedRenderer produces the feed HTML.
type FeedRenderer interface {
	RenderFeed(ctx context.Context, cfg domain.FeedConfig, payload domain.Payload, tweets []domain.Tweet) (string, error)
}

// Result is the outcome of one render.
type Result struct {
	HTML      string
	FromCache bool
	Config    domain.FeedConfig
	// Term is empty and HasTerm false when the feed type yields no term;
	// such feeds bypass the cache.
	Term    string
	HasTerm bool
}

// RenderFeedUseCase runs the feed pipeline with a cache-first strategy.
type RenderFeedUseCase struct {
	resolver   *ConfigResolver
	cache      FeedCache
	fetcher    FeedFetcher
	normalizer TweetNormalizer
	renderer   FeedRenderer
}

// NewRenderFeedUseCase creates a new RenderFeedUseCase.
func NewRenderFeedUseCase(resolver *ConfigResolver, cache FeedCache, fetcher FeedFetcher, normalizer TweetNormalizer, renderer FeedRenderer) *RenderFeedUseCase {
	return &RenderFeedUseCase{
		resolver:   resolver,
		cache:      cache,
		fetcher:    fetcher,
		normalizer: normalizer,
		renderer:   renderer,
	}
}

// Execute renders the feed described by options.
func (uc *RenderFeedUseCase) Execute(ctx context.Context, options map[string]string, embedded bool) (Result, error) {
	cfg := uc.resolver.Resolve(options, embedded)
	term, hasTerm := cfg.FeedTerm()
	res := Result{Config: cfg, Term: term, HasTerm: hasTerm}

	if hasTerm {
		if cfg.ClearCache || cfg.CacheHours == 0 {
			if err := uc.cache.Clear(ctx, term); err != nil {
				log.GlobalWarnCtx(ctx, "cache clear failed", "term", term, "error", err)
			}
		}
		if html, found := uc.cache.Lookup(ctx, term); found {
			log.GlobalDebugCtx(ctx, "cache hit", "term", term)
			res.HTML, res.FromCache = html, true
			return res, nil
		}
		log.GlobalDebugCtx(ctx, "cache miss, fetching", "term", term, "feed_type", cfg.FeedType)
	}

	return uc.fetchAndRender(ctx, res)
}

// Refresh re-renders the feed described by options without consulting the
// cache. The cached output is replaced only when the render succeeds with
// an item list, so a failed refresh leaves the previous entry in place.
func (uc *RenderFeedUseCase) Refresh(ctx context.Context, options map[string]string) (Result, error) {
	cfg := uc.resolver.Resolve(options, false)
	term, hasTerm := cfg.FeedTerm()
	res := Result{Config: cfg, Term: term, HasTerm: hasTerm}
	if !hasTerm {
		return res, domain.ErrNoFeedTerm
	}
	return uc.fetchAndRender(ctx, res)
}

// fetchAndRender fetches, normalizes and renders res.Config, then caches
// the output of item payloads.
func (uc *RenderFeedUseCase) fetchAndRender(ctx context.Context, res Result) (Result, error) {
	cfg, term := res.Config, res.Term
	if !cfg.Credentials.Complete() {
		return res, domain.ErrMissingCredentials
	}

	payload, err := uc.fetcher.Fetch(ctx, cfg)
	if err != nil {
		return res, err
	}

	var tweets []domain.Tweet
	if payload.Kind == domain.PayloadItems {
		tweets = make([]domain.Tweet, 0, len(payload.Items))
		for _, item := range payload.Items {
			tweets = append(tweets, uc.normalizer.Normalize(item, cfg))
		}
	}
	switch {
	case payload.Kind == domain.PayloadAPIErrors:
		log.GlobalWarnCtx(ctx, "api returned errors", "term", term, "count", len(payload.Errors))
	case payload.Empty():
		log.GlobalDebugCtx(ctx, "feed has no tweets", "term", term)
	}

	html, err := uc.renderer.RenderFeed(ctx, cfg, payload, tweets)
	if err != nil {
		return res, err
	}
	res.HTML = html

	// Error and malformed payloads are never cached so the next render retries.
	if res.HasTerm && payload.Kind == domain.PayloadItems {
		uc.cache.Put(ctx, term, html, cfg.CacheHours)
	}
	return res, nil
}

// ClearCache drops the cached output of the feed described by options.
func (uc *RenderFeedUseCase) ClearCache(ctx context.Context, options map[string]string) (string, error) {
	cfg := uc.resolver.Resolve(options, false)
	term, ok := cfg.FeedTerm()
	if !ok {
		return "", domain.ErrNoFeedTerm
	}
	if err := uc.cache.Clear(ctx, term); err != nil {
		return term, err
	}
	log.GlobalInfoCtx(ctx, "cache cleared", "term", term)
	return term, nil
}
