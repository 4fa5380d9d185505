package web

import (
	"context"
	"errors"
	"time"

	"tweetfeed/internal/domain"
	"tweetfeed/internal/usecases"
	"tweetfeed/pkg/log"
	"tweetfeed/templates/components"
	"tweetfeed/templates/pages"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RequestTimeout bounds a single render, including the remote fetch.
const RequestTimeout = 30 * time.Second

// Credentials come from stored options only, never from a request.
var credentialOptions = []string{
	domain.OptOAuthAccessToken,
	domain.OptOAuthAccessTokenSecret,
	domain.OptConsumerKey,
	domain.OptConsumerSecret,
}

// Handlers contains the HTTP handlers for the web application.
type Handlers struct {
	renderFeed *usecases.RenderFeedUseCase
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(renderFeed *usecases.RenderFeedUseCase) *Handlers {
	return &Handlers{
		renderFeed: renderFeed,
	}
}

// renderComponent writes a templ component with the given status.
func renderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	c.Set("Content-Type", "text/html")
	return adaptor.HTTPHandler(templ.Handler(component, templ.WithStatus(status)))(c)
}

// requestOptions collects feed options from the query string. Credentials
// are dropped and the user handle is normalized.
func requestOptions(c *fiber.Ctx) (map[string]string, error) {
	opts := c.Queries()
	for _, k := range credentialOptions {
		delete(opts, k)
	}
	if raw, ok := opts[domain.OptUser]; ok && raw != "" {
		handle, err := NormalizeHandle(raw)
		if err != nil {
			return nil, err
		}
		opts[domain.OptUser] = handle
	}
	return opts, nil
}

// Page renders the feed as a standalone page.
func (h *Handlers) Page(c *fiber.Ctx) error {
	return h.serveFeed(c, false)
}

// Fragment renders the feed as an embeddable fragment.
func (h *Handlers) Fragment(c *fiber.Ctx) error {
	return h.serveFeed(c, true)
}

func (h *Handlers) serveFeed(c *fiber.Ctx, embedded bool) error {
	opts, err := requestOptions(c)
	if err != nil {
		log.GlobalWarnCtx(c.UserContext(), "invalid feed request", "error", err)
		return h.renderError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), RequestTimeout)
	defer cancel()

	res, err := h.renderFeed.Execute(ctx, opts, embedded)
	if err != nil {
		log.GlobalErrorCtx(ctx, "render feed failed", "term", res.Term, "feed_type", res.Config.FeedType, "error", err)
		return h.renderError(c, err)
	}

	if res.FromCache {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}

	if embedded {
		return renderComponent(c, fiber.StatusOK, templ.Raw(res.HTML))
	}
	return renderComponent(c, fiber.StatusOK, pages.Page(pageTitle(res), templ.Raw(res.HTML), res.Config.DefaultStyling))
}

// ClearCache drops the cached output for the feed described by the query.
func (h *Handlers) ClearCache(c *fiber.Ctx) error {
	opts, err := requestOptions(c)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": friendlyError(err)})
	}

	term, err := h.renderFeed.ClearCache(c.UserContext(), opts)
	if err != nil {
		log.GlobalErrorCtx(c.UserContext(), "cache clear failed", "term", term, "error", err)
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": friendlyError(err)})
	}
	return c.JSON(fiber.Map{"cleared": term})
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func pageTitle(res usecases.Result) string {
	switch res.Config.FeedType {
	case domain.FeedSearch:
		return "Tweets matching " + res.Term
	case domain.FeedUserTimeline:
		return "Tweets from @" + res.Term
	default:
		return "Tweets"
	}
}

// renderError renders the error message fragment with a status matching err.
func (h *Handlers) renderError(c *fiber.Ctx, err error) error {
	return renderComponent(c, statusFor(err), components.ErrorMessage(friendlyError(err)))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFetchFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrMissingCredentials):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidHandle), errors.Is(err, domain.ErrNoFeedTerm):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// friendlyError returns a neutral, non-blaming error message.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrFetchFailed):
		return "Twitter couldn't be reached right now. Please try again in a moment."
	case errors.Is(err, domain.ErrMissingCredentials):
		return "This feed isn't configured yet. API credentials are missing."
	case errors.Is(err, domain.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, domain.ErrInvalidHandle):
		return "That doesn't look like a Twitter handle. Try @name or a profile link."
	case errors.Is(err, domain.ErrNoFeedTerm):
		return "This feed type has no cache to clear."
	default:
		return "Unable to load tweets right now. Please try again in a moment."
	}
}
