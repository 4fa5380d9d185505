package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"tweetfeed/internal/domain"
	"tweetfeed/pkg/log"
)

// DefaultBaseURL is the root of the v1.1 API.
const DefaultBaseURL = "https://api.twitter.com/1.1/"

// Fetcher retrieves one page of a timeline or search feed.
type Fetcher struct {
	client  AuthenticatedClient
	baseURL string
}

// NewFetcher creates a fetcher. An empty baseURL uses DefaultBaseURL.
func NewFetcher(client AuthenticatedClient, baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{client: client, baseURL: baseURL}
}

// BuildRequest returns the endpoint and query for cfg. Unknown feed types
// fall back to the user timeline. exclude_replies only exists on the
// timeline endpoint; count is sent to both.
func BuildRequest(baseURL string, cfg domain.FeedConfig) (string, url.Values, domain.FeedSource) {
	query := url.Values{}
	var endpoint string
	source := domain.SourceTimeline

	switch cfg.FeedType {
	case domain.FeedSearch:
		endpoint = baseURL + "search/tweets.json"
		source = domain.SourceSearch
		query.Set("q", cfg.SearchTerm)
		query.Set("result_type", "recent")
		query.Set("since_id", "1")
	default:
		endpoint = baseURL + "statuses/user_timeline.json"
		query.Set("screen_name", cfg.User)
		if cfg.ExcludeReplies {
			query.Set("exclude_replies", "true")
		}
	}

	query.Set("count", strconv.Itoa(cfg.Count))
	return endpoint, query, source
}

// Fetch issues one request. Only transport failures are returned as
// errors; undecodable bodies come back as a PayloadMalformed payload.
func (f *Fetcher) Fetch(ctx context.Context, cfg domain.FeedConfig) (domain.Payload, error) {
	endpoint, query, source := BuildRequest(f.baseURL, cfg)

	body, err := f.client.Get(ctx, cfg.Credentials, endpoint, query)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	payload := DecodePayload([]byte(body), source)
	if payload.Kind == domain.PayloadMalformed {
		log.GlobalWarnCtx(ctx, "undecodable feed response", "endpoint", endpoint, "bytes", len(body))
	}
	return payload, nil
}

// DecodePayload turns a response body into a Payload. A top-level errors
// array wins over everything else; search responses are unwrapped from
// their statuses field so both sources yield a plain item list.
func DecodePayload(body []byte, source domain.FeedSource) domain.Payload {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Payload{Kind: domain.PayloadMalformed}
	}

	var statuses []domain.Status
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &statuses); err != nil {
			return domain.Payload{Kind: domain.PayloadMalformed}
		}
	case '{':
		var envelope struct {
			Errors   []domain.APIError `json:"errors"`
			Statuses []domain.Status   `json:"statuses"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return domain.Payload{Kind: domain.PayloadMalformed}
		}
		if envelope.Errors != nil {
			return domain.Payload{Kind: domain.PayloadAPIErrors, Errors: envelope.Errors}
		}
		if source != domain.SourceSearch || envelope.Statuses == nil {
			return domain.Payload{Kind: domain.PayloadMalformed}
		}
		statuses = envelope.Statuses
	default:
		return domain.Payload{Kind: domain.PayloadMalformed}
	}

	items := make([]domain.Item, len(statuses))
	for i, s := range statuses {
		items[i] = domain.Item{Source: source, Status: s}
	}
	return domain.Payload{Kind: domain.PayloadItems, Items: items}
}
