// Package twitter talks to the v1.1 REST API and turns its statuses into
// domain tweets.
package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/garyburd/go-oauth/oauth"

	"tweetfeed/internal/domain"
)

// AuthenticatedClient performs signed GET requests.
type AuthenticatedClient interface {
	Get(ctx context.Context, creds domain.Credentials, endpoint string, query url.Values) (string, error)
}

// OAuthClient signs requests with OAuth1 (HMAC-SHA1) and sends them over
// a plain HTTP client.
type OAuthClient struct {
	http *http.Client
}

// NewOAuthClient creates a client. A nil httpClient uses one with a 30s timeout.
func NewOAuthClient(httpClient *http.Client) *OAuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuthClient{http: httpClient}
}

// Get signs and sends a GET request and returns the body whatever the
// status code; API errors arrive as a JSON errors payload.
func (c *OAuthClient) Get(ctx context.Context, creds domain.Credentials, endpoint string, query url.Values) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %s: %w", endpoint, err)
	}

	consumer := oauth.Client{
		Credentials: oauth.Credentials{Token: creds.ConsumerKey, Secret: creds.ConsumerSecret},
	}
	token := &oauth.Credentials{Token: creds.AccessToken, Secret: creds.AccessTokenSecret}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if err := consumer.SetAuthorizationHeader(req.Header, token, http.MethodGet, u, query); err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
