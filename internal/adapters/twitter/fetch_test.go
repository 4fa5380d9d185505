package twitter_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"tweetfeed/internal/adapters/twitter"
	"tweetfeed/internal/domain"
	"tweetfeed/test/fixtures"
)

// MockClient records the request and replies with a canned body.
type MockClient struct {
	body     string
	err      error
	endpoint string
	query    url.Values
	creds    domain.Credentials
	calls    int
}

func (m *MockClient) Get(_ context.Context, creds domain.Credentials, endpoint string, query url.Values) (string, error) {
	m.calls++
	m.creds, m.endpoint, m.query = creds, endpoint, query
	return m.body, m.err
}

func TestBuildRequest_UserTimeline(t *testing.T) {
	// Arrange
	cfg := domain.FeedConfig{FeedType: domain.FeedUserTimeline, User: "janedoe", Count: 5, ExcludeReplies: true}

	// Act
	endpoint, query, source := twitter.BuildRequest("https://api.example/1.1/", cfg)

	// Assert
	if endpoint != "https://api.example/1.1/statuses/user_timeline.json" {
		t.Errorf("endpoint = %s", endpoint)
	}
	if source != domain.SourceTimeline {
		t.Errorf("source = %s", source)
	}
	want := "count=5&exclude_replies=true&screen_name=janedoe"
	if query.Encode() != want {
		t.Errorf("query = %s, want %s", query.Encode(), want)
	}
}

func TestBuildRequest_UserTimeline_RepliesIncludedByDefault(t *testing.T) {
	cfg := domain.FeedConfig{FeedType: domain.FeedUserTimeline, User: "janedoe", Count: 10}

	_, query, _ := twitter.BuildRequest(twitter.DefaultBaseURL, cfg)

	if query.Has("exclude_replies") {
		t.Errorf("exclude_replies should be absent: %s", query.Encode())
	}
}

func TestBuildRequest_Search_EncodesTermAndIgnoresExcludeReplies(t *testing.T) {
	// Arrange
	cfg := domain.FeedConfig{FeedType: domain.FeedSearch, SearchTerm: "#go lang", Count: 3, ExcludeReplies: true}

	// Act
	endpoint, query, source := twitter.BuildRequest(twitter.DefaultBaseURL, cfg)

	// Assert
	if endpoint != "https://api.twitter.com/1.1/search/tweets.json" || source != domain.SourceSearch {
		t.Errorf("endpoint = %s, source = %s", endpoint, source)
	}
	want := "count=3&q=%23go+lang&result_type=recent&since_id=1"
	if query.Encode() != want {
		t.Errorf("query = %s, want %s", query.Encode(), want)
	}
}

func TestBuildRequest_UnknownFeedType_FallsBackToTimeline(t *testing.T) {
	cfg := domain.FeedConfig{FeedType: "lists", User: "janedoe", Count: 1}

	endpoint, _, source := twitter.BuildRequest(twitter.DefaultBaseURL, cfg)

	if source != domain.SourceTimeline || endpoint != twitter.DefaultBaseURL+"statuses/user_timeline.json" {
		t.Errorf("endpoint = %s, source = %s", endpoint, source)
	}
}

func TestFetcher_Fetch_SearchUnwrapsStatuses(t *testing.T) {
	// Arrange
	client := &MockClient{body: fixtures.GenerateSearch()}
	f := twitter.NewFetcher(client, "")
	cfg := domain.FeedConfig{FeedType: domain.FeedSearch, SearchTerm: "golang", Count: 2, Credentials: testCreds}

	// Act
	payload, err := f.Fetch(context.Background(), cfg)

	// Assert
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if payload.Kind != domain.PayloadItems || len(payload.Items) != 2 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Items[0].Status.IDStr != "3001" || payload.Items[1].Source != domain.SourceSearch {
		t.Errorf("unexpected items: %+v", payload.Items)
	}
	if client.creds != testCreds {
		t.Error("credentials not passed to client")
	}
}

func TestFetcher_Fetch_TransportError_WrapsErrFetchFailed(t *testing.T) {
	client := &MockClient{err: errors.New("connection refused")}

	_, err := twitter.NewFetcher(client, "").Fetch(context.Background(), domain.FeedConfig{FeedType: domain.FeedUserTimeline})

	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("err = %v, want ErrFetchFailed", err)
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		source    domain.FeedSource
		wantKind  domain.PayloadKind
		wantItems int
	}{
		{"timeline", fixtures.GenerateTimeline(), domain.SourceTimeline, domain.PayloadItems, 1},
		{"empty timeline", fixtures.GenerateEmptyTimeline(), domain.SourceTimeline, domain.PayloadItems, 0},
		{"search", fixtures.GenerateSearch(), domain.SourceSearch, domain.PayloadItems, 2},
		{"empty search", fixtures.GenerateEmptySearch(), domain.SourceSearch, domain.PayloadItems, 0},
		{"api errors on search", fixtures.GenerateRateLimitError(), domain.SourceSearch, domain.PayloadAPIErrors, 0},
		{"api errors on timeline", fixtures.GenerateRateLimitError(), domain.SourceTimeline, domain.PayloadAPIErrors, 0},
		{"statuses wrapper on timeline", fixtures.GenerateSearch(), domain.SourceTimeline, domain.PayloadMalformed, 0},
		{"not json", fixtures.GenerateMalformed(), domain.SourceTimeline, domain.PayloadMalformed, 0},
		{"truncated json", `[{"id_str": "1"`, domain.SourceTimeline, domain.PayloadMalformed, 0},
		{"empty body", "  ", domain.SourceTimeline, domain.PayloadMalformed, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := twitter.DecodePayload([]byte(tt.body), tt.source)
			if got.Kind != tt.wantKind || len(got.Items) != tt.wantItems {
				t.Errorf("got kind=%v items=%d, want kind=%v items=%d", got.Kind, len(got.Items), tt.wantKind, tt.wantItems)
			}
		})
	}
}

func TestDecodePayload_APIErrors_KeepsMessageAndCode(t *testing.T) {
	got := twitter.DecodePayload([]byte(fixtures.GenerateRateLimitError()), domain.SourceTimeline)

	if len(got.Errors) != 1 || got.Errors[0].Message != "Rate limit exceeded" || got.Errors[0].Code != 88 {
		t.Errorf("errors = %+v", got.Errors)
	}
}
