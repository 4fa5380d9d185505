package domain

// FeedType selects the API endpoint a feed is built from.
type FeedType string

const (
	FeedUserTimeline FeedType = "user_timeline"
	FeedSearch       FeedType = "search"
)

// Recognized option names. Anything else passed by a caller is ignored.
const (
	OptFeedType               = "feed_type"
	OptUser                   = "user"
	OptSearchTerm             = "search_term"
	OptCount                  = "count"
	OptCacheHours             = "cache_hours"
	OptClearCache             = "clear_cache"
	OptExcludeReplies         = "exclude_replies"
	OptDefaultStyling         = "default_styling"
	OptOAuthAccessToken       = "oauth_access_token"
	OptOAuthAccessTokenSecret = "oauth_access_token_secret"
	OptConsumerKey            = "consumer_key"
	OptConsumerSecret         = "consumer_secret"
)

// Credentials are the four OAuth1 values used to sign API requests.
type Credentials struct {
	AccessToken       string
	AccessTokenSecret string
	ConsumerKey       string
	ConsumerSecret    string
}

// Complete reports whether every credential is set.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.AccessTokenSecret != "" &&
		c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// FeedConfig is the effective configuration of one render.
// It is built once per request and never mutated afterwards.
type FeedConfig struct {
	FeedType       FeedType
	User           string
	SearchTerm     string
	Count          int
	CacheHours     int
	ClearCache     bool
	ExcludeReplies bool
	DefaultStyling bool
	Credentials    Credentials

	// Embedded is true when the feed is requested as a fragment to be
	// placed inside another page rather than served on its own.
	Embedded bool
}

// FeedTerm returns the handle or query the feed is built from.
// The second value is false for unrecognized feed types.
func (c FeedConfig) FeedTerm() (string, bool) {
	switch c.FeedType {
	case FeedUserTimeline:
		return c.User, true
	case FeedSearch:
		return c.SearchTerm, true
	default:
		return "", false
	}
}

// ExactDates reports whether tweet dates are rendered as exact timestamps.
func (c FeedConfig) ExactDates() bool {
	return c.CacheHours <= 2
}
