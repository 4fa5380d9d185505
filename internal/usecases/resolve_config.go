package usecases

import (
	"strconv"
	"strings"

	"tweetfeed/internal/domain"
)

// DefaultsProvider supplies stored option values.
type DefaultsProvider interface {
	Lookup(namespace, field string) (string, bool)
}

// builtinDefaults apply when neither the caller nor the stored options set a value.
var builtinDefaults = map[string]string{
	domain.OptFeedType:               string(domain.FeedUserTimeline),
	domain.OptUser:                   "",
	domain.OptSearchTerm:             "",
	domain.OptCount:                  "10",
	domain.OptCacheHours:             "1",
	domain.OptClearCache:             "no",
	domain.OptExcludeReplies:         "no",
	domain.OptDefaultStyling:         "no",
	domain.OptOAuthAccessToken:       "",
	domain.OptOAuthAccessTokenSecret: "",
	domain.OptConsumerKey:            "",
	domain.OptConsumerSecret:         "",
}

// storedField maps an option to the field it is stored under. Two options
// use a different name in storage.
func storedField(option string) string {
	switch option {
	case domain.OptUser:
		return "twitter_username"
	case domain.OptCount:
		return "result_count"
	default:
		return option
	}
}

// ConfigResolver merges caller options, stored options and built-in
// defaults, in that order of precedence.
type ConfigResolver struct {
	defaults  DefaultsProvider
	namespace string
}

// NewConfigResolver creates a resolver reading stored options under
// namespace. defaults may be nil.
func NewConfigResolver(defaults DefaultsProvider, namespace string) *ConfigResolver {
	return &ConfigResolver{defaults: defaults, namespace: namespace}
}

// sources returns the candidate values for option, highest precedence first.
func (r *ConfigResolver) sources(options map[string]string, option string) []string {
	var out []string
	if v, ok := options[option]; ok {
		out = append(out, v)
	}
	if r.defaults != nil {
		if v, ok := r.defaults.Lookup(r.namespace, storedField(option)); ok {
			out = append(out, v)
		}
	}
	return append(out, builtinDefaults[option])
}

func (r *ConfigResolver) str(options map[string]string, option string) string {
	return r.sources(options, option)[0]
}

// number returns the first candidate that parses as a non-negative integer.
func (r *ConfigResolver) number(options map[string]string, option string) int {
	for _, v := range r.sources(options, option) {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return n
		}
	}
	return 0
}

func (r *ConfigResolver) flag(options map[string]string, option string) bool {
	switch strings.ToLower(strings.TrimSpace(r.str(options, option))) {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

// Resolve builds the effective configuration. Unrecognized keys in options
// are ignored. It never fails: bad input degrades to defaults.
func (r *ConfigResolver) Resolve(options map[string]string, embedded bool) domain.FeedConfig {
	return domain.FeedConfig{
		FeedType:       domain.FeedType(strings.TrimSpace(r.str(options, domain.OptFeedType))),
		User:           r.str(options, domain.OptUser),
		SearchTerm:     r.str(options, domain.OptSearchTerm),
		Count:          r.number(options, domain.OptCount),
		CacheHours:     r.number(options, domain.OptCacheHours),
		ClearCache:     r.flag(options, domain.OptClearCache),
		ExcludeReplies: r.flag(options, domain.OptExcludeReplies),
		DefaultStyling: r.flag(options, domain.OptDefaultStyling),
		Credentials: domain.Credentials{
			AccessToken:       r.str(options, domain.OptOAuthAccessToken),
			AccessTokenSecret: r.str(options, domain.OptOAuthAccessTokenSecret),
			ConsumerKey:       r.str(options, domain.OptConsumerKey),
			ConsumerSecret:    r.str(options, domain.OptConsumerSecret),
		},
		Embedded: embedded,
	}
}
