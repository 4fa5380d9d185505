// Package linkify rewrites entity markers in tweet text into anchors.
//
// Each pass is a pure text-to-text function over one entity list. Passes
// run in the fixed order of Default: hashtags, mentions, URLs, media.
// Hashtags go first because the later passes emit anchors whose markup can
// contain the literal text an earlier substring pass would match again.
//
// Passes are not idempotent: running one twice over the same text wraps
// the visible marker of an existing anchor a second time.
package linkify

import (
	"regexp"
	"strings"

	"github.com/a-h/templ"

	"tweetfeed/internal/domain"
)

// Twitter web URLs the anchors point to.
const (
	ProfileBase = "https://twitter.com/"
	SearchBase  = "https://twitter.com/search?q="
	IntentBase  = "https://twitter.com/intent/"
)

// Pass rewrites the entities of one kind found in tweet.
type Pass func(text string, tweet *domain.Tweet) string

// Pipeline is an ordered list of passes.
type Pipeline []Pass

// Default is the order every tweet body is linkified in.
var Default = Pipeline{
	func(text string, t *domain.Tweet) string { return Hashtags(text, t.Hashtags) },
	func(text string, t *domain.Tweet) string { return Mentions(text, t.Mentions) },
	func(text string, t *domain.Tweet) string { return URLs(text, t.URLs) },
	func(text string, t *domain.Tweet) string { return Media(text, t.Media) },
}

// Apply runs every pass over text in order.
func (p Pipeline) Apply(text string, tweet *domain.Tweet) string {
	for _, pass := range p {
		text = pass(text, tweet)
	}
	return text
}

// Hashtags replaces every literal "#text" with a search link. The match is
// a plain substring, so "#go" also matches inside "#golang". Entity fields
// are not escaped by the API, so they are escaped before going into
// attributes.
func Hashtags(text string, hashtags []domain.Hashtag) string {
	for _, h := range hashtags {
		if h.Text == "" {
			continue
		}
		attr := templ.EscapeString(h.Text)
		anchor := `<a href="` + SearchBase + `%23` + attr + `" target="_blank" title="Search Twitter for '` +
			attr + `'">#` + h.Text + `</a>`
		text = strings.ReplaceAll(text, "#"+h.Text, anchor)
	}
	return text
}

// Mentions replaces every "@screen_name" with a profile link titled with
// the account's display name.
func Mentions(text string, mentions []domain.Mention) string {
	for _, m := range mentions {
		if m.ScreenName == "" {
			continue
		}
		re := regexp.MustCompile(regexp.QuoteMeta("@" + m.ScreenName))
		anchor := `<a href="` + ProfileBase + m.ScreenName + `" target="_blank" title="` + templ.EscapeString(m.Name) + `">@` +
			m.ScreenName + `</a>`
		text = re.ReplaceAllLiteralString(text, anchor)
	}
	return text
}

// URLs replaces every short URL with a link showing its display form.
func URLs(text string, urls []domain.URLEntity) string {
	for _, u := range urls {
		text = replaceShortURL(text, u.ShortURL, u.DisplayURL)
	}
	return text
}

// Media replaces every media short URL with a link showing its display form.
func Media(text string, media []domain.MediaEntity) string {
	for _, m := range media {
		text = replaceShortURL(text, m.ShortURL, m.DisplayURL)
	}
	return text
}

func replaceShortURL(text, short, display string) string {
	if short == "" {
		return text
	}
	return strings.ReplaceAll(text, short, `<a href="`+short+`" target="_blank">`+display+`</a>`)
}
