package twitter

import (
	"time"

	"github.com/dustin/go-humanize"

	"tweetfeed/internal/domain"
	"tweetfeed/internal/linkify"
)

// createdAtLayout is the API's created_at format.
const createdAtLayout = time.RubyDate

// exactDateLayout is used when the feed is cached for at most two hours.
const exactDateLayout = "3:04 PM · Jan 2, 2006"

// Normalizer flattens API statuses into domain tweets.
type Normalizer struct {
	now      func() time.Time
	pipeline linkify.Pipeline
}

// NewNormalizer creates a normalizer using the default linkify order.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now, pipeline: linkify.Default}
}

// WithClock returns a copy of n that formats relative dates against now.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	c := *n
	c.now = now
	return &c
}

// Normalize converts item. Missing optional fields yield zero values.
//
// For a reshare the author is the original poster and the outer user is
// kept as Resharer; id, text, date and entities always come from the
// outer status.
func (n *Normalizer) Normalize(item domain.Item, cfg domain.FeedConfig) domain.Tweet {
	var tweet domain.Tweet

	switch v := item.Variant().(type) {
	case domain.OriginalPost:
		tweet.Author = authorOf(v.Status.User)
		tweet.AuthorLink = lastProfileLink(v.Status.User)
	case domain.Reshare:
		tweet.IsReshare = true
		tweet.Resharer = &domain.Resharer{
			DisplayName: v.Outer.User.Name,
			ScreenName:  v.Outer.User.ScreenName,
			Description: v.Outer.User.Description,
		}
		tweet.Author = authorOf(v.Original.User)
		tweet.AuthorLink = lastProfileLink(v.Original.User)
	}

	s := item.Status
	tweet.ID = s.IDStr
	tweet.Text = s.Text
	tweet.RepliedTo = s.InReplyToScreenName
	tweet.Date = n.formatDate(s.CreatedAt, cfg.ExactDates())

	for _, h := range s.Entities.Hashtags {
		tweet.Hashtags = append(tweet.Hashtags, domain.Hashtag{Text: h.Text, Indices: h.Indices})
	}
	for _, m := range s.Entities.UserMentions {
		tweet.Mentions = append(tweet.Mentions, domain.Mention{ScreenName: m.ScreenName, Name: m.Name, ID: m.IDStr})
	}
	for _, u := range s.Entities.URLs {
		tweet.URLs = append(tweet.URLs, domain.URLEntity{ShortURL: u.URL, ExpandedURL: u.ExpandedURL, DisplayURL: u.DisplayURL})
	}
	if s.Entities.Media != nil {
		tweet.Media = make([]domain.MediaEntity, 0, len(s.Entities.Media))
		for _, m := range s.Entities.Media {
			tweet.Media = append(tweet.Media, domain.MediaEntity{
				ID:          m.IDStr,
				Type:        m.Type,
				ShortURL:    m.URL,
				MediaURL:    m.MediaURL,
				DisplayURL:  m.DisplayURL,
				ExpandedURL: m.ExpandedURL,
			})
		}
	}

	if tweet.IsReshare {
		tweet.Text = StripResharePrefix(tweet.Text, tweet.Author.ScreenName)
	}
	tweet.Text = n.pipeline.Apply(tweet.Text, &tweet)

	return tweet
}

// StripResharePrefix shaves the leading "RT @handle: " off text. The cut
// is by byte length and does not check that the prefix is actually there.
// Text that ends at or before the cut yields an empty body.
func StripResharePrefix(text, handle string) string {
	cut := len("@"+handle) + 5
	if cut > len(text) {
		return ""
	}
	return text[cut:]
}

func authorOf(u domain.StatusUser) domain.Author {
	return domain.Author{
		ID:          u.IDStr,
		DisplayName: u.Name,
		ScreenName:  u.ScreenName,
		Description: u.Description,
		AvatarURL:   u.ProfileImageURL,
	}
}

// lastProfileLink returns the last entry of the user's profile link list.
// Earlier entries are dropped; profiles in practice carry a single link.
func lastProfileLink(u domain.StatusUser) *domain.ProfileLink {
	if u.Entities.URL == nil || len(u.Entities.URL.URLs) == 0 {
		return nil
	}
	urls := u.Entities.URL.URLs
	raw := urls[len(urls)-1]
	return &domain.ProfileLink{ShortURL: raw.URL, FullURL: raw.ExpandedURL, DisplayURL: raw.DisplayURL}
}

func (n *Normalizer) formatDate(createdAt string, exact bool) string {
	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return createdAt
	}
	if exact {
		return t.Format(exactDateLayout)
	}
	return humanize.RelTime(t, n.now(), "ago", "from now")
}
