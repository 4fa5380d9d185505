// Package domain contains the core business entities and rules.
package domain

// Tweet is one feed entry flattened for rendering.
type Tweet struct {
	ID         string
	Text       string // Linkified body
	Date       string // Exact or relative, see FeedConfig.CacheHours
	RepliedTo  string
	IsReshare  bool
	Author     Author
	Resharer   *Resharer    // Set only when IsReshare
	AuthorLink *ProfileLink // Last URL of the author's profile link list
	Hashtags   []Hashtag
	Mentions   []Mention
	URLs       []URLEntity
	Media      []MediaEntity // Nil when the item has no media
}

// Author represents the account whose content is shown.
// For reshares this is the original poster, not the resharer.
type Author struct {
	ID          string
	DisplayName string
	ScreenName  string
	Description string
	AvatarURL   string
}

// Resharer holds the identity of the account that reshared the item.
type Resharer struct {
	DisplayName string
	ScreenName  string
	Description string
}

// ProfileLink is the short/full/display triple of a profile URL.
type ProfileLink struct {
	ShortURL   string
	FullURL    string
	DisplayURL string
}

// Hashtag is a hashtag entity with its character offsets.
type Hashtag struct {
	Text    string
	Indices [2]int
}

// Mention is a user mention entity.
type Mention struct {
	ScreenName string
	Name       string
	ID         string
}

// URLEntity is a link entity as shortened by the API.
type URLEntity struct {
	ShortURL    string
	ExpandedURL string
	DisplayURL  string
}

// MediaEntity is an attached photo or video.
type MediaEntity struct {
	ID          string
	Type        string
	ShortURL    string
	MediaURL    string
	DisplayURL  string
	ExpandedURL string
}
