package domain

// FeedSource tells which endpoint an item came from.
type FeedSource string

const (
	SourceTimeline FeedSource = "timeline"
	SourceSearch   FeedSource = "search"
)

// PayloadKind is the shape of a decoded API response.
type PayloadKind int

const (
	// PayloadItems is a (possibly empty) list of statuses.
	PayloadItems PayloadKind = iota
	// PayloadAPIErrors is a response carrying a top-level errors array.
	PayloadAPIErrors
	// PayloadMalformed is anything that could not be decoded into the above.
	PayloadMalformed
)

// Payload is a decoded API response, normalized so that timeline and
// search results share one representation.
type Payload struct {
	Kind   PayloadKind
	Items  []Item
	Errors []APIError
}

// Empty reports whether the payload is a successful, zero-length result.
func (p Payload) Empty() bool {
	return p.Kind == PayloadItems && len(p.Items) == 0
}

// APIError is one entry of the API's errors array.
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Item is one status tagged with its source endpoint.
type Item struct {
	Source FeedSource
	Status Status
}

// ItemVariant is either an OriginalPost or a Reshare.
type ItemVariant interface {
	isItemVariant()
}

// OriginalPost is a status published by its own author.
type OriginalPost struct {
	Status *Status
}

// Reshare is a status that republishes Original on behalf of Outer's user.
type Reshare struct {
	Outer    *Status
	Original *Status
}

func (OriginalPost) isItemVariant() {}
func (Reshare) isItemVariant()      {}

// Variant classifies the item. This is the only place the embedded
// retweeted status is inspected.
func (i *Item) Variant() ItemVariant {
	if i.Status.RetweetedStatus != nil {
		return Reshare{Outer: &i.Status, Original: i.Status.RetweetedStatus}
	}
	return OriginalPost{Status: &i.Status}
}

// Status mirrors the subset of an API status object the feed uses.
type Status struct {
	IDStr               string         `json:"id_str"`
	Text                string         `json:"text"`
	CreatedAt           string         `json:"created_at"`
	InReplyToScreenName string         `json:"in_reply_to_screen_name"`
	User                StatusUser     `json:"user"`
	Entities            StatusEntities `json:"entities"`
	RetweetedStatus     *Status        `json:"retweeted_status,omitempty"`
}

// StatusUser is the user object embedded in a status.
type StatusUser struct {
	IDStr           string       `json:"id_str"`
	Name            string       `json:"name"`
	ScreenName      string       `json:"screen_name"`
	Description     string       `json:"description"`
	ProfileImageURL string       `json:"profile_image_url"`
	Entities        UserEntities `json:"entities"`
}

// UserEntities holds the entities of a user profile.
type UserEntities struct {
	URL *UserURLEntities `json:"url,omitempty"`
}

// UserURLEntities is the entity list of the profile link field.
type UserURLEntities struct {
	URLs []RawURL `json:"urls"`
}

// StatusEntities holds the entity lists of a status. Media is nil when the
// status carries no media key.
type StatusEntities struct {
	Hashtags     []RawHashtag `json:"hashtags"`
	UserMentions []RawMention `json:"user_mentions"`
	URLs         []RawURL     `json:"urls"`
	Media        []RawMedia   `json:"media,omitempty"`
}

type RawHashtag struct {
	Text    string `json:"text"`
	Indices [2]int `json:"indices"`
}

type RawMention struct {
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	IDStr      string `json:"id_str"`
}

type RawURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
	DisplayURL  string `json:"display_url"`
}

type RawMedia struct {
	IDStr       string `json:"id_str"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	MediaURL    string `json:"media_url"`
	DisplayURL  string `json:"display_url"`
	ExpandedURL string `json:"expanded_url"`
}
