// Package fixtures provides API response bodies for tests.
package fixtures

// CreatedAt is the created_at value used by every fixture status.
const CreatedAt = "Thu Jan 01 12:00:00 +0000 2026"

// GenerateTimeline returns a user timeline with one plain tweet carrying
// every entity kind.
func GenerateTimeline() string {
	return `[
  {
    "id_str": "1001",
    "text": "Hello #world from @gopher https://t.co/abc https://t.co/pic",
    "created_at": "` + CreatedAt + `",
    "in_reply_to_screen_name": "gopher",
    "user": {
      "id_str": "42",
      "name": "Jane Doe",
      "screen_name": "janedoe",
      "description": "Writes Go.",
      "profile_image_url": "https://pbs.twimg.com/jane.jpg",
      "entities": {
        "url": {
          "urls": [
            {"url": "https://t.co/first", "expanded_url": "https://first.example", "display_url": "first.example"},
            {"url": "https://t.co/last", "expanded_url": "https://last.example", "display_url": "last.example"}
          ]
        }
      }
    },
    "entities": {
      "hashtags": [{"text": "world", "indices": [6, 12]}],
      "user_mentions": [{"screen_name": "gopher", "name": "The Gopher", "id_str": "7"}],
      "urls": [{"url": "https://t.co/abc", "expanded_url": "https://go.dev/blog", "display_url": "go.dev/blog"}],
      "media": [{
        "id_str": "9",
        "type": "photo",
        "url": "https://t.co/pic",
        "media_url": "https://pbs.twimg.com/media/pic.jpg",
        "display_url": "pic.twitter.com/pic",
        "expanded_url": "https://twitter.com/janedoe/status/1001/photo/1"
      }]
    }
  }
]`
}

// GenerateReshare returns a timeline holding one reshare by "resharer" of
// a tweet by "origin".
func GenerateReshare() string {
	return `[
  {
    "id_str": "2002",
    "text": "RT @origin: Original words #go",
    "created_at": "` + CreatedAt + `",
    "in_reply_to_screen_name": null,
    "user": {
      "id_str": "11",
      "name": "Re Sharer",
      "screen_name": "resharer",
      "description": "I share things.",
      "profile_image_url": "https://pbs.twimg.com/resharer.jpg",
      "entities": {}
    },
    "entities": {
      "hashtags": [{"text": "go", "indices": [27, 30]}],
      "user_mentions": [{"screen_name": "origin", "name": "Origin Author", "id_str": "22"}],
      "urls": []
    },
    "retweeted_status": {
      "id_str": "2001",
      "text": "Original words #go",
      "created_at": "` + CreatedAt + `",
      "user": {
        "id_str": "22",
        "name": "Origin Author",
        "screen_name": "origin",
        "description": "I write things.",
        "profile_image_url": "https://pbs.twimg.com/origin.jpg",
        "entities": {
          "url": {
            "urls": [
              {"url": "https://t.co/o1", "expanded_url": "https://one.example", "display_url": "one.example"},
              {"url": "https://t.co/o2", "expanded_url": "https://two.example", "display_url": "two.example"}
            ]
          }
        }
      },
      "entities": {"hashtags": [{"text": "go", "indices": [15, 18]}], "user_mentions": [], "urls": []}
    }
  }
]`
}

// GenerateSearch returns a search response wrapping two statuses.
func GenerateSearch() string {
	return `{
  "statuses": [
    {
      "id_str": "3001",
      "text": "first #golang",
      "created_at": "` + CreatedAt + `",
      "user": {"id_str": "1", "name": "First", "screen_name": "first", "profile_image_url": "https://pbs.twimg.com/1.jpg"},
      "entities": {"hashtags": [{"text": "golang", "indices": [6, 13]}], "user_mentions": [], "urls": []}
    },
    {
      "id_str": "3002",
      "text": "second #golang",
      "created_at": "` + CreatedAt + `",
      "user": {"id_str": "2", "name": "Second", "screen_name": "second", "profile_image_url": "https://pbs.twimg.com/2.jpg"},
      "entities": {"hashtags": [{"text": "golang", "indices": [7, 14]}], "user_mentions": [], "urls": []}
    }
  ],
  "search_metadata": {"count": 2}
}`
}

// GenerateEmptySearch returns a search response with no statuses.
func GenerateEmptySearch() string {
	return `{"statuses": [], "search_metadata": {"count": 0}}`
}

// GenerateEmptyTimeline returns a timeline with no statuses.
func GenerateEmptyTimeline() string {
	return `[]`
}

// GenerateRateLimitError returns the API's error payload for code 88.
func GenerateRateLimitError() string {
	return `{"errors": [{"message": "Rate limit exceeded", "code": 88}]}`
}

// GenerateMalformed returns a body that is not JSON.
func GenerateMalformed() string {
	return `<html><body>Over capacity</body></html>`
}
