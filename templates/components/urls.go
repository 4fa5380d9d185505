package components

import (
	"net/url"

	"tweetfeed/internal/domain"
	"tweetfeed/internal/linkify"
)

// ErrorHelpURL documents the API's error codes.
const ErrorHelpURL = "https://dev.twitter.com/docs/error-codes-responses"

func profileURL(screenName string) string {
	return linkify.ProfileBase + screenName
}

// statusURL points at the status on the web. The status id belongs to the
// resharer for reshares.
func statusURL(t domain.Tweet) string {
	owner := t.Author.ScreenName
	if t.Resharer != nil {
		owner = t.Resharer.ScreenName
	}
	return profileURL(owner) + "/status/" + t.ID
}

func intentURL(action, param, id string) string {
	return linkify.IntentBase + action + "?" + param + "=" + url.QueryEscape(id)
}

func searchURL(term string) string {
	return linkify.SearchBase + url.QueryEscape(term)
}
