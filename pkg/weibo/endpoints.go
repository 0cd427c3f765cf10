package weibo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the web origin all AJAX endpoints hang off
	BaseURL = "https://weibo.com"

	// MyBlogEndpoint returns one page of the signed-in user's own posts
	MyBlogEndpoint = "/ajax/statuses/mymblog"

	// ModifyVisibleEndpoint changes who can see an existing post
	ModifyVisibleEndpoint = "/ajax/statuses/modifyVisible"

	// FeatureAll asks the feed for every post type instead of a filtered
	// subset (originals only, videos only, and so on)
	FeatureAll = 0

	// MaxUserIDLength bounds how long a numeric account ID can be
	MaxUserIDLength = 20
)

// FeedPageURL constructs the URL for one page of a user's feed.
// Pages are numbered from 1.
func FeedPageURL(base, userID string, page int) string {
	params := url.Values{}
	params.Set("uid", userID)
	params.Set("page", strconv.Itoa(page))
	params.Set("feature", strconv.Itoa(FeatureAll))

	return fmt.Sprintf("%s%s?%s", base, MyBlogEndpoint, params.Encode())
}

// ModifyVisibleURL constructs the URL for the visibility mutation endpoint
func ModifyVisibleURL(base string) string {
	return base + ModifyVisibleEndpoint
}

// ProfileURL constructs the public profile URL for a user.
// It doubles as the Referer the feed endpoint expects.
func ProfileURL(base, userID string) string {
	return fmt.Sprintf("%s/u/%s", base, userID)
}

// IsValidUserID checks if id looks like a Weibo numeric account ID
func IsValidUserID(id string) bool {
	if id == "" || len(id) > MaxUserIDLength {
		return false
	}

	// Weibo account IDs are strictly numeric
	for _, char := range id {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// SanitizeUserID extracts a numeric user ID from the forms people paste:
// a bare ID, a profile URL like https://weibo.com/u/1234567890, or an ID
// with stray whitespace
func SanitizeUserID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}

	// Copied profile URLs keep the ID as the last path segment
	if strings.Contains(id, "weibo.com") {
		if idx := strings.IndexAny(id, "?#"); idx >= 0 {
			id = id[:idx]
		}
		id = strings.TrimSuffix(id, "/")
		if idx := strings.LastIndex(id, "/"); idx >= 0 {
			id = id[idx+1:]
		}
	}

	return id
}
