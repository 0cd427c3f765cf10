package weibo

import (
	"encoding/json"
	"strings"
	"time"
)

// createdAtLayout is the Ruby-style timestamp the feed emits, for example
// "Tue Aug 19 09:23:11 +0800 2025".
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// PostID is a Weibo status ID. The feed emits IDs as JSON numbers while
// other endpoints emit the same IDs as strings, so it decodes from either.
type PostID string

// UnmarshalJSON accepts both the number and string forms of an ID
func (id *PostID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = PostID(n.String())
	return nil
}

func (id PostID) String() string {
	return string(id)
}

// Post is a single status from the user's feed
type Post struct {
	ID        PostID          `json:"id"`
	MID       string          `json:"mblogid"`
	Text      string          `json:"text_raw"`
	CreatedAt string          `json:"created_at"`
	Visible   VisibleState    `json:"visible"`
	Retweeted json.RawMessage `json:"retweeted_status,omitempty"`
}

// VisibleState is the feed's report of who can currently see a post
type VisibleState struct {
	Type   int `json:"type"`
	ListID int `json:"list_id"`
}

// Visibility maps the feed's visible.type onto the codes the mutation
// endpoint uses. Codes outside that set come back as VisibilityUnknown.
func (p *Post) Visibility() Visibility {
	return VisibilityFromCode(p.Visible.Type)
}

// IsRepost reports whether the post is a repost of someone else's status.
// Weibo refuses visibility changes on some repost types, so callers may
// want to flag these up front.
func (p *Post) IsRepost() bool {
	trimmed := strings.TrimSpace(string(p.Retweeted))
	return len(trimmed) > 0 && trimmed != "null"
}

// CreatedTime parses the feed's timestamp. The zero time is returned when
// the field is missing or in an unexpected format.
func (p *Post) CreatedTime() time.Time {
	t, err := time.Parse(createdAtLayout, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Excerpt returns the first maxRunes runes of the post text with
// whitespace collapsed, for one-line listings.
func (p *Post) Excerpt(maxRunes int) string {
	text := strings.Join(strings.Fields(p.Text), " ")
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes-1]) + "…"
}

// Page is one fetched slice of the feed, in the order Weibo returned it
type Page struct {
	Number int
	Posts  []Post
	Total  int
}

// feedResponse is the envelope around every mymblog response
type feedResponse struct {
	OK      int      `json:"ok"`
	Message string   `json:"msg"`
	Data    feedData `json:"data"`
}

type feedData struct {
	List  []Post `json:"list"`
	Total int    `json:"total"`
}
