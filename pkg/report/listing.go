package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"wbprivacy/pkg/weibo"
)

// listingExcerptRunes is how much post text a listing line carries
const listingExcerptRunes = 60

// PostListing is the export form of one feed post
type PostListing struct {
	PostID     string `json:"post_id" yaml:"post_id"`
	Visibility string `json:"visibility" yaml:"visibility"`
	Repost     bool   `json:"repost" yaml:"repost"`
	CreatedAt  string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
}

// NewPostListing converts a feed post into its export form
func NewPostListing(post weibo.Post) PostListing {
	return PostListing{
		PostID:     post.ID.String(),
		Visibility: post.Visibility().String(),
		Repost:     post.IsRepost(),
		CreatedAt:  post.CreatedAt,
		Text:       post.Excerpt(listingExcerptRunes),
	}
}

// RenderPosts writes posts as human-readable lines, one post per line
func RenderPosts(w io.Writer, posts []weibo.Post) error {
	for _, post := range posts {
		listing := NewPostListing(post)

		marker := " "
		if listing.Repost {
			marker = "R"
		}
		if _, err := fmt.Fprintf(w, "%-20s %-8s %s %s\n",
			listing.PostID, listing.Visibility, marker, listing.Text); err != nil {
			return err
		}
	}
	return nil
}

// EncodePosts serializes posts in the given format
func EncodePosts(posts []weibo.Post, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	listings := make([]PostListing, 0, len(posts))
	for _, post := range posts {
		listings = append(listings, NewPostListing(post))
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode post listing: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(listings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode post listing: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		if err := RenderPosts(&buf, posts); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// WritePosts exports posts to path in the given format
func WritePosts(path, format string, posts []weibo.Post) error {
	data, err := EncodePosts(posts, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create listing directory: %w", err)
		}
	}

	return writeFileAtomic(path, data)
}
