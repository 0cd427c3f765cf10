package feed

import (
	"context"

	"wbprivacy/pkg/weibo"
)

// Client defines the slice of the Weibo API the feed layer needs
type Client interface {
	FetchFeedPage(ctx context.Context, userID string, page int) (*weibo.Page, error)
}
