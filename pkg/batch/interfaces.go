package batch

import (
	"context"

	"wbprivacy/pkg/weibo"
)

// Mutator is the one call the executor needs from the API client
type Mutator interface {
	ChangeVisibility(ctx context.Context, id weibo.PostID, v weibo.Visibility) error
}
