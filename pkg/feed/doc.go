// Package feed walks a user's own Weibo timeline page by page and selects
// the slice of it a run will operate on.
//
// Architecture:
//
// The Paginator is a scanner over the mymblog endpoint:
//   - Pages are numbered from 1 and fetched lazily, one Next call at a time
//   - A page with zero posts marks the end of the feed and is not yielded
//   - Any fetch error stops the walk; Err reports it
//   - Retries are opt-in via WithRetry and never happen by default
//
// A Window then narrows the stream of posts:
//   - Skip drops the first N posts, counting across page boundaries
//   - MaxPages caps how many pages are fetched
//   - Limit caps how many posts are selected after skipping
//
// Collect drives both and materializes the selection before anything is
// mutated, so a run operates on a fixed list.
//
// The feed is a best-effort snapshot. Posts published or removed while
// paging shifts what lands on later pages; there is no cursor to pin the
// walk to a moment in time.
//
// Usage:
//
//	paginator := feed.NewPaginator(client, "1234567890", feed.WithLogger(log))
//	selection, err := feed.Collect(ctx, paginator, feed.Window{Skip: 10, MaxPages: 5})
//	if err != nil {
//	    // a page fetch failed; nothing has been mutated yet
//	}
//	for _, post := range selection.Posts {
//	    // ...
//	}
package feed
