package feed

import (
	"context"

	"wbprivacy/pkg/weibo"
)

// Window selects which slice of the feed a run operates on.
// The zero value selects everything.
type Window struct {
	// Skip drops the first N posts, counting across page boundaries
	Skip int
	// MaxPages caps how many feed pages are fetched (0 means until exhausted)
	MaxPages int
	// Limit caps how many posts are selected after skipping (0 means no cap)
	Limit int
}

// Selection is the outcome of walking the feed through a window
type Selection struct {
	// Posts holds the selected posts in feed order
	Posts []weibo.Post
	// Skipped counts posts dropped by Window.Skip
	Skipped int
	// PagesFetched counts HTTP page fetches, including the end marker
	PagesFetched int
	// Total is the server-reported size of the whole feed, 0 when unknown
	Total int
}

// Collect walks the paginator through the window and materializes the
// selection. Posts keep the order the feed returned them in.
//
// Collect stops fetching as soon as the window is satisfied. A fetch error
// surfaces after whatever was selected so far; callers treat it as fatal
// because an incomplete selection must not silently shrink a run.
func Collect(ctx context.Context, p *Paginator, w Window) (*Selection, error) {
	sel := &Selection{}
	toSkip := w.Skip
	if toSkip < 0 {
		toSkip = 0
	}

	pages := 0
	for {
		if w.MaxPages > 0 && pages >= w.MaxPages {
			break
		}
		if !p.Next(ctx) {
			break
		}
		pages++

		page := p.Page()
		if sel.Total == 0 {
			sel.Total = page.Total
		}

		for _, post := range page.Posts {
			if toSkip > 0 {
				toSkip--
				sel.Skipped++
				continue
			}
			sel.Posts = append(sel.Posts, post)
			if w.Limit > 0 && len(sel.Posts) >= w.Limit {
				sel.PagesFetched = p.PagesFetched()
				return sel, p.Err()
			}
		}
	}

	sel.PagesFetched = p.PagesFetched()
	return sel, p.Err()
}
