package feed

import (
	"context"

	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/ratelimit"
	"wbprivacy/pkg/retry"
	"wbprivacy/pkg/weibo"
)

// Paginator walks a user's feed one page at a time:
//
//	for paginator.Next(ctx) {
//	    page := paginator.Page()
//	    ...
//	}
//	if err := paginator.Err(); err != nil {
//	    ...
//	}
type Paginator struct {
	client   Client
	userID   string
	logger   logger.Logger
	retryCfg *retry.Config
	pacer    ratelimit.Pacer

	page     *weibo.Page
	nextPage int
	fetched  int
	done     bool
	err      error
}

// Option adjusts how a Paginator walks the feed
type Option func(*Paginator)

// WithStartPage starts the walk at page n instead of 1
func WithStartPage(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.nextPage = n
		}
	}
}

// WithRetry re-attempts failed page fetches with the given policy.
// Without this option every fetch is single-attempt.
func WithRetry(cfg *retry.Config) Option {
	return func(p *Paginator) {
		p.retryCfg = cfg
	}
}

// WithPacer spaces consecutive page fetches out. Pacers make the first
// wait free, so the pause lands between fetches, not before the walk.
func WithPacer(p ratelimit.Pacer) Option {
	return func(pg *Paginator) {
		if p != nil {
			pg.pacer = p
		}
	}
}

// WithLogger routes the paginator's progress logs
func WithLogger(log logger.Logger) Option {
	return func(p *Paginator) {
		if log != nil {
			p.logger = log
		}
	}
}

// NewPaginator creates a paginator over userID's own feed
func NewPaginator(client Client, userID string, opts ...Option) *Paginator {
	p := &Paginator{
		client:   client,
		userID:   userID,
		logger:   logger.GetLogger(),
		pacer:    ratelimit.NewNopPacer(),
		nextPage: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Next fetches the next page and reports whether one is available.
// It returns false once the feed is exhausted, a fetch fails, or ctx is
// done; Err distinguishes the error cases from a clean end.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		p.err = err
		return false
	}

	if err := p.pacer.Wait(ctx); err != nil {
		p.err = err
		return false
	}

	fetch := func() (*weibo.Page, error) {
		return p.client.FetchFeedPage(ctx, p.userID, p.nextPage)
	}

	var page *weibo.Page
	var err error
	if p.retryCfg != nil {
		cfg := *p.retryCfg
		cfg.Context = ctx
		if cfg.Logger == nil {
			cfg.Logger = p.logger
		}
		page, err = retry.DoWithResult(fetch, &cfg)
	} else {
		page, err = fetch()
	}

	if err != nil {
		p.err = err
		p.logger.WithError(err).WithFields(map[string]interface{}{
			"user_id": p.userID,
			"page":    p.nextPage,
		}).Error("feed walk stopped")
		return false
	}

	p.fetched++
	p.nextPage++

	// An empty page is the end marker, not data
	if len(page.Posts) == 0 {
		p.done = true
		p.logger.DebugWithFields("feed exhausted", map[string]interface{}{
			"user_id": p.userID,
			"pages":   p.fetched,
		})
		return false
	}

	p.page = page
	return true
}

// Page returns the page fetched by the last successful Next
func (p *Paginator) Page() *weibo.Page {
	return p.page
}

// Err returns the error that stopped the walk, if any
func (p *Paginator) Err() error {
	return p.err
}

// PagesFetched counts HTTP page fetches, including the empty page that
// marks the end of the feed
func (p *Paginator) PagesFetched() int {
	return p.fetched
}
