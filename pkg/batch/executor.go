package batch

import (
	"context"
	"errors"

	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/ratelimit"
	"wbprivacy/pkg/report"
	"wbprivacy/pkg/weibo"
)

// Job describes one run over an already-selected set of posts.
// The accounting fields carry window bookkeeping into the summary.
type Job struct {
	UserID string
	Posts  []weibo.Post
	Target weibo.Visibility
	DryRun bool

	Skipped      int
	PagesFetched int
	FeedTotal    int
}

// ProgressEvent reports one processed post. Index is 1-based.
type ProgressEvent struct {
	Index  int
	Total  int
	Post   weibo.Post
	Err    error
	DryRun bool
}

// ProgressFunc receives an event after each processed post
type ProgressFunc func(ProgressEvent)

// Executor changes post visibility one post at a time
type Executor struct {
	mutator  Mutator
	pacer    ratelimit.Pacer
	logger   logger.Logger
	progress ProgressFunc
}

// Option configures an Executor
type Option func(*Executor)

// WithPacer sets the pacer that spaces mutations out
func WithPacer(p ratelimit.Pacer) Option {
	return func(e *Executor) {
		if p != nil {
			e.pacer = p
		}
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(e *Executor) {
		if log != nil {
			e.logger = log
		}
	}
}

// WithProgress sets a callback invoked after each processed post
func WithProgress(fn ProgressFunc) Option {
	return func(e *Executor) {
		e.progress = fn
	}
}

// NewExecutor creates an executor around the given mutator.
// Without options it runs unpaced and logs through the global logger.
func NewExecutor(m Mutator, opts ...Option) *Executor {
	e := &Executor{
		mutator: m,
		pacer:   ratelimit.NewNopPacer(),
		logger:  logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes every post in the job and returns the run summary.
// The summary is always returned, finalized, even when the run is
// cancelled partway through.
func (e *Executor) Run(ctx context.Context, job Job) *report.Summary {
	summary := report.NewSummary(job.UserID, job.Target, job.DryRun)
	summary.Planned = len(job.Posts)
	summary.Skipped = job.Skipped
	summary.PagesFetched = job.PagesFetched
	summary.FeedTotal = job.FeedTotal

	e.logger.InfoWithFields("starting visibility run", map[string]interface{}{
		"user_id": job.UserID,
		"posts":   len(job.Posts),
		"target":  job.Target.String(),
		"dry_run": job.DryRun,
	})

	total := len(job.Posts)
	for i, post := range job.Posts {
		if err := ctx.Err(); err != nil {
			summary.Interrupted = true
			e.logger.WithError(err).Warn("run interrupted")
			break
		}

		if job.DryRun {
			summary.RecordSuccess(post)
			logger.LogMutation(e.logger, post.ID.String(), job.Target.String(), true, nil)
			e.emit(ProgressEvent{Index: i + 1, Total: total, Post: post, DryRun: true})
			continue
		}

		if err := e.pacer.Wait(ctx); err != nil {
			summary.Interrupted = true
			e.logger.WithError(err).Warn("run interrupted while pacing")
			break
		}

		err := e.mutator.ChangeVisibility(ctx, post.ID, job.Target)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			summary.Interrupted = true
			e.logger.WithError(err).Warn("run interrupted mid-change")
			break
		}

		e.pacer.Observe(err == nil)
		logger.LogMutation(e.logger, post.ID.String(), job.Target.String(), false, err)

		if err != nil {
			summary.RecordFailure(post, err)
		} else {
			summary.RecordSuccess(post)
		}
		e.emit(ProgressEvent{Index: i + 1, Total: total, Post: post, Err: err})
	}

	summary.Finalize()
	e.logger.InfoWithFields("visibility run finished", map[string]interface{}{
		"attempted":   summary.Attempted,
		"succeeded":   summary.Succeeded,
		"failed":      summary.Failed,
		"interrupted": summary.Interrupted,
		"duration":    summary.Duration().String(),
	})

	return summary
}

func (e *Executor) emit(ev ProgressEvent) {
	if e.progress != nil {
		e.progress(ev)
	}
}
