package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wbprivacy/pkg/errors"
	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/weibo"
)

// fakeMutator records calls and fails the IDs listed in errs
type fakeMutator struct {
	errs  map[string]error
	calls []string
}

func (m *fakeMutator) ChangeVisibility(ctx context.Context, id weibo.PostID, v weibo.Visibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.calls = append(m.calls, id.String())
	if err, ok := m.errs[id.String()]; ok {
		return err
	}
	return nil
}

// recordingPacer counts waits and observations, failing Wait once
// failAt calls have happened
type recordingPacer struct {
	waits    int
	observed []bool
	failAt   int
	failErr  error
}

func (p *recordingPacer) Wait(ctx context.Context) error {
	p.waits++
	if p.failAt > 0 && p.waits >= p.failAt {
		return p.failErr
	}
	return ctx.Err()
}

func (p *recordingPacer) Observe(success bool) {
	p.observed = append(p.observed, success)
}

func makePosts(ids ...string) []weibo.Post {
	posts := make([]weibo.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, weibo.Post{ID: weibo.PostID(id), Text: "post " + id})
	}
	return posts
}

func testJob(posts []weibo.Post) Job {
	return Job{
		UserID: "1234567890",
		Posts:  posts,
		Target: weibo.VisibilityPrivate,
	}
}

func TestExecutorRunAllSucceed(t *testing.T) {
	mutator := &fakeMutator{}
	pacer := &recordingPacer{}
	exec := NewExecutor(mutator, WithPacer(pacer), WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(makePosts("a", "b", "c")))

	assert.Equal(t, []string{"a", "b", "c"}, mutator.calls)
	assert.Equal(t, 3, summary.Planned)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.False(t, summary.Interrupted)
	assert.False(t, summary.Finished.IsZero())

	assert.Equal(t, 3, pacer.waits)
	assert.Equal(t, []bool{true, true, true}, pacer.observed)
}

func TestExecutorRunRecordsPerItemFailures(t *testing.T) {
	declined := apperrors.New(apperrors.ErrorTypeItem, "Weibo declined the change: 半年前的微博不支持修改")
	mutator := &fakeMutator{errs: map[string]error{"b": declined}}
	pacer := &recordingPacer{}
	exec := NewExecutor(mutator, WithPacer(pacer), WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(makePosts("a", "b", "c")))

	assert.Equal(t, []string{"a", "b", "c"}, mutator.calls)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Interrupted)

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "b", summary.Failures[0].PostID)
	assert.Contains(t, summary.Failures[0].Reason, "半年前的微博不支持修改")

	assert.Equal(t, []bool{true, false, true}, pacer.observed)
}

func TestExecutorRunAuthFailureDoesNotStopRun(t *testing.T) {
	expired := apperrors.New(apperrors.ErrorTypeAuth, "Weibo rejected the session (ok=-100)")
	mutator := &fakeMutator{errs: map[string]error{"a": expired}}
	exec := NewExecutor(mutator, WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(makePosts("a", "b")))

	assert.Equal(t, []string{"a", "b"}, mutator.calls)
	assert.Equal(t, 2, summary.Attempted)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Interrupted)
}

func TestExecutorRunDryRun(t *testing.T) {
	mutator := &fakeMutator{}
	pacer := &recordingPacer{}
	exec := NewExecutor(mutator, WithPacer(pacer), WithLogger(logger.NewNopLogger()))

	job := testJob(makePosts("a", "b", "c"))
	job.DryRun = true
	summary := exec.Run(context.Background(), job)

	assert.Empty(t, mutator.calls)
	assert.Equal(t, 0, pacer.waits)
	assert.Empty(t, pacer.observed)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
}

func TestExecutorRunInterruptedWhilePacing(t *testing.T) {
	mutator := &fakeMutator{}
	pacer := &recordingPacer{failAt: 2, failErr: context.Canceled}
	exec := NewExecutor(mutator, WithPacer(pacer), WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(makePosts("a", "b", "c")))

	assert.Equal(t, []string{"a"}, mutator.calls)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Remaining())
	assert.False(t, summary.Finished.IsZero())
}

func TestExecutorRunInterruptedMidChange(t *testing.T) {
	wrapped := fmt.Errorf("HTTP request failed: %w", context.Canceled)
	mutator := &fakeMutator{errs: map[string]error{"b": wrapped}}
	exec := NewExecutor(mutator, WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(makePosts("a", "b", "c")))

	assert.Equal(t, []string{"a", "b"}, mutator.calls)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, summary.Failures)
}

func TestExecutorRunCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mutator := &fakeMutator{}
	exec := NewExecutor(mutator, WithLogger(logger.NewNopLogger()))

	summary := exec.Run(ctx, testJob(makePosts("a", "b")))

	assert.Empty(t, mutator.calls)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 0, summary.Attempted)
	assert.Equal(t, 2, summary.Remaining())
}

func TestExecutorRunEmptySelection(t *testing.T) {
	mutator := &fakeMutator{}
	exec := NewExecutor(mutator, WithLogger(logger.NewNopLogger()))

	summary := exec.Run(context.Background(), testJob(nil))

	assert.Empty(t, mutator.calls)
	assert.Equal(t, 0, summary.Planned)
	assert.Equal(t, 0, summary.Attempted)
	assert.False(t, summary.Interrupted)
	assert.False(t, summary.Finished.IsZero())
}

func TestExecutorRunCarriesJobAccounting(t *testing.T) {
	exec := NewExecutor(&fakeMutator{}, WithLogger(logger.NewNopLogger()))

	job := testJob(makePosts("a"))
	job.Skipped = 5
	job.PagesFetched = 3
	job.FeedTotal = 42
	summary := exec.Run(context.Background(), job)

	assert.Equal(t, 5, summary.Skipped)
	assert.Equal(t, 3, summary.PagesFetched)
	assert.Equal(t, 42, summary.FeedTotal)
	assert.Equal(t, "1234567890", summary.UserID)
	assert.Equal(t, "private", summary.Target)
}

func TestExecutorRunProgressEvents(t *testing.T) {
	declined := apperrors.New(apperrors.ErrorTypeItem, "declined")
	mutator := &fakeMutator{errs: map[string]error{"b": declined}}

	var events []ProgressEvent
	exec := NewExecutor(mutator,
		WithLogger(logger.NewNopLogger()),
		WithProgress(func(ev ProgressEvent) { events = append(events, ev) }),
	)

	exec.Run(context.Background(), testJob(makePosts("a", "b")))

	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, "a", events[0].Post.ID.String())
	assert.NoError(t, events[0].Err)

	assert.Equal(t, 2, events[1].Index)
	assert.Equal(t, "b", events[1].Post.ID.String())
	assert.ErrorIs(t, events[1].Err, declined)
}

func TestExecutorRunDryRunProgressEvents(t *testing.T) {
	var events []ProgressEvent
	exec := NewExecutor(&fakeMutator{},
		WithLogger(logger.NewNopLogger()),
		WithProgress(func(ev ProgressEvent) { events = append(events, ev) }),
	)

	job := testJob(makePosts("a"))
	job.DryRun = true
	exec.Run(context.Background(), job)

	require.Len(t, events, 1)
	assert.True(t, events[0].DryRun)
	assert.NoError(t, events[0].Err)
}

func TestExecutorRunLogsMutations(t *testing.T) {
	log := logger.NewTestLogger()
	exec := NewExecutor(&fakeMutator{}, WithLogger(log))

	exec.Run(context.Background(), testJob(makePosts("a")))

	assert.True(t, log.HasMessage("starting visibility run"))
	assert.True(t, log.HasMessage("visibility changed"))
	assert.True(t, log.HasMessage("visibility run finished"))
	assert.False(t, log.HasError())
}
