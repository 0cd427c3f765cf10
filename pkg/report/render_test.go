package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbprivacy/pkg/weibo"
)

func TestRender(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityFriends, false)
	s.Planned = 4
	s.Skipped = 2
	s.PagesFetched = 3
	s.FeedTotal = 42
	s.RecordSuccess(testPost("1", ""))
	s.RecordSuccess(testPost("2", ""))
	s.RecordFailure(testPost("3", "周末去爬山"), errors.New("Weibo declined the change: 系统繁忙"))
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Run summary\n"))
	assert.Contains(t, out, s.RunID)
	assert.Contains(t, out, "User:      1234567890")
	assert.Contains(t, out, "Target:    friends")
	assert.Contains(t, out, "Planned:   4 (feed reports 42 posts)")
	assert.Contains(t, out, "Attempted: 3")
	assert.Contains(t, out, "Succeeded: 2")
	assert.Contains(t, out, "Failed:    1")
	assert.Contains(t, out, "Skipped:   2")
	assert.Contains(t, out, "Remaining: 1")
	assert.Contains(t, out, "Success:   66.7%")
	assert.Contains(t, out, "3 (周末去爬山): Weibo declined the change: 系统繁忙")
	assert.NotContains(t, out, "interrupted")
	assert.NotContains(t, out, "dry run")
}

func TestRenderDryRun(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityPrivate, true)
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))

	assert.True(t, strings.HasPrefix(buf.String(), "Run summary (dry run)\n"))
}

func TestRenderInterrupted(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityPrivate, false)
	s.Interrupted = true
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))

	assert.Contains(t, buf.String(), "Run was interrupted before completing.")
}

func TestRenderWithoutFailuresOmitsSection(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityPublic, false)
	s.RecordSuccess(testPost("1", ""))
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.NotContains(t, out, "Failures:")
	assert.NotContains(t, out, "Skipped:")
	assert.NotContains(t, out, "Remaining:")
}

func TestRenderTruncatesLongFailureList(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityPrivate, false)
	for i := 0; i < 12; i++ {
		s.RecordFailure(testPost(fmt.Sprintf("%d", i), ""), errors.New("declined"))
	}
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "... and 2 more")
	assert.Equal(t, maxRenderedFailures, strings.Count(out, ": declined"))
}

func TestRenderFailureWithoutExcerpt(t *testing.T) {
	s := NewSummary("1234567890", weibo.VisibilityPrivate, false)
	s.RecordFailure(testPost("99", ""), errors.New("declined"))
	s.Finalize()

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))

	assert.Contains(t, buf.String(), "  99: declined\n")
}
