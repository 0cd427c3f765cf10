package report

import (
	"time"

	"github.com/google/uuid"

	"wbprivacy/pkg/weibo"
)

// excerptRunes is how much post text a Failure carries for identification
const excerptRunes = 40

// Failure captures one post the run could not change
type Failure struct {
	PostID  string `json:"post_id" yaml:"post_id"`
	Excerpt string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Summary aggregates one run end to end
type Summary struct {
	RunID  string `json:"run_id" yaml:"run_id"`
	UserID string `json:"user_id" yaml:"user_id"`
	Target string `json:"target" yaml:"target"`
	DryRun bool   `json:"dry_run" yaml:"dry_run"`

	Started         time.Time `json:"started" yaml:"started"`
	Finished        time.Time `json:"finished" yaml:"finished"`
	DurationSeconds float64   `json:"duration_seconds" yaml:"duration_seconds"`

	// Planned is how many posts the window selected for this run
	Planned int `json:"planned" yaml:"planned"`
	// Attempted is how many posts were actually processed
	Attempted int `json:"attempted" yaml:"attempted"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`

	// Skipped counts posts the window dropped before the run
	Skipped int `json:"skipped" yaml:"skipped"`
	// PagesFetched counts feed page requests made to build the selection
	PagesFetched int `json:"pages_fetched" yaml:"pages_fetched"`
	// FeedTotal is the server-reported feed size, 0 when unknown
	FeedTotal int `json:"feed_total,omitempty" yaml:"feed_total,omitempty"`

	// Interrupted is set when cancellation stopped the run early
	Interrupted bool `json:"interrupted" yaml:"interrupted"`

	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewSummary starts a summary for one run
func NewSummary(userID string, target weibo.Visibility, dryRun bool) *Summary {
	return &Summary{
		RunID:   uuid.New().String(),
		UserID:  userID,
		Target:  target.String(),
		DryRun:  dryRun,
		Started: time.Now(),
	}
}

// RecordSuccess counts one post as changed
func (s *Summary) RecordSuccess(post weibo.Post) {
	s.Attempted++
	s.Succeeded++
}

// RecordFailure counts one post as unchanged and keeps the reason
func (s *Summary) RecordFailure(post weibo.Post, err error) {
	s.Attempted++
	s.Failed++

	reason := "unknown"
	if err != nil {
		reason = err.Error()
	}
	s.Failures = append(s.Failures, Failure{
		PostID:  post.ID.String(),
		Excerpt: post.Excerpt(excerptRunes),
		Reason:  reason,
	})
}

// Finalize stamps the end of the run. Calling it twice keeps the first stamp.
func (s *Summary) Finalize() {
	if !s.Finished.IsZero() {
		return
	}
	s.Finished = time.Now()
	s.DurationSeconds = s.Finished.Sub(s.Started).Seconds()
}

// Duration is how long the run took so far, or in total once finalized
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Remaining is how many selected posts were never processed
func (s *Summary) Remaining() int {
	remaining := s.Planned - s.Attempted
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SuccessRate is the share of attempted posts that succeeded, in percent
func (s *Summary) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted) * 100
}
