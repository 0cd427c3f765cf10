// Package retry provides backoff and retry logic for transient failures
// when fetching feed pages from Weibo.
//
// Retrying is strictly opt-in. Feed fetches are single-attempt unless the
// user enables retries in config, and visibility mutations are never
// retried: a mutation that failed remotely may still have been applied,
// and re-sending it would trade one uncertain outcome for another.
//
// Features:
//   - Exponential backoff with jitter, and constant backoff
//   - Context support for cancellation
//   - Configurable retry predicates (auth and decode failures never retry)
//
// Basic usage:
//
//	// Retry a page fetch with defaults
//	page, err := retry.DoWithResult(func() (*weibo.Page, error) {
//		return client.FetchFeedPage(ctx, userID, n)
//	}, cfg)
//
//	// Custom configuration
//	cfg := &retry.Config{
//		MaxAttempts: 5,
//		Backoff: &retry.ExponentialBackoff{
//			BaseDelay:    2 * time.Second,
//			MaxDelay:     30 * time.Second,
//			Multiplier:   2.0,
//			JitterFactor: 0.1,
//		},
//		RetryIf: retry.DefaultRetryIf,
//		Logger:  logger.GetLogger(),
//	}
package retry
