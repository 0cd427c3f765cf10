// Package ratelimit paces the requests the tool sends to Weibo.
//
// Bulk visibility changes hammer a mutation endpoint that was built for one
// click at a time, so every request goes through a Pacer first. The pacer
// also hears about each outcome, which lets a strategy slow down when Weibo
// starts pushing back.
//
// Available implementations:
//
// FixedPacer:
//   - Spaces requests a constant interval apart
//   - The first request is never delayed
//   - Default strategy
//
// BackoffPacer:
//   - Starts at the configured interval
//   - Doubles the gap after every consecutive failure, up to a ceiling
//   - Snaps back to the base interval after a success
//
// NopPacer:
//   - Never waits; used for dry runs and tests
//
// Interface:
//
// All pacers implement the Pacer interface:
//   - Wait(ctx) error - Block until the next request may go out
//   - Observe(success bool) - Report how the request went
//
// Usage:
//
//	pacer, err := ratelimit.New(ratelimit.StrategyBackoff, time.Second, 2*time.Minute)
//	if err != nil {
//	    // Unknown strategy name
//	}
//
//	for _, post := range posts {
//	    if err := pacer.Wait(ctx); err != nil {
//	        break // context cancelled
//	    }
//	    err := client.ChangeVisibility(ctx, post.ID, target)
//	    pacer.Observe(err == nil)
//	}
package ratelimit
