// Package batch runs visibility changes over a selection of posts.
//
// The executor processes posts strictly one at a time, in the order
// given. A Pacer spaces the requests out; its Wait runs before every
// post, and implementations make the first wait free so the delay
// lands between posts rather than before the run.
//
// Failure handling follows one rule: a post that cannot be changed is
// recorded in the summary and the run moves on. That includes
// authentication failures. A mutation that failed remotely may still
// have been applied, so nothing in this package ever retries one.
//
// Cancellation stops the run at the next suspension point (the pacing
// wait or the in-flight request). The summary is finalized and
// returned with Interrupted set, so partial progress is always
// reported.
//
// Dry runs never touch the network and never pace. Every post is
// counted as if it succeeded.
//
// Usage:
//
//	exec := batch.NewExecutor(client,
//		batch.WithPacer(pacer),
//		batch.WithProgress(func(ev batch.ProgressEvent) {
//			fmt.Printf("%d/%d %s\n", ev.Index, ev.Total, ev.Post.ID)
//		}),
//	)
//
//	summary := exec.Run(ctx, batch.Job{
//		UserID: "1234567890",
//		Posts:  selection.Posts,
//		Target: weibo.VisibilityPrivate,
//	})
//	summary.Render(os.Stdout)
package batch
