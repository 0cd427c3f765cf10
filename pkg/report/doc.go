// Package report aggregates what a run did and gets it in front of the user.
//
// A Summary is built incrementally while the batch runs: one Record call per
// post, then Finalize. The summary always reaches the user, whether the run
// finished, failed partway, or was interrupted; partial numbers beat no
// numbers when half a feed was already mutated.
//
// Output forms:
//   - Render writes the human text block shown at the end of every run
//   - WriteFile exports the summary as text, JSON, or YAML
//   - WriteChart renders a small self-contained HTML page with charts
//
// All file output goes through a temporary file and rename, so a crash
// never leaves a half-written report behind.
package report
