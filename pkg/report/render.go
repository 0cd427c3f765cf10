package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// maxRenderedFailures bounds the failure list in the text block,
// the full list is always present in JSON and YAML exports
const maxRenderedFailures = 10

const durationPrecision = 100 * time.Millisecond

// Render writes the human-readable summary block
func (s *Summary) Render(w io.Writer) error {
	var b strings.Builder

	title := "Run summary"
	if s.DryRun {
		title = "Run summary (dry run)"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")

	fmt.Fprintf(&b, "Run ID:    %s\n", s.RunID)
	fmt.Fprintf(&b, "User:      %s\n", s.UserID)
	fmt.Fprintf(&b, "Target:    %s\n", s.Target)
	fmt.Fprintf(&b, "Duration:  %s\n", s.Duration().Round(durationPrecision))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Planned:   %d", s.Planned)
	if s.FeedTotal > 0 {
		fmt.Fprintf(&b, " (feed reports %d posts)", s.FeedTotal)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Attempted: %d\n", s.Attempted)
	fmt.Fprintf(&b, "Succeeded: %d\n", s.Succeeded)
	fmt.Fprintf(&b, "Failed:    %d\n", s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "Skipped:   %d\n", s.Skipped)
	}
	if remaining := s.Remaining(); remaining > 0 {
		fmt.Fprintf(&b, "Remaining: %d\n", remaining)
	}
	if s.Attempted > 0 {
		fmt.Fprintf(&b, "Success:   %.1f%%\n", s.SuccessRate())
	}

	if s.Interrupted {
		b.WriteString("\nRun was interrupted before completing.\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("\nFailures:\n")
		shown := s.Failures
		if len(shown) > maxRenderedFailures {
			shown = shown[:maxRenderedFailures]
		}
		for _, f := range shown {
			if f.Excerpt != "" {
				fmt.Fprintf(&b, "  %s (%s): %s\n", f.PostID, f.Excerpt, f.Reason)
			} else {
				fmt.Fprintf(&b, "  %s: %s\n", f.PostID, f.Reason)
			}
		}
		if more := len(s.Failures) - maxRenderedFailures; more > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", more)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
