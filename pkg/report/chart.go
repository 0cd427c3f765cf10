package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// maxChartedReasons bounds the failure reason bar chart
const maxChartedReasons = 10

// WriteChart renders the summary as a self-contained HTML page
func (s *Summary) WriteChart(path string) error {
	var buf bytes.Buffer

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Run Outcomes",
			Subtitle: fmt.Sprintf("user %s, target %s", s.UserID, s.Target),
		}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	var pieItems []opts.PieData
	for _, slice := range []struct {
		name  string
		value int
	}{
		{"succeeded", s.Succeeded},
		{"failed", s.Failed},
		{"skipped", s.Skipped},
		{"remaining", s.Remaining()},
	} {
		if slice.value > 0 {
			pieItems = append(pieItems, opts.PieData{Name: slice.name, Value: slice.value})
		}
	}
	pie.AddSeries("Posts", pieItems)

	if err := pie.Render(&buf); err != nil {
		return fmt.Errorf("failed to render outcome chart: %w", err)
	}

	if len(s.Failures) > 0 {
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Failure Reasons"}))

		reasons, counts := s.topFailureReasons(maxChartedReasons)
		var barY []opts.BarData
		for _, c := range counts {
			barY = append(barY, opts.BarData{Value: c})
		}
		bar.SetXAxis(reasons).AddSeries("Failures", barY)

		if err := bar.Render(&buf); err != nil {
			return fmt.Errorf("failed to render failure chart: %w", err)
		}
	}

	return writeFileAtomic(path, buf.Bytes())
}

// topFailureReasons groups failures by reason and returns the most
// common ones, most frequent first
func (s *Summary) topFailureReasons(limit int) ([]string, []int) {
	grouped := make(map[string]int)
	for _, f := range s.Failures {
		grouped[f.Reason]++
	}

	reasons := make([]string, 0, len(grouped))
	for reason := range grouped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if grouped[reasons[i]] != grouped[reasons[j]] {
			return grouped[reasons[i]] > grouped[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	if len(reasons) > limit {
		reasons = reasons[:limit]
	}
	counts := make([]int, len(reasons))
	for i, reason := range reasons {
		counts[i] = grouped[reason]
	}
	return reasons, counts
}
