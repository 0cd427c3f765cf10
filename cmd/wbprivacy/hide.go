package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wbprivacy/pkg/batch"
	"wbprivacy/pkg/config"
	"wbprivacy/pkg/feed"
	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/ratelimit"
	"wbprivacy/pkg/retry"
	"wbprivacy/pkg/ui"
	"wbprivacy/pkg/weibo"
)

// previewCount is how many selected posts are shown before the
// confirmation prompt
const previewCount = 10

var (
	// Hide command flags
	hideUserID     string
	hideCookie     string
	hideCookieFile string
	hideAccount    string
	hideVisibility string
	hideSkip       int
	hideMaxPages   int
	hideLimit      int
	hideDelay      int
	hideDryRun     bool
	hideYes        bool
	hideStartPage  int
	hidePacing     string
	hideRetry      bool
	hideReport     string
	hideFormat     string
	hideCharts     string
)

// hideCmd represents the hide command
var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Change the visibility of your posts, newest first",
	Long: `Walk your post feed and change each post's visibility to the target level.

Posts are processed one at a time, newest first, with a pause between
requests. A post Weibo declines to change (some repost types, for example)
is recorded and the run moves on; the final report lists every failure.

The selection window is taken before anything is mutated:
  --skip N        leave the newest N posts untouched
  --max-pages N   stop after N feed pages
  --limit N       change at most N posts

Use --dry-run first: it fetches and selects exactly like a real run but
changes nothing and applies no delays.`,
	Example: `  # Preview what a run would change
  wbprivacy hide --dry-run

  # Make everything friends-only except the newest 20 posts
  wbprivacy hide --visibility friends --skip 20

  # Make the newest page of posts private, no questions asked
  wbprivacy hide --visibility private --max-pages 1 --yes

  # Slow run with adaptive pacing and a JSON report
  wbprivacy hide --delay 3 --pacing backoff --report run.json --format json`,
	Args: cobra.NoArgs,
	Run:  runHide,
}

func init() {
	rootCmd.AddCommand(hideCmd)

	hideCmd.Flags().StringVarP(&hideUserID, "user-id", "u", "", "numeric Weibo account id (or profile URL)")
	hideCmd.Flags().StringVar(&hideCookie, "cookie", "", "raw browser cookie for the account")
	hideCmd.Flags().StringVar(&hideCookieFile, "cookie-file", "", "file containing the raw cookie")
	hideCmd.Flags().StringVarP(&hideAccount, "account", "a", "", "use a specific stored account")
	hideCmd.Flags().StringVar(&hideVisibility, "visibility", "", "target visibility: public, friends, private or fans (default friends)")
	hideCmd.Flags().IntVar(&hideSkip, "skip", 0, "leave the newest N posts untouched")
	hideCmd.Flags().IntVar(&hideMaxPages, "max-pages", 0, "stop after N feed pages (0 = all)")
	hideCmd.Flags().IntVar(&hideLimit, "limit", 0, "change at most N posts (0 = no cap)")
	hideCmd.Flags().IntVar(&hideDelay, "delay", 1, "seconds to wait between changes")
	hideCmd.Flags().BoolVar(&hideDryRun, "dry-run", false, "select and report but change nothing")
	hideCmd.Flags().BoolVarP(&hideYes, "yes", "y", false, "skip the confirmation prompt")
	hideCmd.Flags().IntVar(&hideStartPage, "start-page", 1, "feed page to start from")
	hideCmd.Flags().StringVar(&hidePacing, "pacing", "", "pacing strategy: fixed or backoff")
	hideCmd.Flags().BoolVar(&hideRetry, "retry", false, "retry failed page fetches (mutations are never retried)")
	hideCmd.Flags().StringVar(&hideReport, "report", "", "write the run summary to this file")
	hideCmd.Flags().StringVar(&hideFormat, "format", "", "report format: text, json or yaml")
	hideCmd.Flags().StringVar(&hideCharts, "charts", "", "write an HTML chart report to this file")
}

func runHide(cmd *cobra.Command, args []string) {
	flags := globalFlags(cmd)
	if hideUserID != "" {
		flags["user-id"] = hideUserID
	}
	if hideCookie != "" {
		flags["cookie"] = hideCookie
	}
	if hideCookieFile != "" {
		flags["cookie-file"] = hideCookieFile
	}
	if hideVisibility != "" {
		flags["visibility"] = hideVisibility
	}
	if cmd.Flags().Changed("skip") {
		flags["skip"] = hideSkip
	}
	if cmd.Flags().Changed("max-pages") {
		flags["max-pages"] = hideMaxPages
	}
	if cmd.Flags().Changed("limit") {
		flags["limit"] = hideLimit
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = hideDelay
	}
	if cmd.Flags().Changed("dry-run") {
		flags["dry-run"] = hideDryRun
	}
	if hidePacing != "" {
		flags["pacing"] = hidePacing
	}
	if cmd.Flags().Changed("retry") {
		flags["retry"] = hideRetry
	}
	if hideReport != "" {
		flags["output"] = hideReport
	}
	if hideFormat != "" {
		flags["format"] = hideFormat
	}
	if hideCharts != "" {
		flags["charts"] = hideCharts
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(exitSetup)
	}

	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()
	log.WithField("version", version).Info("wbprivacy starting")

	session, userID, err := resolveSession(cfg, hideAccount)
	if err != nil {
		fatal("Cannot authenticate", err)
	}

	target, err := weibo.ParseVisibility(cfg.Batch.Visibility)
	if err != nil {
		fatal("Invalid target visibility", err)
	}

	ui.PrintInfo("Target account", userID)
	ui.PrintInfo("Target visibility", fmt.Sprintf("%s (%s)", target, target.Description()))
	if cfg.Batch.DryRun {
		ui.PrintHighlight("[DRY RUN] nothing will be changed")
	}

	ctx, stop := signalContext()
	defer stop()

	client := weibo.NewClientWithConfig(session, &cfg.Weibo, log)

	pagOpts := []feed.Option{
		feed.WithLogger(log),
		feed.WithPacer(ratelimit.NewFixedPacer(cfg.RateLimit.PageInterval)),
	}
	if hideStartPage > 1 {
		pagOpts = append(pagOpts, feed.WithStartPage(hideStartPage))
	}
	if retryCfg := retry.FromConfig(&cfg.Retry, log); retryCfg != nil {
		pagOpts = append(pagOpts, feed.WithRetry(retryCfg))
	}
	paginator := feed.NewPaginator(client, userID, pagOpts...)

	window := feed.Window{
		Skip:     cfg.Batch.Skip,
		MaxPages: cfg.Batch.MaxPages,
		Limit:    cfg.Batch.Limit,
	}

	selection, err := feed.Collect(ctx, paginator, window)
	if err != nil {
		fatal("Failed to read the post feed", err)
	}

	if len(selection.Posts) == 0 {
		ui.PrintSuccess("Nothing to do: the selection window matched no posts")
		os.Exit(exitOK)
	}

	ui.PrintInfo("Posts selected", fmt.Sprintf("%d (skipped %d, %d pages fetched)",
		len(selection.Posts), selection.Skipped, selection.PagesFetched))

	if !cfg.Batch.DryRun && !hideYes {
		if !confirmRun(selection.Posts, target) {
			ui.PrintWarning("Aborted, nothing changed")
			os.Exit(exitOK)
		}
	}

	var pacer ratelimit.Pacer = ratelimit.NewNopPacer()
	if !cfg.Batch.DryRun {
		pacer, err = ratelimit.New(cfg.RateLimit.Strategy, cfg.Batch.Delay, cfg.RateLimit.MaxDelay)
		if err != nil {
			fatal("Invalid pacing configuration", err)
		}
	}

	progress := ui.NewProgressPrinter(cfg.UI.ProgressEnabled && !quiet)
	executor := batch.NewExecutor(client,
		batch.WithPacer(pacer),
		batch.WithLogger(log),
		batch.WithProgress(func(ev batch.ProgressEvent) {
			progress.Update(ev.Index, ev.Total, ev.Post.ID.String(), ev.Err, ev.DryRun)
		}),
	)

	summary := executor.Run(ctx, batch.Job{
		UserID:       userID,
		Posts:        selection.Posts,
		Target:       target,
		DryRun:       cfg.Batch.DryRun,
		Skipped:      selection.Skipped,
		PagesFetched: selection.PagesFetched,
		FeedTotal:    selection.Total,
	})
	progress.Finish()

	// The report always prints, even after an interrupt, so the user
	// can see exactly where the run stopped.
	fmt.Println()
	if err := summary.Render(os.Stdout); err != nil {
		ui.PrintError("Failed to render summary", err.Error())
	}

	if cfg.Report.Output != "" {
		if err := summary.WriteFile(cfg.Report.Output, cfg.Report.Format); err != nil {
			ui.PrintError("Failed to write report", err.Error())
		} else {
			ui.PrintInfo("Report written", cfg.Report.Output)
		}
	}
	if cfg.Report.Charts != "" {
		if err := summary.WriteChart(cfg.Report.Charts); err != nil {
			ui.PrintError("Failed to write chart report", err.Error())
		} else {
			ui.PrintInfo("Charts written", cfg.Report.Charts)
		}
	}

	if cfg.UI.NotificationsEnabled {
		notifier := ui.NewNotifier()
		if summary.Failed > 0 || summary.Interrupted {
			notifier.SendError("wbprivacy run finished",
				fmt.Sprintf("%d changed, %d failed", summary.Succeeded, summary.Failed))
		} else {
			notifier.SendNotification("wbprivacy run finished",
				fmt.Sprintf("%d posts changed", summary.Succeeded))
		}
	}

	if summary.Failed > 0 || summary.Interrupted {
		os.Exit(exitPartial)
	}
	os.Exit(exitOK)
}

// confirmRun previews the first posts of the selection and asks for an
// explicit go-ahead before anything is changed.
func confirmRun(posts []weibo.Post, target weibo.Visibility) bool {
	shown := posts
	if len(shown) > previewCount {
		shown = shown[:previewCount]
	}

	fmt.Println()
	ui.PrintHighlight("About to change:")
	for _, post := range shown {
		fmt.Printf("  %s  %s\n", post.ID, ui.Dim(post.Excerpt(50)))
	}
	if more := len(posts) - len(shown); more > 0 {
		fmt.Printf("  ... and %d more\n", more)
	}

	fmt.Printf("\nSet %d post(s) to %s (%s)? (y/N): ", len(posts), target, target.Description())
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y")
}
