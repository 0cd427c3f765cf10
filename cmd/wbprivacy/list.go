package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wbprivacy/pkg/config"
	"wbprivacy/pkg/feed"
	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/ratelimit"
	"wbprivacy/pkg/report"
	"wbprivacy/pkg/retry"
	"wbprivacy/pkg/ui"
	"wbprivacy/pkg/weibo"
)

var (
	// List command flags
	listUserID     string
	listCookie     string
	listCookieFile string
	listAccount    string
	listSkip       int
	listMaxPages   int
	listLimit      int
	listOutput     string
	listFormat     string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your posts with their current visibility",
	Long: `Fetch pages of your post feed and print each post's id, current
visibility, repost marker and a text excerpt. Nothing is changed.

This is the sanity check before a hide run: it uses the same session,
the same feed walk and the same selection window.`,
	Example: `  # Show the newest page of posts
  wbprivacy list

  # Walk the whole feed and save it as JSON
  wbprivacy list --max-pages 0 --output posts.json --format json`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listUserID, "user-id", "u", "", "numeric Weibo account id (or profile URL)")
	listCmd.Flags().StringVar(&listCookie, "cookie", "", "raw browser cookie for the account")
	listCmd.Flags().StringVar(&listCookieFile, "cookie-file", "", "file containing the raw cookie")
	listCmd.Flags().StringVarP(&listAccount, "account", "a", "", "use a specific stored account")
	listCmd.Flags().IntVar(&listSkip, "skip", 0, "skip the newest N posts")
	listCmd.Flags().IntVar(&listMaxPages, "max-pages", 1, "stop after N feed pages (0 = all)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "list at most N posts (0 = no cap)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "", "write the listing to this file instead of stdout")
	listCmd.Flags().StringVar(&listFormat, "format", "", "listing format: text, json or yaml")
}

func runList(cmd *cobra.Command, args []string) {
	flags := globalFlags(cmd)
	if listUserID != "" {
		flags["user-id"] = listUserID
	}
	if listCookie != "" {
		flags["cookie"] = listCookie
	}
	if listCookieFile != "" {
		flags["cookie-file"] = listCookieFile
	}
	if cmd.Flags().Changed("skip") {
		flags["skip"] = listSkip
	}
	// The default window for listing is one page, not the whole feed
	flags["max-pages"] = listMaxPages
	if cmd.Flags().Changed("limit") {
		flags["limit"] = listLimit
	}
	if listFormat != "" {
		flags["format"] = listFormat
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(exitSetup)
	}

	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()

	session, userID, err := resolveSession(cfg, listAccount)
	if err != nil {
		fatal("Cannot authenticate", err)
	}

	ctx, stop := signalContext()
	defer stop()

	client := weibo.NewClientWithConfig(session, &cfg.Weibo, log)

	pagOpts := []feed.Option{
		feed.WithLogger(log),
		feed.WithPacer(ratelimit.NewFixedPacer(cfg.RateLimit.PageInterval)),
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
		ui.PrintWarning("No posts in the selected window")
		os.Exit(exitOK)
	}

	if listOutput != "" {
		if err := report.WritePosts(listOutput, cfg.Report.Format, selection.Posts); err != nil {
			fatal("Failed to write listing", err)
		}
		ui.PrintSuccess(fmt.Sprintf("Wrote %d posts to %s", len(selection.Posts), listOutput))
		os.Exit(exitOK)
	}

	if err := report.RenderPosts(os.Stdout, selection.Posts); err != nil {
		ui.PrintError("Failed to render listing", err.Error())
		os.Exit(exitPartial)
	}
	if selection.Total > 0 {
		ui.PrintInfo("Feed total", fmt.Sprintf("%d posts, showing %d", selection.Total, len(selection.Posts)))
	}
}
