package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"wbprivacy/pkg/ui"
)

// Exit codes. Fatal setup errors (bad config, missing token, unreachable
// feed) use a distinct code so scripts can tell them apart from a run
// that completed with per-post failures.
const (
	exitOK      = 0
	exitPartial = 1
	exitSetup   = 2
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wbprivacy",
	Short: "Bulk-change the visibility of your Weibo posts",
	Long: `wbprivacy walks your Weibo post feed and changes who can see each post,
one post at a time, with a configurable pause between requests.

It authenticates with the cookie of a logged-in browser session. Store one
with 'wbprivacy auth login', or pass it per run with --cookie/--cookie-file.

Typical flow:
  1. wbprivacy auth login
  2. wbprivacy list --max-pages 1          (sanity-check what it sees)
  3. wbprivacy hide --dry-run              (preview the full run)
  4. wbprivacy hide --visibility friends   (do it)

Nothing is changed without a confirmation prompt unless --yes is given.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.SetColorEnabled(false)
		}
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitSetup)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is wbprivacy.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "equivalent to --log-level debug")

	// Version template
	rootCmd.SetVersionTemplate(`wbprivacy {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags collects the persistent flags that feed into config loading.
// Only flags the user actually set are included, so config file and env
// values survive when a flag is left at its default.
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})

	level := logLevel
	if verbose {
		level = "debug"
	}
	if level != "" {
		flags["log-level"] = level
	}
	if noColor {
		flags["no-color"] = true
	}

	return flags
}
