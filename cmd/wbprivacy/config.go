package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wbprivacy/pkg/config"
	"wbprivacy/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage wbprivacy configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (WBPRIVACY_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'wbprivacy.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources.

Sensitive values like the session cookie are masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "wbprivacy.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(exitSetup)
	}

	exampleConfig := `# wbprivacy configuration file
#
# Every option can also be set with an environment variable prefixed
# with WBPRIVACY_, for example WBPRIVACY_COOKIE or WBPRIVACY_USER_ID.
# Command line flags override everything here.

# Account and HTTP settings
weibo:
  # Numeric account id, the number in https://weibo.com/u/<id>
  user_id: ""

  # Raw browser cookie. Prefer 'wbprivacy auth login' over putting the
  # cookie here; this file is stored in plain text.
  cookie: ""

  # Or a file containing only the cookie
  cookie_file: ""

  # Browser user agent sent with every request (empty = default)
  user_agent: ""

  # Per-request timeout
  timeout: 30s

# Batch run settings
batch:
  # Target visibility: public, friends, private or fans
  visibility: "friends"

  # Leave the newest N posts untouched
  skip: 0

  # Stop after N feed pages (0 = walk the whole feed)
  max_pages: 0

  # Change at most N posts (0 = no cap)
  limit: 0

  # Pause between visibility changes
  delay: 1s

  # Select and report but change nothing
  dry_run: false

# Pacing between visibility changes
rate_limit:
  # fixed: constant delay; backoff: delay doubles after failures
  strategy: "fixed"

  # Ceiling for the backoff strategy
  max_delay: 60s

  # Pause between feed page fetches
  page_interval: 1s

# Page-fetch retry policy. Off by default: every page is fetched once.
# Visibility changes are never retried regardless of these settings.
retry:
  enabled: false
  max_attempts: 3
  initial_backoff: 1s
  max_backoff: 30s
  multiplier: 2.0

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log format: text, json
  format: "text"

  # Log file path (empty = stderr only). File logs rotate.
  file: ""
  max_size: 100
  max_backups: 3
  max_age: 7
  compress: false

# Terminal output
ui:
  color_enabled: true
  progress_enabled: true
  notifications_enabled: false

# Run report export
report:
  # Write the run summary to this file after every run (empty = off)
  output: ""

  # Report format: text, json, yaml
  format: "text"

  # Write an HTML chart report to this file (empty = off)
  charts: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(exitSetup)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store a session with 'wbprivacy auth login' (or set weibo.cookie)")
	fmt.Println("2. Run 'wbprivacy config validate' to check the configuration")
	fmt.Println("3. Preview a run with 'wbprivacy hide --dry-run'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(exitSetup)
	}

	// Mask the cookie before anything is printed
	displayCfg := *cfg
	if displayCfg.Weibo.Cookie != "" {
		if len(displayCfg.Weibo.Cookie) > 8 {
			displayCfg.Weibo.Cookie = displayCfg.Weibo.Cookie[:4] + "..." + displayCfg.Weibo.Cookie[len(displayCfg.Weibo.Cookie)-4:]
		} else {
			displayCfg.Weibo.Cookie = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(exitSetup)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (WBPRIVACY_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			"wbprivacy.yaml",
			"wbprivacy.yml",
			".wbprivacy.yaml",
			".wbprivacy.yml",
			filepath.Join(os.Getenv("HOME"), ".wbprivacy.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "wbprivacy", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(exitSetup)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(exitSetup)
	}

	var warnings []string
	var errors []string

	// Credentials may come from the keyring at run time, so their absence
	// is a warning, not an error
	if cfg.Weibo.Cookie == "" && cfg.Weibo.CookieFile == "" {
		warnings = append(warnings, "no cookie configured; a stored account or --cookie will be needed")
	}
	if cfg.Weibo.UserID == "" {
		warnings = append(warnings, "no user id configured; a stored account or --user-id will be needed")
	}

	if cfg.Weibo.CookieFile != "" {
		if _, err := os.Stat(cfg.Weibo.CookieFile); err != nil {
			errors = append(errors, fmt.Sprintf("cookie file not readable: %v", err))
		}
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(exitSetup)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Target visibility: %s\n", cfg.Batch.Visibility)
	fmt.Printf("  Delay between changes: %s\n", cfg.Batch.Delay)
	fmt.Printf("  Pacing strategy: %s\n", cfg.RateLimit.Strategy)
	fmt.Printf("  Page retry: %v\n", cfg.Retry.Enabled)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
