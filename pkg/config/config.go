package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Weibo privacy tool
type Config struct {
	// Weibo account and HTTP settings
	Weibo WeiboConfig `yaml:"weibo" json:"weibo"`

	// Batch run settings
	Batch BatchConfig `yaml:"batch" json:"batch"`

	// Pacing between mutation calls
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Page-fetch retry policy (off by default)
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal output preferences
	UI UIConfig `yaml:"ui" json:"ui"`

	// Run report export
	Report ReportConfig `yaml:"report" json:"report"`
}

// WeiboConfig holds account credentials and client settings
type WeiboConfig struct {
	UserID     string        `yaml:"user_id" json:"user_id"`
	Cookie     string        `yaml:"cookie" json:"cookie"`
	CookieFile string        `yaml:"cookie_file" json:"cookie_file"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// BatchConfig holds the windowing and mutation-loop settings
type BatchConfig struct {
	Visibility string        `yaml:"visibility" json:"visibility"`
	Skip       int           `yaml:"skip" json:"skip"`
	MaxPages   int           `yaml:"max_pages" json:"max_pages"`
	Limit      int           `yaml:"limit" json:"limit"`
	Delay      time.Duration `yaml:"delay" json:"delay"`
	DryRun     bool          `yaml:"dry_run" json:"dry_run"`
}

// RateLimitConfig selects the pacing strategy between mutation calls.
// Strategy "fixed" waits Batch.Delay after every item; "backoff" doubles
// the pause after consecutive failures up to MaxDelay.
type RateLimitConfig struct {
	Strategy     string        `yaml:"strategy" json:"strategy"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	PageInterval time.Duration `yaml:"page_interval" json:"page_interval"`
}

// RetryConfig holds the opt-in page-fetch retry policy. Mutations are
// never retried regardless of these settings.
type RetryConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled"`
	MaxAttempts    int           `yaml:"max_attempts" json:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff" json:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff" json:"max_backoff"`
	Multiplier     float64       `yaml:"multiplier" json:"multiplier"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// UIConfig holds terminal output preferences
type UIConfig struct {
	ColorEnabled         bool `yaml:"color_enabled" json:"color_enabled"`
	ProgressEnabled      bool `yaml:"progress_enabled" json:"progress_enabled"`
	NotificationsEnabled bool `yaml:"notifications_enabled" json:"notifications_enabled"`
}

// ReportConfig holds run report export settings
type ReportConfig struct {
	Output string `yaml:"output" json:"output"`
	Format string `yaml:"format" json:"format"`
	Charts string `yaml:"charts" json:"charts"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Weibo: WeiboConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			Timeout:   30 * time.Second,
		},
		Batch: BatchConfig{
			Visibility: "friends",
			Skip:       0,
			MaxPages:   0, // 0 means until the feed is exhausted
			Limit:      0, // 0 means no cap
			Delay:      1 * time.Second,
			DryRun:     false,
		},
		RateLimit: RateLimitConfig{
			Strategy:     "fixed",
			MaxDelay:     60 * time.Second,
			PageInterval: 1 * time.Second,
		},
		Retry: RetryConfig{
			Enabled:        false, // single attempt per page by default
			MaxAttempts:    3,
			InitialBackoff: 1 * time.Second,
			MaxBackoff:     30 * time.Second,
			Multiplier:     2.0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
		UI: UIConfig{
			ColorEnabled:         true,
			ProgressEnabled:      true,
			NotificationsEnabled: false,
		},
		Report: ReportConfig{
			Format: "text",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if userID := os.Getenv("WBPRIVACY_USER_ID"); userID != "" {
		c.Weibo.UserID = userID
	}
	if cookie := os.Getenv("WBPRIVACY_COOKIE"); cookie != "" {
		c.Weibo.Cookie = cookie
	}
	if cookieFile := os.Getenv("WBPRIVACY_COOKIE_FILE"); cookieFile != "" {
		c.Weibo.CookieFile = cookieFile
	}
	if userAgent := os.Getenv("WBPRIVACY_USER_AGENT"); userAgent != "" {
		c.Weibo.UserAgent = userAgent
	}

	if visibility := os.Getenv("WBPRIVACY_VISIBILITY"); visibility != "" {
		c.Batch.Visibility = visibility
	}
	if delay := os.Getenv("WBPRIVACY_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil {
			c.Batch.Delay = d
		} else {
			var seconds int
			fmt.Sscanf(delay, "%d", &seconds)
			if seconds >= 0 {
				c.Batch.Delay = time.Duration(seconds) * time.Second
			}
		}
	}
	if skip := os.Getenv("WBPRIVACY_SKIP"); skip != "" {
		var val int
		fmt.Sscanf(skip, "%d", &val)
		if val > 0 {
			c.Batch.Skip = val
		}
	}
	if maxPages := os.Getenv("WBPRIVACY_MAX_PAGES"); maxPages != "" {
		var val int
		fmt.Sscanf(maxPages, "%d", &val)
		if val > 0 {
			c.Batch.MaxPages = val
		}
	}

	if logLevel := os.Getenv("WBPRIVACY_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("WBPRIVACY_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
	if logFile := os.Getenv("WBPRIVACY_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	// NO_COLOR is the conventional cross-tool switch
	if noColor := os.Getenv("NO_COLOR"); noColor != "" {
		c.UI.ColorEnabled = false
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		"wbprivacy.yaml",
		"wbprivacy.yml",
		".wbprivacy.yaml",
		".wbprivacy.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "wbprivacy", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "wbprivacy", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".wbprivacy.yaml"),
		filepath.Join(os.Getenv("HOME"), ".wbprivacy.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are not
// required here: the cookie and user id may arrive later from a stored
// account or a flag, and are checked by the command that needs them.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Batch.Visibility) {
	case "public", "friends", "private", "fans":
	default:
		errs = append(errs, fmt.Errorf("invalid visibility %q (want public, friends, private or fans)", c.Batch.Visibility))
	}

	if c.Batch.Skip < 0 {
		errs = append(errs, errors.New("skip cannot be negative"))
	}
	if c.Batch.MaxPages < 0 {
		errs = append(errs, errors.New("max pages cannot be negative"))
	}
	if c.Batch.Limit < 0 {
		errs = append(errs, errors.New("limit cannot be negative"))
	}
	if c.Batch.Delay < 0 {
		errs = append(errs, errors.New("delay cannot be negative"))
	}
	if c.Batch.Delay > time.Hour {
		errs = append(errs, errors.New("delay should not exceed one hour"))
	}

	if c.Weibo.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	switch strings.ToLower(c.RateLimit.Strategy) {
	case "fixed", "backoff":
	default:
		errs = append(errs, fmt.Errorf("invalid rate limit strategy %q (want fixed or backoff)", c.RateLimit.Strategy))
	}
	if c.RateLimit.MaxDelay <= 0 {
		errs = append(errs, errors.New("rate limit max delay must be positive"))
	}

	if c.Retry.Enabled {
		if c.Retry.MaxAttempts < 1 || c.Retry.MaxAttempts > 10 {
			errs = append(errs, errors.New("retry max attempts must be between 1 and 10"))
		}
		if c.Retry.InitialBackoff <= 0 {
			errs = append(errs, errors.New("retry initial backoff must be positive"))
		}
		if c.Retry.Multiplier < 1 {
			errs = append(errs, errors.New("retry multiplier must be at least 1"))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format))
	}

	switch strings.ToLower(c.Report.Format) {
	case "text", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("invalid report format %q (want text, json or yaml)", c.Report.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold a session cookie
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied, so callers should insert
// nothing for flags the user did not set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if userID, ok := flags["user-id"].(string); ok && userID != "" {
		c.Weibo.UserID = userID
	}
	if cookie, ok := flags["cookie"].(string); ok && cookie != "" {
		c.Weibo.Cookie = cookie
	}
	if cookieFile, ok := flags["cookie-file"].(string); ok && cookieFile != "" {
		c.Weibo.CookieFile = cookieFile
	}

	if visibility, ok := flags["visibility"].(string); ok && visibility != "" {
		c.Batch.Visibility = visibility
	}
	if skip, ok := flags["skip"].(int); ok && skip >= 0 {
		c.Batch.Skip = skip
	}
	if maxPages, ok := flags["max-pages"].(int); ok && maxPages >= 0 {
		c.Batch.MaxPages = maxPages
	}
	if limit, ok := flags["limit"].(int); ok && limit >= 0 {
		c.Batch.Limit = limit
	}
	if delay, ok := flags["delay"].(int); ok && delay >= 0 {
		c.Batch.Delay = time.Duration(delay) * time.Second
	}
	if dryRun, ok := flags["dry-run"].(bool); ok {
		c.Batch.DryRun = dryRun
	}

	if strategy, ok := flags["pacing"].(string); ok && strategy != "" {
		c.RateLimit.Strategy = strategy
	}
	if retryEnabled, ok := flags["retry"].(bool); ok {
		c.Retry.Enabled = retryEnabled
	}

	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	if noColor, ok := flags["no-color"].(bool); ok && noColor {
		c.UI.ColorEnabled = false
	}

	if output, ok := flags["output"].(string); ok && output != "" {
		c.Report.Output = output
	}
	if format, ok := flags["format"].(string); ok && format != "" {
		c.Report.Format = format
	}
	if charts, ok := flags["charts"].(string); ok && charts != "" {
		c.Report.Charts = charts
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wbprivacy.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
