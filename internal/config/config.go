// Package config loads jira-tui settings from a dotenv file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variable names.
const (
	BaseURLEnv         = "JIRA_BASE_URL"
	EmailEnv           = "JIRA_EMAIL"
	APITokenEnv        = "JIRA_API_TOKEN"
	PageSizeEnv        = "JIRA_TUI_PAGE_SIZE"
	WorklogPageSizeEnv = "JIRA_TUI_WORKLOG_PAGE_SIZE"
	TimeoutEnv         = "JIRA_TUI_TIMEOUT"
	LogFileEnv         = "JIRA_TUI_LOG_FILE"
	LogLevelEnv        = "JIRA_TUI_LOG_LEVEL"
)

const (
	DefaultEnvFile         = ".env"
	DefaultPageSize        = 20
	DefaultWorklogPageSize = 50
	DefaultTimeout         = 30 * time.Second
	DefaultLogLevel        = "warning"
	DefaultTickRate        = 250 * time.Millisecond

	maxPageSize = 100
	minTimeout  = time.Second
)

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing configuration")

// Config holds the resolved settings. It is immutable after Load returns.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string

	PageSize        int
	WorklogPageSize int
	Timeout         time.Duration
	TickRate        time.Duration

	LogFile  string
	LogLevel string
}

// Options control where Load reads from. Non-empty LogFile and LogLevel
// override the file and the environment.
type Options struct {
	EnvFile  string
	LogFile  string
	LogLevel string
}

// LoadFromEnv loads configuration from ./.env (if present) and the environment.
func LoadFromEnv() (Config, error) {
	return Load(Options{EnvFile: DefaultEnvFile})
}

// Load reads the dotenv file named by opts.EnvFile, lets environment variables
// override it, applies defaults and validates the result.
func Load(opts Options) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	keys := []string{
		BaseURLEnv, EmailEnv, APITokenEnv,
		PageSizeEnv, WorklogPageSizeEnv, TimeoutEnv,
		LogFileEnv, LogLevelEnv,
	}
	for _, env := range keys {
		_ = v.BindEnv(key(env), env)
	}

	v.SetDefault(key(PageSizeEnv), DefaultPageSize)
	v.SetDefault(key(WorklogPageSizeEnv), DefaultWorklogPageSize)
	v.SetDefault(key(TimeoutEnv), DefaultTimeout.String())
	v.SetDefault(key(LogFileEnv), DefaultLogFile())
	v.SetDefault(key(LogLevelEnv), DefaultLogLevel)

	if opts.EnvFile != "" {
		if _, err := os.Stat(opts.EnvFile); err == nil {
			v.SetConfigFile(opts.EnvFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read %s: %w", opts.EnvFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", opts.EnvFile, err)
		}
	}

	timeout, err := parseTimeout(v.GetString(key(TimeoutEnv)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:         strings.TrimRight(strings.TrimSpace(v.GetString(key(BaseURLEnv))), "/"),
		Email:           strings.TrimSpace(v.GetString(key(EmailEnv))),
		APIToken:        strings.TrimSpace(v.GetString(key(APITokenEnv))),
		PageSize:        clampPageSize(v.GetInt(key(PageSizeEnv)), DefaultPageSize),
		WorklogPageSize: clampPageSize(v.GetInt(key(WorklogPageSizeEnv)), DefaultWorklogPageSize),
		Timeout:         timeout,
		TickRate:        DefaultTickRate,
		LogFile:         v.GetString(key(LogFileEnv)),
		LogLevel:        strings.ToLower(v.GetString(key(LogLevelEnv))),
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(opts.LogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing required variable at once.
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, BaseURLEnv)
	}
	if c.Email == "" {
		missing = append(missing, EmailEnv)
	}
	if c.APIToken == "" {
		missing = append(missing, APITokenEnv)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("invalid %s %q: must start with http:// or https://", BaseURLEnv, c.BaseURL)
	}
	return nil
}

// RequiredEnv lists the variables that must be set.
func RequiredEnv() []string {
	return []string{BaseURLEnv, EmailEnv, APITokenEnv}
}

// DefaultLogFile returns the log path under the user cache directory, or an
// empty string when no cache directory is available.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jira-tui", "jira-tui.log")
}

// key maps an environment variable to the viper key used for it. Dotenv files
// are read with lower-cased keys.
func key(env string) string {
	return strings.ToLower(env)
}

// parseTimeout accepts a Go duration ("45s", "1m30s") or a bare number of
// seconds. Empty means the default.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeout, nil
	}
	var d time.Duration
	if n, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(raw); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", TimeoutEnv, raw, err)
	}
	if d < minTimeout {
		return 0, fmt.Errorf("invalid %s %q: must be at least %s", TimeoutEnv, raw, minTimeout)
	}
	return d, nil
}

func clampPageSize(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}
