package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the upstream data API host
	DefaultBaseURL = "https://api.theinstaviewer.com/api"

	appName   = "instaviewer"
	envPrefix = "INSTAVIEWER_"
)

// History backends
const (
	HistoryBackendFile      = "file"
	HistoryBackendEncrypted = "encrypted"
	HistoryBackendKeyring   = "keyring"
	HistoryBackendSQLite    = "sqlite"
	HistoryBackendNone      = "none"
)

// Download rate limiters
const (
	RateLimiterToken  = "token"
	RateLimiterWindow = "window"
)

// Config holds all configuration options for the viewer
type Config struct {
	// Upstream data API
	API APIConfig `yaml:"api" json:"api"`

	// Recent-search history storage
	History HistoryConfig `yaml:"history" json:"history"`

	// Media download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig holds settings for the upstream data API
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	// Headers are added to every request
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// HistoryConfig selects where recent searches are persisted
type HistoryConfig struct {
	Backend    string `yaml:"backend" json:"backend"`
	Path       string `yaml:"path" json:"path"`
	Passphrase string `yaml:"passphrase" json:"-"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	OutputDir           string `yaml:"output_dir" json:"output_dir"`
	CreateUserFolders   bool   `yaml:"create_user_folders" json:"create_user_folders"`
	ConcurrentDownloads int    `yaml:"concurrent_downloads" json:"concurrent_downloads"`
	RequestsPerMinute   int    `yaml:"requests_per_minute" json:"requests_per_minute"`
	RateLimiter         string `yaml:"rate_limiter" json:"rate_limiter"`
	WriteMetadata       bool   `yaml:"write_metadata" json:"write_metadata"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Desktop bool `yaml:"desktop" json:"desktop"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: "instaviewer/1.0 (+https://github.com/instaviewer/instaviewer)",
		},
		History: HistoryConfig{
			Backend: HistoryBackendFile,
		},
		Download: DownloadConfig{
			OutputDir:           "./downloads",
			CreateUserFolders:   true,
			ConcurrentDownloads: 3,
			RequestsPerMinute:   60,
			RateLimiter:         RateLimiterToken,
			WriteMetadata:       true,
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Desktop: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.API.Timeout = d
		}
	}

	// History
	if v := os.Getenv(envPrefix + "HISTORY_BACKEND"); v != "" {
		c.History.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv(envPrefix + "HISTORY_PASSPHRASE"); v != "" {
		c.History.Passphrase = v
	}

	// Downloads
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Download.OutputDir = v
	}
	if v := os.Getenv(envPrefix + "CONCURRENT_DOWNLOADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCONCURRENT_DOWNLOADS: %w", envPrefix, err))
		} else if n > 0 {
			c.Download.ConcurrentDownloads = n
		}
	}
	if v := os.Getenv(envPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", envPrefix, err))
		} else if n > 0 {
			c.Download.RequestsPerMinute = n
		}
	}
	if v := os.Getenv(envPrefix + "RATE_LIMITER"); v != "" {
		c.Download.RateLimiter = strings.ToLower(v)
	}

	if v := os.Getenv(envPrefix + "NOTIFICATIONS_ENABLED"); v != "" {
		c.Notifications.Enabled = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = findConfigFile()
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
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".instaviewer.yaml",
		".instaviewer.yml",
		filepath.Join(home, ".config", appName, "config.yaml"),
		filepath.Join(home, ".config", appName, "config.yml"),
		filepath.Join(home, ".instaviewer.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if c.API.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, errors.New("api base URL must be an absolute http(s) URL"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api timeout cannot be negative"))
	}

	switch c.History.Backend {
	case HistoryBackendFile, HistoryBackendKeyring, HistoryBackendSQLite, HistoryBackendNone:
	case HistoryBackendEncrypted:
		if c.History.Passphrase == "" {
			errs = append(errs, errors.New("encrypted history requires a passphrase"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid history backend %q", c.History.Backend))
	}

	if c.Download.ConcurrentDownloads <= 0 {
		errs = append(errs, errors.New("concurrent downloads must be positive"))
	}
	if c.Download.ConcurrentDownloads > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}
	if c.Download.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	switch c.Download.RateLimiter {
	case RateLimiterToken, RateLimiterWindow:
	default:
		errs = append(errs, fmt.Errorf("invalid rate limiter %q (token or window)", c.Download.RateLimiter))
	}
	if c.Download.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
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

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["api-url"].(string); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.API.Timeout = v
	}
	if v, ok := flags["history-backend"].(string); ok && v != "" {
		c.History.Backend = strings.ToLower(v)
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Download.OutputDir = v
	}
	if v, ok := flags["concurrent"].(int); ok && v > 0 {
		c.Download.ConcurrentDownloads = v
	}
	if v, ok := flags["rate-limit"].(int); ok && v > 0 {
		c.Download.RequestsPerMinute = v
	}
	if v, ok := flags["limiter"].(string); ok && v != "" {
		c.Download.RateLimiter = strings.ToLower(v)
	}
	if v, ok := flags["metadata"].(bool); ok {
		c.Download.WriteMetadata = v
	}
	if v, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file"].(string); ok && v != "" {
		c.Logging.File = v
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".instaviewer.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// DataDir returns the per-user data directory for the current OS, creating
// it if needed.
func DataDir() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", appName)
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, appName)
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
