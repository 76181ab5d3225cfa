package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"wikipath/internal/domain"
	"wikipath/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version      int                  `toml:"version"`
	LogFile      string               `toml:"log_file"`
	Server       ServerSettings       `toml:"server"`
	Search       SearchSettings       `toml:"search"`
	Autocomplete AutocompleteSettings `toml:"autocomplete"`
	Run          RunSettings          `toml:"run"`
	UISettings   UISettings           `toml:"ui"`
}

// ServerSettings describes the path-search service
type ServerSettings struct {
	URL string `toml:"url"`
	// 0 disables the client-side timeout for /run; the server enforces time_limit itself
	RunTimeoutSeconds          int `toml:"run_timeout_seconds"`
	AutocompleteTimeoutSeconds int `toml:"autocomplete_timeout_seconds"`
	CancelTimeoutSeconds       int `toml:"cancel_timeout_seconds"`
}

// SearchSettings are the defaults prefilled into the form
type SearchSettings struct {
	K         int    `toml:"k"`
	TimeLimit int    `toml:"time_limit"`
	MaxDepth  int    `toml:"max_depth"`
	Start     string `toml:"start"`
	End       string `toml:"end"`
}

// AutocompleteSettings tunes the suggestion lookups
type AutocompleteSettings struct {
	MinQueryLength int `toml:"min_query_length"`
	MaxSuggestions int `toml:"max_suggestions"` // 0 keeps everything the server returns
}

// RunSettings tunes the run controller
type RunSettings struct {
	Resubmit string `toml:"resubmit"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	WikiBaseURL string `toml:"wiki_base_url"`
	Hyperlinks  bool   `toml:"hyperlinks"`
	Mouse       bool   `toml:"mouse"`
}

// RunTimeout returns the /run timeout, 0 meaning none
func (s ServerSettings) RunTimeout() time.Duration {
	return time.Duration(s.RunTimeoutSeconds) * time.Second
}

// AutocompleteTimeout returns the /autocomplete timeout
func (s ServerSettings) AutocompleteTimeout() time.Duration {
	return time.Duration(s.AutocompleteTimeoutSeconds) * time.Second
}

// CancelTimeout bounds the fire-and-forget /cancel notice
func (s ServerSettings) CancelTimeout() time.Duration {
	return time.Duration(s.CancelTimeoutSeconds) * time.Second
}

// Validate checks values a user could have broken by hand-editing the file
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.url %q is not an absolute URL", c.Server.URL))
	}
	if c.Autocomplete.MinQueryLength < domain.MinQueryLength {
		errs = append(errs, fmt.Errorf("autocomplete.min_query_length must be at least %d, got %d", domain.MinQueryLength, c.Autocomplete.MinQueryLength))
	}
	if c.Autocomplete.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("autocomplete.max_suggestions must not be negative"))
	}
	switch c.Run.Resubmit {
	case domain.ResubmitIgnore, domain.ResubmitRestart:
	default:
		errs = append(errs, fmt.Errorf("run.resubmit must be %q or %q, got %q", domain.ResubmitIgnore, domain.ResubmitRestart, c.Run.Resubmit))
	}
	if c.Search.K < 1 || c.Search.TimeLimit < 1 || c.Search.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("search.k, search.time_limit and search.max_depth must be positive"))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service for the per-user config file
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "wikipath", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service bound to an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus attaches an event bus to a config service
func WithBus(cs ConfigService, bus eventbus.EventBus) ConfigService {
	if c, ok := cs.(*configService); ok {
		c.bus = bus
	}
	return cs
}

// Path returns the file Load and Save operate on
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{ServerURL: cfg.Server.URL})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path.
// Keys missing from the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		LogFile: "wikipath.log",
		Server: ServerSettings{
			URL:                        "http://127.0.0.1:5000",
			RunTimeoutSeconds:          0,
			AutocompleteTimeoutSeconds: 10,
			CancelTimeoutSeconds:       5,
		},
		Search: SearchSettings{
			K:         5,
			TimeLimit: 60,
			MaxDepth:  6,
		},
		Autocomplete: AutocompleteSettings{
			MinQueryLength: 2,
			MaxSuggestions: 0,
		},
		Run: RunSettings{
			Resubmit: domain.ResubmitIgnore,
		},
		UISettings: UISettings{
			WikiBaseURL: "https://en.wikipedia.org/wiki/",
			Hyperlinks:  true,
			Mouse:       true,
		},
	}
}
