package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"combosearch/internal/eventbus"
)

// Source kinds
const (
	SourceOffset = "offset" // offset/limit pagination, bare array responses
	SourcePage   = "page"   // page-number pagination, envelope with next pointer
)

// UI variants
const (
	VariantManual   = "manual"
	VariantCombobox = "combobox"
)

// Config represents the application configuration
type Config struct {
	Version int          `toml:"version"`
	Source  SourceConfig `toml:"source"`
	Search  SearchConfig `toml:"search"`
	Client  ClientConfig `toml:"client"`
	UI      UISettings   `toml:"ui"`
	Log     LogConfig    `toml:"log"`
}

// SourceConfig selects the catalog endpoint and its pagination protocol
type SourceConfig struct {
	Kind     string `toml:"kind"`
	BaseURL  string `toml:"base_url"`
	PageSize int    `toml:"page_size"`
}

// SearchConfig holds the incremental search timings and policies
type SearchConfig struct {
	DebounceMs      int  `toml:"debounce_ms"`
	MinQueryLength  int  `toml:"min_query_length"`
	BlurDelayMs     int  `toml:"blur_delay_ms"`
	PreloadOnOpen   bool `toml:"preload_on_open"`
	CacheTTLSeconds int  `toml:"cache_ttl_seconds"`
}

// ClientConfig configures the HTTP client used by the pagers
type ClientConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	Retries           int     `toml:"retries"`
	UserAgent         string  `toml:"user_agent"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Variant         string `toml:"variant"`
	MaxVisibleItems int    `toml:"max_visible_items"`
	Placeholder     string `toml:"placeholder"`
}

// LogConfig configures the log file
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Debounce returns the debounce quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// BlurDelay returns the grace delay before closing on focus loss
func (c *Config) BlurDelay() time.Duration {
	return time.Duration(c.Search.BlurDelayMs) * time.Millisecond
}

// CacheTTL returns how long fetched pages stay cached
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Search.CacheTTLSeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Client.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	switch c.Source.Kind {
	case SourceOffset, SourcePage:
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}
	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("source base_url is empty"))
	}
	if c.Source.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page_size must be positive, got %d", c.Source.PageSize))
	}
	if c.Search.DebounceMs < 0 || c.Search.BlurDelayMs < 0 || c.Search.CacheTTLSeconds < 0 {
		errs = append(errs, errors.New("search timings must not be negative"))
	}
	if c.Search.MinQueryLength < 0 {
		errs = append(errs, fmt.Errorf("min_query_length must not be negative, got %d", c.Search.MinQueryLength))
	}
	switch c.UI.Variant {
	case VariantManual, VariantCombobox:
	default:
		errs = append(errs, fmt.Errorf("unknown ui variant %q", c.UI.Variant))
	}
	if c.UI.MaxVisibleItems <= 0 {
		errs = append(errs, fmt.Errorf("max_visible_items must be positive, got %d", c.UI.MaxVisibleItems))
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

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service for path that publishes
// load and save events. An empty path selects the default location.
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{
		bus:      bus,
		filePath: path,
	}
}

// DefaultPath returns the user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "combosearch", "config.toml")
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service path. A missing file yields
// the defaults.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:   cs.filePath,
			Source: cfg.Source.Kind,
		})
	}
	return cfg, nil
}

// Save saves the configuration to the service path
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values. The result is not validated, so
// command line overrides can still fix it; call Validate once they apply.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
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

// DefaultConfig returns the default configuration: the product catalog with
// offset pagination and the combobox variant.
func DefaultConfig() *Config {
	logDir, err := os.UserCacheDir()
	if err != nil {
		logDir = os.TempDir()
	}

	return &Config{
		Version: 1,
		Source: SourceConfig{
			Kind:     SourceOffset,
			BaseURL:  "https://api.escuelajs.co/api/v1/products",
			PageSize: 10,
		},
		Search: SearchConfig{
			DebounceMs:      300,
			MinQueryLength:  1,
			BlurDelayMs:     200,
			PreloadOnOpen:   true,
			CacheTTLSeconds: 30,
		},
		Client: ClientConfig{
			TimeoutSeconds:    10,
			RequestsPerSecond: 5,
			Burst:             2,
			Retries:           1,
			UserAgent:         "combosearch/1.0",
		},
		UI: UISettings{
			Variant:         VariantCombobox,
			MaxVisibleItems: 6,
			Placeholder:     "Search for items (e.g. 'shirt', 'shoes', 'watch')...",
		},
		Log: LogConfig{
			File:  filepath.Join(logDir, "combosearch", "combosearch.log"),
			Level: "info",
		},
	}
}

// Overrides are command line settings layered over the file. Empty fields
// keep the file value.
type Overrides struct {
	Source  string
	Variant string
	BaseURL string
	Debug   bool
}

// Apply returns a copy of cfg with the overrides set. cfg itself is left
// untouched so it can still be saved as loaded.
func (o Overrides) Apply(cfg *Config) *Config {
	out := *cfg
	if o.Source != "" && o.Source != out.Source.Kind {
		switch o.Source {
		case SourcePage:
			out.Source = CharacterSource()
		default:
			out.Source = DefaultConfig().Source
			out.Source.Kind = o.Source
		}
	}
	if o.Variant != "" {
		out.UI.Variant = o.Variant
	}
	if o.BaseURL != "" {
		out.Source.BaseURL = o.BaseURL
	}
	if o.Debug {
		out.Log.Level = "debug"
	}
	return &out
}

// CharacterSource returns the source settings for the character catalog,
// which uses page-number pagination with a fixed server page size.
func CharacterSource() SourceConfig {
	return SourceConfig{
		Kind:     SourcePage,
		BaseURL:  "https://rickandmortyapi.com/api/character/",
		PageSize: 20,
	}
}
