// Package config provides configuration management for wallhaven_wallpaper
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/validator"
)

// Config holds application configuration. It is loaded once at startup and
// passed down by value or pointer; nothing mutates it afterwards.
type Config struct {
	// Search parameters
	Query      string     `yaml:"query"`
	Categories string     `yaml:"categories"`
	Purity     string     `yaml:"purity"`
	Ratios     StringList `yaml:"ratios"`
	AtLeast    string     `yaml:"atleast"`
	Sorting    string     `yaml:"sorting"`

	// Loop settings
	Interval    int `yaml:"interval"`
	MaxFiles    int `yaml:"max_files"`
	HistorySize int `yaml:"history_size"`

	// Paths
	DownloadDir string `yaml:"download_dir"`
	ScriptPath  string `yaml:"script"`
	StateFile   string `yaml:"state_file"`
	CatalogPath string `yaml:"catalog"`

	// Application settings
	LogLevel string `yaml:"log_level"`

	// Resolved at load time
	ConfigPath string `yaml:"-"`
	EnvFile    string `yaml:"-"`
	APIKey     string `yaml:"-"` // Never serialize API key
}

// StringList accepts either a comma separated scalar or a YAML sequence.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = splitList(value.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := value.Decode(&items); err != nil {
			return err
		}
		*s = splitList(strings.Join(items, ","))
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", value.Line)
	}
}

// String returns the comma joined form used by the search API.
func (s StringList) String() string {
	return strings.Join(s, ",")
}

func splitList(raw string) StringList {
	var out StringList
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		Sorting:     constants.DefaultSort,
		Interval:    constants.DefaultInterval,
		MaxFiles:    constants.DefaultMaxFiles,
		HistorySize: constants.DefaultHistorySize,
		DownloadDir: constants.DefaultDownloadDir,
		StateFile:   filepath.Join(filepath.Dir(constants.DefaultConfigPath), constants.StateFile),
		LogLevel:    constants.DefaultLogLevel,
	}
}

// Load reads the YAML config at path (the default location when empty),
// resolves paths and the API key, and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := LoadAPIKey(cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key
	return cfg, nil
}

// LoadFile is Load without the API key, for commands that never call the
// remote API.
func LoadFile(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = constants.DefaultConfigPath
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, resolved)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", errors.ErrInvalidConfig, resolved, err)
	}
	cfg.ConfigPath = resolved
	cfg.EnvFile = filepath.Join(filepath.Dir(resolved), constants.EnvFile)

	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAPIKey returns WALLHAVEN_API_KEY from the process environment, falling
// back to the dotenv file next to the config.
func LoadAPIKey(envFile string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(constants.APIKeyEnv)); key != "" {
		return key, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", envFile, err)
	}
	if key := strings.TrimSpace(values[constants.APIKeyEnv]); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w in environment or %s", errors.ErrMissingAPIKey, envFile)
}

func (c *Config) resolvePaths() error {
	var err error
	if c.DownloadDir, err = ExpandPath(c.DownloadDir); err != nil {
		return fmt.Errorf("%w: download_dir: %v", errors.ErrInvalidConfig, err)
	}
	if c.StateFile, err = ExpandPath(c.StateFile); err != nil {
		return fmt.Errorf("%w: state_file: %v", errors.ErrInvalidConfig, err)
	}
	switch strings.TrimSpace(c.CatalogPath) {
	case constants.CatalogDisabled:
	case "":
		c.CatalogPath = filepath.Join(filepath.Dir(c.StateFile), constants.CatalogFile)
	default:
		if c.CatalogPath, err = ExpandPath(c.CatalogPath); err != nil {
			return fmt.Errorf("%w: catalog: %v", errors.ErrInvalidConfig, err)
		}
	}
	if c.ScriptPath != "" {
		if c.ScriptPath, err = ExpandPath(c.ScriptPath); err != nil {
			return fmt.Errorf("%w: script: %v", errors.ErrInvalidConfig, err)
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	v := validator.NewValidator()
	validators := []func() error{
		func() error { return v.ValidateCategories(c.Categories) },
		func() error { return v.ValidatePurity(c.Purity) },
		func() error { return v.ValidateSort(c.Sorting) },
		func() error { return v.ValidateAtLeast(c.AtLeast) },
		func() error { return v.ValidateRatios(c.Ratios) },
		func() error { return v.ValidateInterval(c.Interval) },
		func() error { return v.ValidateHistorySize(c.HistorySize) },
		func() error { return v.ValidateMaxFiles(c.MaxFiles) },
		func() error { return v.ValidateLogLevel(c.LogLevel) },
		c.validatePaths,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validatePaths() error {
	if c.DownloadDir == "" {
		return errors.NewValidationError("download_dir", c.DownloadDir, "cannot be empty")
	}

	if c.ScriptPath != "" {
		if _, err := os.Stat(c.ScriptPath); os.IsNotExist(err) {
			return errors.NewValidationError("script", c.ScriptPath, "file does not exist")
		}
	}

	return nil
}

// PollInterval returns the sleep between cycles.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// SortOrder returns the configured sorting, defaulting to random.
func (c *Config) SortOrder() string {
	if c.Sorting == "" {
		return constants.DefaultSort
	}
	return c.Sorting
}

// CatalogEnabled reports whether applied wallpapers should be recorded.
func (c *Config) CatalogEnabled() bool {
	return c.CatalogPath != "" && c.CatalogPath != constants.CatalogDisabled
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
