package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSchemaDir = "00 - Set Index/card_data_schemas"
	DefaultPattern   = "*.json"
	DefaultLogLevel  = "error"
)

// Set is one card set directory to validate
type Set struct {
	Name string `toml:"name,omitempty" json:"name" yaml:"name"`
	Path string `toml:"path" json:"path" yaml:"path"`
}

// Config represents the application configuration
type Config struct {
	BaseDir string `toml:"base_dir"`
	// SchemaDir is relative to BaseDir; empty selects the embedded schemas
	SchemaDir string `toml:"schema_dir"`
	Pattern   string `toml:"pattern"`
	LogLevel  string `toml:"log_level"`
	Sets      []Set  `toml:"sets"`
}

// DefaultSets are the WotC-era sets in collection order
func DefaultSets() []Set {
	names := []string{
		"01 - Base Set 1 (BS)",
		"02 - Jungle (JU)",
		"03 - Fossil (FO)",
		"04 - Base Set 2 (B2)",
		"05 - Team Rocket (RO)",
	}
	sets := make([]Set, 0, len(names))
	for _, name := range names {
		sets = append(sets, Set{Name: name, Path: filepath.Join(name, "card_details")})
	}
	return sets
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		BaseDir:   ".",
		SchemaDir: DefaultSchemaDir,
		Pattern:   DefaultPattern,
		LogLevel:  DefaultLogLevel,
		Sets:      DefaultSets(),
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardcheck", "config.toml")
}

// LoadConfig loads the config file at path, or the default location when
// path is empty. A missing file yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	config := Default()
	config.Sets = nil
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if !md.IsDefined("sets") {
		config.Sets = DefaultSets()
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = "."
	}
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Init writes the default config file unless one already exists, and
// returns the configuration stored at path
func Init(path string) (*Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}
	if _, err := os.Stat(path); err == nil {
		return LoadConfig(path)
	}

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return config, nil
}

// ResolveBaseDir returns BaseDir as an absolute path
func (c *Config) ResolveBaseDir() (string, error) {
	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return "", fmt.Errorf("error resolving base directory: %w", err)
	}
	return base, nil
}

// ResolveSchemaDir returns the schema directory relative to the base dir,
// or "" when the embedded schemas should be used
func (c *Config) ResolveSchemaDir() (string, error) {
	if c.SchemaDir == "" {
		return "", nil
	}
	if filepath.IsAbs(c.SchemaDir) {
		return c.SchemaDir, nil
	}
	base, err := c.ResolveBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, c.SchemaDir), nil
}

// ResolveSets returns the configured sets with absolute paths and names
func (c *Config) ResolveSets() ([]Set, error) {
	base, err := c.ResolveBaseDir()
	if err != nil {
		return nil, err
	}

	sets := make([]Set, 0, len(c.Sets))
	for _, s := range c.Sets {
		dir := s.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		name := s.Name
		if name == "" {
			name = SetName(dir)
		}
		sets = append(sets, Set{Name: name, Path: dir})
	}
	return sets, nil
}

// SetName derives a set name from its directory. Card files usually live
// in a card_details folder under the set folder.
func SetName(dir string) string {
	dir = filepath.Clean(dir)
	if filepath.Base(dir) == "card_details" {
		return filepath.Base(filepath.Dir(dir))
	}
	return filepath.Base(dir)
}
