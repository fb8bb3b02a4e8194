// Package config loads the editor's optional YAML configuration.
//
// The file is named by the --config flag or the VOIDMAP_CONFIG environment
// variable. There is no discovery: without either, defaults apply.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no --config flag
// is given.
const EnvPath = "VOIDMAP_CONFIG"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the editor configuration.
type Config struct {
	// StorePath is the encrypted store used when none is given on the
	// command line. ${VAR} references and a leading ~/ are expanded.
	StorePath string `yaml:"store_path"`

	// LogLines is how many recent log lines the log panel shows.
	LogLines int `yaml:"log_lines"`

	// LogLevel is the minimum level written to the log panel and log file.
	LogLevel string `yaml:"log_level"`

	// LogFile, when set, receives every log record as JSON.
	LogFile string `yaml:"log_file"`

	Keys Keys `yaml:"keys"`
}

// Keys lists the key strings bound to each editor action, in the names
// bubbletea reports ("enter", "ctrl+s", "alt+esc", ...).
type Keys struct {
	Toggle    []string `yaml:"toggle"`
	Child     []string `yaml:"child"`
	Delete    []string `yaml:"delete"`
	Backspace []string `yaml:"backspace"`
	Save      []string `yaml:"save"`
	Exit      []string `yaml:"exit"`
	Copy      []string `yaml:"copy"`
	Help      []string `yaml:"help"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StorePath: "~/.void.db",
		LogLines:  5,
		LogLevel:  "info",
		Keys: Keys{
			Toggle:    []string{"enter"},
			Child:     []string{"tab"},
			Delete:    []string{"delete"},
			Backspace: []string{"backspace"},
			Save:      []string{"ctrl+s"},
			Exit:      []string{"esc", "alt+esc", "ctrl+c"},
			Copy:      []string{"ctrl+y"},
			Help:      []string{"f1"},
		},
	}
}

// Resolve loads flagPath if set, else the file named by VOIDMAP_CONFIG, else
// returns the defaults.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		cfg := Default()
		cfg.expand()
		return cfg, nil
	}
	return Load(path)
}

// Load reads path over the defaults and validates the result. Bindings
// present in the file replace the default list for that action.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// expand resolves environment references and ~/ in file paths.
func (c *Config) expand() {
	c.StorePath = ExpandPath(c.StorePath)
	c.LogFile = ExpandPath(c.LogFile)
}

// ExpandPath resolves ${VAR} references and a leading ~/ in path.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return path
}

// Validate checks ranges, the log level, and that no key is bound to two
// actions.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("%w: store_path is empty", ErrInvalidConfig)
	}
	if c.LogLines < 1 || c.LogLines > 50 {
		return fmt.Errorf("%w: log_lines must be between 1 and 50, got %d", ErrInvalidConfig, c.LogLines)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	owners := map[string]string{}
	for _, binding := range c.Keys.bindings() {
		if len(binding.keys) == 0 {
			return fmt.Errorf("%w: keys.%s has no keys", ErrInvalidConfig, binding.name)
		}
		for _, key := range binding.keys {
			if owner, taken := owners[key]; taken {
				return fmt.Errorf("%w: key %q bound to both %s and %s", ErrInvalidConfig, key, owner, binding.name)
			}
			owners[key] = binding.name
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return level, nil
}

type binding struct {
	name string
	keys []string
}

func (k Keys) bindings() []binding {
	return []binding{
		{"toggle", k.Toggle},
		{"child", k.Child},
		{"delete", k.Delete},
		{"backspace", k.Backspace},
		{"save", k.Save},
		{"exit", k.Exit},
		{"copy", k.Copy},
		{"help", k.Help},
	}
}
