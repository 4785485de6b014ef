package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config represents the spyglass configuration
type Config struct {
	// Scroll sampling
	ThrottleIntervalMs int `json:"throttle_interval_ms"`

	// Spy registration
	Once     bool `json:"once"`
	CheckNow bool `json:"check_now"`

	// UI preferences
	Theme string `json:"theme"`
	Watch bool   `json:"watch"`

	// Diagnostics
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ThrottleIntervalMs: 100,
		Once:               false,
		CheckNow:           true,
		Theme:              "dark",
		Watch:              false,
		Debug:              false,
		LogLevel:           "debug",
		LogFile:            "spyglass.log",
	}
}

// ThrottleInterval returns the throttle window as a duration.
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.ThrottleIntervalMs) * time.Millisecond
}

// Manager handles configuration loading and saving
type Manager struct {
	projectPath string
	configPath  string
	config      *Config
}

// NewManager creates a new configuration manager
func NewManager(projectPath string) *Manager {
	dir := filepath.Join(projectPath, ".spyglass")
	return &Manager{
		projectPath: projectPath,
		configPath:  filepath.Join(dir, "config.json"),
		config:      DefaultConfig(),
	}
}

// Dir returns the .spyglass directory
func (m *Manager) Dir() string {
	return filepath.Dir(m.configPath)
}

// Path returns the config file path
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk, creating defaults if needed
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create .spyglass directory: %w", err)
	}

	// Check if config file exists
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		// Create default config
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their defaults
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)

	if err := config.Validate(); err != nil {
		return err
	}

	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Set updates a configuration value and saves. Invalid values leave the
// current configuration untouched.
func (m *Manager) Set(key, value string) error {
	next := *m.config
	switch key {
	case "throttle_interval_ms":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid throttle_interval_ms %q: %w", value, err)
		}
		next.ThrottleIntervalMs = ms
	case "once":
		next.Once = value == "true"
	case "check_now":
		next.CheckNow = value == "true"
	case "theme":
		next.Theme = value
	case "watch":
		next.Watch = value == "true"
	case "debug":
		next.Debug = value == "true"
	case "log_level":
		next.LogLevel = value
	case "log_file":
		next.LogFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	m.config = &next
	return m.Save()
}

// Validate checks values that would otherwise fail later
func (c *Config) Validate() error {
	if c.ThrottleIntervalMs <= 0 {
		return fmt.Errorf("throttle_interval_ms must be positive, got %d", c.ThrottleIntervalMs)
	}
	if c.Theme == "" {
		return fmt.Errorf("theme must not be empty")
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variables in string values
func (m *Manager) expandEnvVars(config *Config) {
	config.Theme = expandString(config.Theme)
	config.LogLevel = expandString(config.LogLevel)
	config.LogFile = expandString(config.LogFile)
}

// expandString expands $VAR and ${VAR}. Unknown variables are left as is.
func expandString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
