// Package config loads adcopy configuration from .adcopy/config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all adcopy configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// External agent service configuration
	Service ServiceConfig `yaml:"service"`

	// Agent identifiers per capability
	Agents AgentsConfig `yaml:"agents"`

	// Publishing platform registry
	Platforms map[string]PlatformConfig `yaml:"platforms"`

	// Durable storage
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig configures the external agent service transport.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// AgentsConfig holds the agent identifiers for generation capabilities.
type AgentsConfig struct {
	TopicResearch string `yaml:"topic_research"`
	AdCopy        string `yaml:"ad_copy"`
}

// PlatformConfig describes one publishing platform. An empty AgentID marks the
// platform as unsupported for publishing.
type PlatformConfig struct {
	AgentID string `yaml:"agent_id"`
	Label   string `yaml:"label"`
}

// StorageConfig configures the durable campaign store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures category file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
}

// Default agent identifiers. These select capabilities on the agent service;
// they are opaque and carry no meaning beyond routing.
const (
	DefaultTopicResearchAgentID      = "699810b41c7942f1496c5794"
	DefaultAdCopyAgentID             = "699810b4d3087087d129a27c"
	DefaultTwitterPublisherAgentID   = "699810c2d3087087d129a282"
	DefaultFacebookPublisherAgentID  = "6998142a549d879ea245fe1b"
	DefaultInstagramPublisherAgentID = "6998142be759fc2f0f4fe552"
	DefaultTikTokPublisherAgentID    = "6998142c5c2b072508969246"
)

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Name:    "adcopy",
		Version: "1.0.0",

		Service: ServiceConfig{
			BaseURL: "https://api.agents.example.com/v1",
			Timeout: "120s",
		},

		Agents: AgentsConfig{
			TopicResearch: DefaultTopicResearchAgentID,
			AdCopy:        DefaultAdCopyAgentID,
		},

		Platforms: map[string]PlatformConfig{
			"Twitter":   {AgentID: DefaultTwitterPublisherAgentID, Label: "Twitter / X"},
			"Facebook":  {AgentID: DefaultFacebookPublisherAgentID, Label: "Facebook"},
			"Instagram": {AgentID: DefaultInstagramPublisherAgentID, Label: "Instagram"},
			"TikTok":    {AgentID: DefaultTikTokPublisherAgentID, Label: "TikTok"},
			// LinkedIn has no publisher agent yet; publish attempts must be
			// rejected before any network call.
			"LinkedIn": {AgentID: "", Label: "LinkedIn"},
		},

		Storage: StorageConfig{
			DatabasePath: filepath.Join(".adcopy", "adcopy.db"),
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadFromWorkspace loads configuration from <workspace>/.adcopy/config.yaml.
func LoadFromWorkspace(workspace string) (*Config, error) {
	return Load(filepath.Join(workspace, ".adcopy", "config.yaml"))
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("ADCOPY_API_KEY"); key != "" {
		c.Service.APIKey = key
	}
	if url := os.Getenv("ADCOPY_SERVICE_URL"); url != "" {
		c.Service.BaseURL = url
	}
	if path := os.Getenv("ADCOPY_DB"); path != "" {
		c.Storage.DatabasePath = path
	}
}

// GetServiceTimeout returns the agent service timeout as a duration.
// Agent calls are always bounded; an unset or invalid value falls back to 120s.
func (c *Config) GetServiceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Service.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}
