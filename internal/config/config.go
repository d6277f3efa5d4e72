package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// JenkinsConfig holds the connection settings for a Jenkins server.
type JenkinsConfig struct {
	URL         string `toml:"url" env:"JENKINS_URL"`
	User        string `toml:"user" env:"JENKINS_USER"`
	Token       string `toml:"token" env:"JENKINS_TOKEN"`
	Concurrency int    `toml:"concurrency" env:"JENKINS_CONCURRENCY"`
}

// GitHubConfig holds authentication configuration for GitHub.
type GitHubConfig struct {
	Token string `toml:"token" env:"GITHUB_TOKEN"`
	// URL is the API base of a GitHub Enterprise server. Empty for github.com.
	URL string `toml:"url" env:"GITHUB_URL"`
}

// GitLabConfig holds authentication configuration for GitLab.
type GitLabConfig struct {
	Token string `toml:"token" env:"GITLAB_TOKEN"`
	URL   string `toml:"url" env:"GITLAB_URL"`
}

// Config holds all scmfinder configuration.
type Config struct {
	// Finders and Resolvers name the builtin strategies in registry order.
	Finders   []string      `toml:"finders"`
	Resolvers []string      `toml:"resolvers"`
	Inventory string        `toml:"inventory" env:"SCMFINDER_INVENTORY"`
	Jenkins   JenkinsConfig `toml:"jenkins"`
	GitHub    GitHubConfig  `toml:"github"`
	GitLab    GitLabConfig  `toml:"gitlab"`
}

var defaultStrategies = []string{"project", "pipeline"}

const defaultConcurrency = 4

// FindersOrDefault returns Finders if set, otherwise projects then pipelines.
func (c Config) FindersOrDefault() []string {
	if len(c.Finders) > 0 {
		return c.Finders
	}
	return defaultStrategies
}

// ResolversOrDefault returns Resolvers if set, otherwise projects then pipelines.
func (c Config) ResolversOrDefault() []string {
	if len(c.Resolvers) > 0 {
		return c.Resolvers
	}
	return defaultStrategies
}

// ConcurrencyOrDefault returns Jenkins.Concurrency if set, otherwise defaultConcurrency.
func (c Config) ConcurrencyOrDefault() int {
	if c.Jenkins.Concurrency > 0 {
		return c.Jenkins.Concurrency
	}
	return defaultConcurrency
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values; see the
// env tags on the config structs for their names.
func LoadFrom(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfigPath returns the default path for the scmfinder config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scmfinder", "config.toml")
}

// applyEnvOverrides only overwrites fields whose variable is set, so file
// values survive when the environment is silent.
func applyEnvOverrides(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
