package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/waabox/scmfinder/internal/config"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
finders = ["pipeline", "project"]
inventory = "/etc/scmfinder/jobs.yaml"

[jenkins]
url = "https://ci.example.com"
user = "bot"
token = "jenkins_testtoken"
concurrency = 8

[github]
token = "ghp_testtoken"

[gitlab]
token = "glpat_testtoken"
url = "https://gitlab.example.com"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(cfg.FindersOrDefault(), []string{"pipeline", "project"}) {
		t.Errorf("expected finders from file, got %v", cfg.FindersOrDefault())
	}
	if !reflect.DeepEqual(cfg.ResolversOrDefault(), []string{"project", "pipeline"}) {
		t.Errorf("expected default resolvers, got %v", cfg.ResolversOrDefault())
	}
	if cfg.Inventory != "/etc/scmfinder/jobs.yaml" {
		t.Errorf("expected inventory path, got '%s'", cfg.Inventory)
	}
	if cfg.Jenkins.URL != "https://ci.example.com" {
		t.Errorf("expected Jenkins URL 'https://ci.example.com', got '%s'", cfg.Jenkins.URL)
	}
	if cfg.Jenkins.User != "bot" {
		t.Errorf("expected Jenkins user 'bot', got '%s'", cfg.Jenkins.User)
	}
	if cfg.ConcurrencyOrDefault() != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.ConcurrencyOrDefault())
	}
	if cfg.GitHub.Token != "ghp_testtoken" {
		t.Errorf("expected GitHub token 'ghp_testtoken', got '%s'", cfg.GitHub.Token)
	}
	if cfg.GitLab.URL != "https://gitlab.example.com" {
		t.Errorf("expected GitLab URL 'https://gitlab.example.com', got '%s'", cfg.GitLab.URL)
	}
}

func TestLoad_EnvVarsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
[jenkins]
url = "https://ci.fromfile.com"

[github]
token = "ghp_fromfile"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("JENKINS_URL", "https://ci.fromenv.com")
	t.Setenv("JENKINS_TOKEN", "jenkins_fromenv")
	t.Setenv("GITHUB_TOKEN", "ghp_fromenv")
	t.Setenv("GITLAB_URL", "https://gitlab.myco.com")
	t.Setenv("SCMFINDER_INVENTORY", "/tmp/jobs.toml")

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Jenkins.URL != "https://ci.fromenv.com" {
		t.Errorf("expected env URL 'https://ci.fromenv.com', got '%s'", cfg.Jenkins.URL)
	}
	if cfg.Jenkins.Token != "jenkins_fromenv" {
		t.Errorf("expected env token 'jenkins_fromenv', got '%s'", cfg.Jenkins.Token)
	}
	if cfg.GitHub.Token != "ghp_fromenv" {
		t.Errorf("expected env token 'ghp_fromenv', got '%s'", cfg.GitHub.Token)
	}
	if cfg.GitLab.URL != "https://gitlab.myco.com" {
		t.Errorf("expected env URL 'https://gitlab.myco.com', got '%s'", cfg.GitLab.URL)
	}
	if cfg.Inventory != "/tmp/jobs.toml" {
		t.Errorf("expected env inventory '/tmp/jobs.toml', got '%s'", cfg.Inventory)
	}
}

func TestLoad_MissingFileIsNotError(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_onlyenv")
	cfg, err := config.LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if cfg.GitHub.Token != "ghp_onlyenv" {
		t.Errorf("expected token from env, got '%s'", cfg.GitHub.Token)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("finders = [\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFrom(configPath); err == nil {
		t.Fatal("expected error for malformed TOML, got nil")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := config.Config{
		Resolvers: []string{"pipeline"},
		Jenkins:   config.JenkinsConfig{URL: "https://ci.example.com", Concurrency: 2},
	}
	if err := config.Save(configPath, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
	}

	got, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.ResolversOrDefault(), []string{"pipeline"}) {
		t.Errorf("expected saved resolvers, got %v", got.ResolversOrDefault())
	}
	if got.ConcurrencyOrDefault() != 2 {
		t.Errorf("expected saved concurrency 2, got %d", got.ConcurrencyOrDefault())
	}
}
