package inventory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/inventory"
)

const yamlInventory = `
jobs:
  - name: api-build
    type: freestyle
    scm: git
    branches: ["*/main"]
    remotes:
      - name: origin
        url: https://github.com/acme/api.git
  - name: deploy
    type: pipeline
    scm: git
    remotes:
      - url: git@github.com:acme/deploy.git
  - name: inline
    type: pipeline
  - name: legacy
    type: maven
    scm: hudson.scm.SubversionSCM
  - name: team
    type: folder
  - name: multi
    type: org.jenkinsci.plugins.workflow.multibranch.WorkflowMultiBranchProject
`

const tomlInventory = `
[[jobs]]
name = "api-build"
scm = "git"

  [[jobs.remotes]]
  name = "origin"
  url = "https://github.com/acme/api.git"

[[jobs]]
name = "deploy"
type = "pipeline"
scm = "git"

  [[jobs.remotes]]
  url = ""
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.yaml", yamlInventory)

	items, err := inventory.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(items))
	}

	project, ok := items[0].(*domain.Project)
	if !ok {
		t.Fatalf("expected first item to be a project, got %T", items[0])
	}
	git := domain.AsGitSCM(project.SCM)
	if git == nil {
		t.Fatal("expected project to have a git SCM")
	}
	if url, _ := git.FirstURL(); url != "https://github.com/acme/api.git" {
		t.Errorf("expected project remote URL, got '%s'", url)
	}
	if len(git.Branches) != 1 || git.Branches[0] != "*/main" {
		t.Errorf("expected branches to be read, got %v", git.Branches)
	}

	pipeline, ok := items[1].(*domain.PipelineJob)
	if !ok {
		t.Fatalf("expected second item to be a pipeline, got %T", items[1])
	}
	if domain.AsGitSCM(pipeline.TypicalSCM()) == nil {
		t.Error("expected pipeline to have a git SCM")
	}

	inline := items[2].(*domain.PipelineJob)
	if inline.TypicalSCM() != nil {
		t.Error("expected inline pipeline to have no SCM")
	}

	legacy := items[3].(*domain.Project)
	if legacy.Kind != domain.KindMaven {
		t.Errorf("expected maven kind, got '%s'", legacy.Kind)
	}
	if legacy.SCM.Class() != "hudson.scm.SubversionSCM" {
		t.Errorf("expected subversion SCM, got '%s'", legacy.SCM.Class())
	}

	if _, ok := items[4].(*domain.Folder); !ok {
		t.Errorf("expected fifth item to be a folder, got %T", items[4])
	}
	free, ok := items[5].(*domain.FreeJob)
	if !ok {
		t.Fatalf("expected sixth item to be a free job, got %T", items[5])
	}
	if !strings.HasSuffix(free.Class, "WorkflowMultiBranchProject") {
		t.Errorf("expected class to be preserved, got '%s'", free.Class)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.toml", tomlInventory)

	items, err := (&inventory.File{Path: path}).ListJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	project := items[0].(*domain.Project)
	if project.Kind != domain.KindFreestyle {
		t.Errorf("expected default kind freestyle, got '%s'", project.Kind)
	}
	pipeline := items[1].(*domain.PipelineJob)
	git := domain.AsGitSCM(pipeline.TypicalSCM())
	if git == nil {
		t.Fatal("expected pipeline to have a git SCM")
	}
	if url, ok := git.FirstURL(); !ok || url != "" {
		t.Errorf("expected one remote with an empty URL, got '%s' (ok=%v)", url, ok)
	}
}

func TestLoad_Checkout(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, "work", ".git")
	if err := os.MkdirAll(gitDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, gitDir, "config", `[remote "origin"]
	url = https://github.com/acme/work.git
`)
	path := writeFile(t, dir, "jobs.yml", `
jobs:
  - name: work
    type: pipeline
    scm: git
    checkout: work
`)

	items, err := inventory.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	git := domain.AsGitSCM(items[0].(*domain.PipelineJob).TypicalSCM())
	if url, _ := git.FirstURL(); url != "https://github.com/acme/work.git" {
		t.Errorf("expected remote from checkout, got '%s'", url)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{"missing name", "a.yaml", "jobs:\n  - type: pipeline\n", true},
		{"remotes without scm", "b.yaml", "jobs:\n  - name: x\n    remotes:\n      - url: https://github.com/a/b\n", true},
		{"missing checkout", "c.yaml", "jobs:\n  - name: x\n    scm: git\n    checkout: nowhere\n", false},
		{"malformed toml", "d.toml", "[[jobs]\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inventory.Load(writeFile(t, dir, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.invalid && !errors.Is(err, inventory.ErrInvalidJob) {
				t.Errorf("expected ErrInvalidJob, got %v", err)
			}
		})
	}
}

func TestLoad_EmptyYAML(t *testing.T) {
	items, err := inventory.Load(writeFile(t, t.TempDir(), "empty.yaml", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestFormatFromPath(t *testing.T) {
	if inventory.FormatFromPath("jobs.YML") != inventory.FormatYAML {
		t.Error("expected .YML to be YAML")
	}
	if inventory.FormatFromPath("jobs.toml") != inventory.FormatTOML {
		t.Error("expected .toml to be TOML")
	}
	if inventory.FormatFromPath("jobs") != inventory.FormatTOML {
		t.Error("expected no extension to default to TOML")
	}
}
