package git

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/waabox/scmfinder/internal/domain"
)

// remotePatterns are tried in order. Each captures host, owner and name. The
// variants ending in .git come first so the suffix is never part of the name.
var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@(.+):([^/]+)/([^/]+)\.git/?$`),
	regexp.MustCompile(`^https?://[^/]+@([^/]+)/([^/]+)/([^/]+)\.git/?$`),
	regexp.MustCompile(`^https?://([^/]+)/([^/]+)/([^/]+)\.git/?$`),
	regexp.MustCompile(`^git://([^/]+)/([^/]+)/([^/]+)\.git/?$`),
	regexp.MustCompile(`^ssh://(?:git@)?([^/]+)/([^/]+)/([^/]+)\.git/?$`),

	regexp.MustCompile(`^git@(.+):([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^https?://[^/]+@([^/]+)/([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^https?://([^/]+)/([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^git://([^/]+)/([^/]+)/([^/]+?)/?$`),
	regexp.MustCompile(`^ssh://(?:git@)?([^/]+)/([^/]+)/([^/]+?)/?$`),
}

// ParseRemoteURL parses a git remote URL and returns a Repository.
// Supports scp-like SSH (git@host:owner/repo.git), HTTP(S) with or without
// credentials, git:// and ssh:// URLs, each with or without the .git suffix.
// The RemoteURL field in the returned Repository preserves the original input URL unchanged.
func ParseRemoteURL(rawURL string) (domain.Repository, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return domain.Repository{}, fmt.Errorf("%w: empty", domain.ErrInvalidRemoteURL)
	}
	for _, p := range remotePatterns {
		m := p.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		return domain.Repository{
			Host:      m[1],
			Owner:     m[2],
			Name:      m[3],
			RemoteURL: rawURL,
		}, nil
	}
	return domain.Repository{}, fmt.Errorf("%w: %s", domain.ErrInvalidRemoteURL, rawURL)
}

// ReadRemotes reads the .git/config in the given directory and returns every
// remote declared there, in file order.
func ReadRemotes(dir string) ([]domain.UserRemoteConfig, error) {
	configPath := filepath.Join(dir, ".git", "config")
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not open .git/config: %w", err)
	}
	defer f.Close()

	var (
		remotes []domain.UserRemoteConfig
		current *domain.UserRemoteConfig
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			if current != nil {
				remotes = append(remotes, *current)
				current = nil
			}
			if name, ok := remoteSection(line); ok {
				current = &domain.UserRemoteConfig{Name: name}
			}
			continue
		}
		if current == nil {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "url":
			current.URL = strings.TrimSpace(value)
		case "fetch":
			current.Refspec = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading .git/config: %w", err)
	}
	if current != nil {
		remotes = append(remotes, *current)
	}
	return remotes, nil
}

// DetectRepository reads the .git/config in the given directory and returns
// a Repository built from the origin remote URL.
func DetectRepository(dir string) (domain.Repository, error) {
	remotes, err := ReadRemotes(dir)
	if err != nil {
		return domain.Repository{}, err
	}
	for _, r := range remotes {
		if r.Name == "origin" && r.URL != "" {
			return ParseRemoteURL(r.URL)
		}
	}
	return domain.Repository{}, fmt.Errorf("%w in .git/config", domain.ErrNoOrigin)
}

// remoteSection returns the remote name of a `[remote "name"]` header.
func remoteSection(line string) (string, bool) {
	inner, ok := strings.CutPrefix(line, "[remote ")
	if !ok {
		return "", false
	}
	inner = strings.TrimSuffix(inner, "]")
	return strings.Trim(inner, `"`), true
}
