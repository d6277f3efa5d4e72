package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v65/github"
	"golang.org/x/oauth2"

	"github.com/waabox/scmfinder/internal/domain"
)

// Verifier implements domain.RepositoryVerifier for GitHub and GitHub
// Enterprise.
type Verifier struct {
	client *github.Client
}

// Ensure Verifier fully implements domain.RepositoryVerifier.
var _ domain.RepositoryVerifier = (*Verifier)(nil)

// NewVerifier creates a GitHub verifier.
// baseURL is the API base of a GitHub Enterprise server, or a test server;
// pass empty string to use github.com. An empty token makes anonymous calls,
// which only see public repositories.
func NewVerifier(ctx context.Context, token string, baseURL string) (*Verifier, error) {
	var httpClient *http.Client
	if token != "" {
		// GitHub personal tokens never expire, so a static source suffices.
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github url: %w", err)
		}
	}
	return &Verifier{client: client}, nil
}

// Verify returns the canonical "owner/name" of repo. Renamed or transferred
// repositories report their current name.
func (v *Verifier) Verify(ctx context.Context, repo domain.Repository) (string, error) {
	r, resp, err := v.client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusNotFound:
				return "", fmt.Errorf("%s: %w", repo, domain.ErrRepositoryNotFound)
			case http.StatusUnauthorized:
				return "", fmt.Errorf("github API error: %w", domain.ErrUnauthorized)
			}
		}
		return "", fmt.Errorf("github API error: %w", err)
	}
	return r.GetFullName(), nil
}
