package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/waabox/scmfinder/internal/domain"
)

const defaultBaseURL = "https://gitlab.com"

// Verifier implements domain.RepositoryVerifier for GitLab.
type Verifier struct {
	token   string
	baseURL string
	client  *retryablehttp.Client
}

// Ensure Verifier fully implements domain.RepositoryVerifier.
var _ domain.RepositoryVerifier = (*Verifier)(nil)

// NewVerifier creates a GitLab verifier.
// baseURL can be a self-hosted GitLab instance URL; pass empty string for gitlab.com.
func NewVerifier(token string, baseURL string) *Verifier {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = 15 * time.Second
	client.RetryMax = 2
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Verifier{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Verify returns the canonical "group/project" path of repo.
func (v *Verifier) Verify(ctx context.Context, repo domain.Repository) (string, error) {
	projectID := url.PathEscape(repo.Owner + "/" + repo.Name)
	apiURL := fmt.Sprintf("%s/api/v4/projects/%s", v.baseURL, projectID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if v.token != "" {
		req.Header.Set("PRIVATE-TOKEN", v.token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", repo, domain.ErrRepositoryNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return "", fmt.Errorf("gitlab API error: %w", domain.ErrUnauthorized)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("gitlab API error: %s", resp.Status)
	}

	var project struct {
		PathWithNamespace string `json:"path_with_namespace"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&project); err != nil {
		return "", fmt.Errorf("decoding project: %w", err)
	}
	return project.PathWithNamespace, nil
}
