package provider

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/waabox/scmfinder/internal/domain"
)

// Registry maps repository host patterns to RepositoryVerifier implementations.
type Registry struct {
	entries []entry
}

type entry struct {
	host     string
	verifier domain.RepositoryVerifier
}

// Ensure Registry can stand in for a single verifier.
var _ domain.RepositoryVerifier = (*Registry)(nil)

// NewRegistry creates an empty verifier registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register associates a host (e.g., "github.com") with a verifier. A
// registered host also matches its subdomains. Hosts are matched in
// registration order.
func (r *Registry) Register(host string, v domain.RepositoryVerifier) {
	r.entries = append(r.entries, entry{host: host, verifier: v})
}

// Detect returns the verifier matching the given repository host.
// A port on host is ignored. Returns an error if no matching verifier is
// registered.
func (r *Registry) Detect(host string) (domain.RepositoryVerifier, error) {
	name := strings.ToLower(host)
	if h, _, err := net.SplitHostPort(name); err == nil {
		name = h
	}
	for _, e := range r.entries {
		if hostMatches(name, strings.ToLower(e.host)) {
			return e.verifier, nil
		}
	}
	return nil, fmt.Errorf("no verifier found for host: %s", host)
}

func hostMatches(host, registered string) bool {
	return host == registered || strings.HasSuffix(host, "."+registered)
}

// Verify dispatches to the verifier registered for repo's host.
func (r *Registry) Verify(ctx context.Context, repo domain.Repository) (string, error) {
	v, err := r.Detect(repo.Host)
	if err != nil {
		return "", err
	}
	return v.Verify(ctx, repo)
}
