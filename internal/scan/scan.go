// Package scan runs the jobs of a source through the finder and resolver
// registries.
package scan

import (
	"context"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/finder"
	"github.com/waabox/scmfinder/internal/resolver"
)

// Result is what the registries make of a single job.
type Result struct {
	Item domain.Item
	// Findable and Resolvable report whether any strategy recognises the job.
	Findable   bool
	Resolvable bool
	// SCM is the Git SCM located by the finders, nil if none.
	SCM *domain.GitSCM
	// Repository is valid only when Resolved is true.
	Repository domain.Repository
	Resolved   bool
}

// Name returns the full name of the scanned job.
func (r Result) Name() string {
	return r.Item.FullName()
}

// Identity returns "owner/name", or "" when the job did not resolve.
func (r Result) Identity() string {
	if !r.Resolved {
		return ""
	}
	return r.Repository.String()
}

// Scanner lists jobs from Source and runs each through Finders and Resolvers.
type Scanner struct {
	Source    domain.JobSource
	Finders   *finder.Registry
	Resolvers *resolver.Registry
	// Filter, if set, keeps only jobs whose full name matches.
	Filter glob.Glob
}

// CompileFilter compiles a shell-style job name pattern. A single * stays
// within one folder level; ** crosses folders. An empty pattern matches
// everything and returns nil.
func CompileFilter(pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	return g, nil
}

// Scan returns one result per matching job, in source order.
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	items, err := s.Source.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	results := make([]Result, 0, len(items))
	for _, item := range items {
		if s.Filter != nil && !s.Filter.Match(item.FullName()) {
			continue
		}
		results = append(results, s.Examine(item))
	}
	return results, nil
}

// Examine runs a single item through both registries.
func (s *Scanner) Examine(item domain.Item) Result {
	res := Result{
		Item:       item,
		Findable:   s.Finders.IsApplicable(item),
		Resolvable: s.Resolvers.IsApplicable(item),
		SCM:        s.Finders.Find(item),
	}
	res.Repository, res.Resolved = s.Resolvers.Repository(item)
	return res
}
