// Package resolver derives the "owner/name" identity of the repository a job
// builds from, using an ordered list of strategies to locate the job's Git SCM.
package resolver

import (
	"fmt"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/git"
	"github.com/waabox/scmfinder/internal/logr"
)

// Options configures a Registry. Resolvers are consulted in slice order.
type Options struct {
	Resolvers []domain.RepositoryResolver
	Logger    logr.Logger
}

// Registry dispatches identity lookups to an ordered list of resolvers.
type Registry struct {
	resolvers []domain.RepositoryResolver
	logger    logr.Logger
}

// NewRegistry creates a registry holding opts.Resolvers in order.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		resolvers: append([]domain.RepositoryResolver(nil), opts.Resolvers...),
		logger:    opts.Logger.WithValues("registry", "resolver"),
	}
}

// Default returns a registry with the builtin resolvers: projects, then pipelines.
func Default(logger logr.Logger) *Registry {
	return NewRegistry(Options{
		Resolvers: []domain.RepositoryResolver{Project{}, Pipeline{}},
		Logger:    logger,
	})
}

// NewRegistryFromNames builds a registry from builtin resolver names, in the
// given order.
func NewRegistryFromNames(names []string, logger logr.Logger) (*Registry, error) {
	resolvers := make([]domain.RepositoryResolver, 0, len(names))
	for _, name := range names {
		r, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, r)
	}
	return NewRegistry(Options{Resolvers: resolvers, Logger: logger}), nil
}

// Register appends a resolver to the end of the registry.
func (r *Registry) Register(res domain.RepositoryResolver) {
	r.resolvers = append(r.resolvers, res)
}

// Len returns the number of registered resolvers.
func (r *Registry) Len() int {
	return len(r.resolvers)
}

// Find returns the "owner/name" identity of the repository item builds from.
//
// The first resolver, in registry order, that returns a Git SCM decides the
// outcome: later resolvers are not consulted even if the SCM has no remotes
// or its first remote URL cannot be parsed. Returns false when no identity
// could be derived.
func (r *Registry) Find(item domain.Item) (string, bool) {
	repo, ok := r.Repository(item)
	if !ok {
		return "", false
	}
	return repo.String(), true
}

// Repository is like Find but returns the structured identity, including the
// host and the remote URL it was parsed from.
func (r *Registry) Repository(item domain.Item) (domain.Repository, bool) {
	for _, res := range r.resolvers {
		scm := res.SCM(item)
		if scm == nil {
			continue
		}
		url, ok := scm.FirstURL()
		if !ok {
			r.logger.V(1).Info("git scm has no remotes", "job", item.FullName())
			return domain.Repository{}, false
		}
		repo, err := git.ParseRemoteURL(url)
		if err != nil {
			r.logger.V(1).Info("unparseable remote url", "job", item.FullName(), "url", url)
			return domain.Repository{}, false
		}
		return repo, true
	}
	r.logger.V(1).Info("no git scm found", "job", item.FullName())
	return domain.Repository{}, false
}

// IsApplicable reports whether at least one resolver recognises item.
func (r *Registry) IsApplicable(item domain.Item) bool {
	for _, res := range r.resolvers {
		if res.Resolvable(item) {
			return true
		}
	}
	return false
}

// Lookup returns the builtin resolver with the given name.
func Lookup(name string) (domain.RepositoryResolver, error) {
	switch name {
	case "project":
		return Project{}, nil
	case "pipeline":
		return Pipeline{}, nil
	default:
		return nil, fmt.Errorf("%w: resolver %q", domain.ErrUnknownStrategy, name)
	}
}
