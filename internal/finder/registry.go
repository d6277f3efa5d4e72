// Package finder locates the Git SCM configuration of a job by asking an
// ordered list of strategies, each of which recognises one family of jobs.
package finder

import (
	"fmt"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/logr"
)

// Options configures a Registry. Finders are consulted in slice order.
type Options struct {
	Finders []domain.SCMFinder
	Logger  logr.Logger
}

// Registry dispatches SCM lookups to an ordered list of finders.
type Registry struct {
	finders []domain.SCMFinder
	logger  logr.Logger
}

// NewRegistry creates a registry holding opts.Finders in order.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		finders: append([]domain.SCMFinder(nil), opts.Finders...),
		logger:  opts.Logger.WithValues("registry", "finder"),
	}
}

// Default returns a registry with the builtin finders: projects, then pipelines.
func Default(logger logr.Logger) *Registry {
	return NewRegistry(Options{
		Finders: []domain.SCMFinder{Project{}, Pipeline{}},
		Logger:  logger,
	})
}

// NewRegistryFromNames builds a registry from builtin finder names, in the
// given order.
func NewRegistryFromNames(names []string, logger logr.Logger) (*Registry, error) {
	finders := make([]domain.SCMFinder, 0, len(names))
	for _, name := range names {
		f, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		finders = append(finders, f)
	}
	return NewRegistry(Options{Finders: finders, Logger: logger}), nil
}

// Register appends a finder to the end of the registry.
func (r *Registry) Register(f domain.SCMFinder) {
	r.finders = append(r.finders, f)
}

// Len returns the number of registered finders.
func (r *Registry) Len() int {
	return len(r.finders)
}

// Find returns the Git SCM of item from the first finder, in registry order,
// that returns one. Returns nil if no finder does.
func (r *Registry) Find(item domain.Item) *domain.GitSCM {
	for _, f := range r.finders {
		if scm := f.SCM(item); scm != nil {
			return scm
		}
	}
	r.logger.V(1).Info("no git scm found", "job", item.FullName())
	return nil
}

// IsApplicable reports whether at least one finder recognises item.
func (r *Registry) IsApplicable(item domain.Item) bool {
	for _, f := range r.finders {
		if f.Findable(item) {
			return true
		}
	}
	return false
}

// Lookup returns the builtin finder with the given name.
func Lookup(name string) (domain.SCMFinder, error) {
	switch name {
	case "project":
		return Project{}, nil
	case "pipeline":
		return Pipeline{}, nil
	default:
		return nil, fmt.Errorf("%w: finder %q", domain.ErrUnknownStrategy, name)
	}
}
