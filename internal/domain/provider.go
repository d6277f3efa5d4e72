package domain

import "context"

// SCMFinder locates the Git SCM of the item types it recognises.
type SCMFinder interface {
	// Findable reports whether the finder recognises the concrete type of item.
	Findable(item Item) bool
	// SCM returns the Git SCM of item, or nil if the type does not match, the
	// item has no SCM, or the SCM is not Git.
	SCM(item Item) *GitSCM
}

// RepositoryResolver locates the Git SCM from which a repository identity is
// derived.
type RepositoryResolver interface {
	// Resolvable reports whether the resolver recognises the concrete type of item.
	Resolvable(item Item) bool
	// SCM returns the Git SCM of item, or nil if none applies.
	SCM(item Item) *GitSCM
}

// JobSource is the port interface that job inventories implement: a static
// file, a Jenkins server, or a test double.
type JobSource interface {
	ListJobs(ctx context.Context) ([]Item, error)
}

// RepositoryVerifier checks that a resolved repository exists on its hosting
// service and returns its canonical "owner/name".
type RepositoryVerifier interface {
	Verify(ctx context.Context, repo Repository) (string, error)
}
