package resolver

import "github.com/waabox/scmfinder/internal/domain"

// Project resolves classic projects through their configured SCM.
type Project struct{}

var _ domain.RepositoryResolver = Project{}

func (Project) SCM(item domain.Item) *domain.GitSCM {
	if p, ok := item.(*domain.Project); ok {
		return domain.AsGitSCM(p.SCM)
	}
	return nil
}

func (Project) Resolvable(item domain.Item) bool {
	_, ok := item.(*domain.Project)
	return ok
}

// Pipeline resolves pipeline jobs through their typical SCM.
type Pipeline struct{}

var _ domain.RepositoryResolver = Pipeline{}

func (Pipeline) SCM(item domain.Item) *domain.GitSCM {
	if p, ok := item.(*domain.PipelineJob); ok {
		return domain.AsGitSCM(p.TypicalSCM())
	}
	return nil
}

func (Pipeline) Resolvable(item domain.Item) bool {
	_, ok := item.(*domain.PipelineJob)
	return ok
}
