package finder

import "github.com/waabox/scmfinder/internal/domain"

// Project finds the SCM configured on classic projects.
type Project struct{}

var _ domain.SCMFinder = Project{}

func (Project) SCM(item domain.Item) *domain.GitSCM {
	if p, ok := item.(*domain.Project); ok {
		return domain.AsGitSCM(p.SCM)
	}
	return nil
}

func (Project) Findable(item domain.Item) bool {
	_, ok := item.(*domain.Project)
	return ok
}

// Pipeline finds the typical SCM of pipeline jobs.
type Pipeline struct{}

var _ domain.SCMFinder = Pipeline{}

func (Pipeline) SCM(item domain.Item) *domain.GitSCM {
	if p, ok := item.(*domain.PipelineJob); ok {
		return domain.AsGitSCM(p.TypicalSCM())
	}
	return nil
}

func (Pipeline) Findable(item domain.Item) bool {
	_, ok := item.(*domain.PipelineJob)
	return ok
}
