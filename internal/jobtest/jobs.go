// Package jobtest builds jobs with or without a Git SCM for tests.
package jobtest

import (
	"context"

	"github.com/waabox/scmfinder/internal/domain"
)

// Source is a fixed job source.
type Source []domain.Item

func (s Source) ListJobs(context.Context) ([]domain.Item, error) {
	return s, nil
}

// Pipeline returns a pipeline job whose typical SCM is Git pointing at url.
func Pipeline(url string) *domain.PipelineJob {
	return &domain.PipelineJob{Name: "pipeline", Definition: gitSCM(url)}
}

// PipelineNoGitSCM returns a pipeline job with an SCM that is not Git.
func PipelineNoGitSCM() *domain.PipelineJob {
	return &domain.PipelineJob{Name: "pipeline-svn", Definition: otherSCM()}
}

// Project returns a freestyle project with a Git SCM pointing at url.
func Project(url string) *domain.Project {
	return &domain.Project{Name: "project", Kind: domain.KindFreestyle, SCM: gitSCM(url)}
}

// ProjectNoGitSCM returns a freestyle project with an SCM that is not Git.
func ProjectNoGitSCM() *domain.Project {
	return &domain.Project{Name: "project-svn", Kind: domain.KindFreestyle, SCM: otherSCM()}
}

func gitSCM(url string) *domain.GitSCM {
	return &domain.GitSCM{
		UserRemoteConfigs: []domain.UserRemoteConfig{{Name: "origin", URL: url}},
	}
}

func otherSCM() *domain.OtherSCM {
	return &domain.OtherSCM{ClassName: "hudson.scm.SubversionSCM"}
}
