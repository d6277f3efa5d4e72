package jenkins

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/waabox/scmfinder/internal/domain"
)

// jobConfig is the subset of a job's config.xml we read. Classic projects
// carry <scm> at the top level; pipelines carry it inside <definition>.
type jobConfig struct {
	SCM        *scmConfig `xml:"scm"`
	Definition *struct {
		Class string     `xml:"class,attr"`
		SCM   *scmConfig `xml:"scm"`
	} `xml:"definition"`
}

type scmConfig struct {
	Class    string         `xml:"class,attr"`
	Remotes  []remoteConfig `xml:"userRemoteConfigs>hudson.plugins.git.UserRemoteConfig"`
	Branches []string       `xml:"branches>hudson.plugins.git.BranchSpec>name"`
}

type remoteConfig struct {
	Name          string `xml:"name"`
	URL           string `xml:"url"`
	Refspec       string `xml:"refspec"`
	CredentialsID string `xml:"credentialsId"`
}

// parseJobConfig decodes a config.xml document. Jenkins declares XML 1.1,
// which encoding/xml refuses, so the prolog is rewritten to 1.0 first; none of
// the elements read here depend on 1.1 features.
func parseJobConfig(r io.Reader) (jobConfig, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return jobConfig{}, fmt.Errorf("reading config.xml: %w", err)
	}
	raw = downgradeProlog(raw)

	var cfg jobConfig
	if err := xml.Unmarshal(raw, &cfg); err != nil {
		return jobConfig{}, fmt.Errorf("decoding config.xml: %w", err)
	}
	return cfg, nil
}

func downgradeProlog(raw []byte) []byte {
	end := bytes.Index(raw, []byte("?>"))
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("<?xml")) || end < 0 {
		return raw
	}
	prolog := raw[:end]
	prolog = bytes.Replace(prolog, []byte(`version='1.1'`), []byte(`version='1.0'`), 1)
	prolog = bytes.Replace(prolog, []byte(`version="1.1"`), []byte(`version="1.0"`), 1)
	return append(prolog, raw[end:]...)
}

// projectSCM returns the SCM of a classic project. A missing <scm> element
// means no source control.
func (c jobConfig) projectSCM() domain.SCM {
	if c.SCM == nil {
		return domain.NullSCM{}
	}
	return c.SCM.toSCM()
}

// pipelineSCM returns the SCM of a pipeline-from-SCM definition, or nil for
// inline pipeline scripts.
func (c jobConfig) pipelineSCM() domain.SCM {
	if c.Definition == nil || c.Definition.SCM == nil {
		return nil
	}
	return c.Definition.SCM.toSCM()
}

func (s *scmConfig) toSCM() domain.SCM {
	switch s.Class {
	case domain.GitSCMClass:
		git := &domain.GitSCM{Branches: s.Branches}
		for _, r := range s.Remotes {
			git.UserRemoteConfigs = append(git.UserRemoteConfigs, domain.UserRemoteConfig{
				Name:          r.Name,
				URL:           r.URL,
				Refspec:       r.Refspec,
				CredentialsID: r.CredentialsID,
			})
		}
		return git
	case domain.NullSCMClass, "":
		return domain.NullSCM{}
	default:
		return &domain.OtherSCM{ClassName: s.Class}
	}
}
