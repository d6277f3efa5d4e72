package domain

// Class names as reported by Jenkins for the SCM implementations we care about.
const (
	GitSCMClass  = "hudson.plugins.git.GitSCM"
	NullSCMClass = "hudson.scm.NullSCM"
)

// SCM is a source-control configuration attached to a job.
type SCM interface {
	Class() string
}

// UserRemoteConfig is a single remote repository entry of a Git SCM.
type UserRemoteConfig struct {
	Name          string
	URL           string
	Refspec       string
	CredentialsID string
}

// GitSCM is a Git source-control configuration. It may hold zero or more remotes.
type GitSCM struct {
	UserRemoteConfigs []UserRemoteConfig
	Branches          []string
}

func (*GitSCM) Class() string { return GitSCMClass }

// FirstURL returns the URL of the first remote, and false when there are no remotes.
func (g *GitSCM) FirstURL() (string, bool) {
	if len(g.UserRemoteConfigs) == 0 {
		return "", false
	}
	return g.UserRemoteConfigs[0].URL, true
}

// OtherSCM is any non-Git source-control configuration (Subversion, Mercurial...).
type OtherSCM struct {
	ClassName string
}

func (o *OtherSCM) Class() string { return o.ClassName }

// NullSCM means "no source control".
type NullSCM struct{}

func (NullSCM) Class() string { return NullSCMClass }

// AsGitSCM returns scm as a *GitSCM, or nil if scm is absent or not Git.
func AsGitSCM(scm SCM) *GitSCM {
	git, ok := scm.(*GitSCM)
	if !ok {
		return nil
	}
	return git
}
