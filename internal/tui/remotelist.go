package tui

import (
	"fmt"
	"strings"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/git"
)

// RemoteListModel is an immutable model for the remotes panel of a job.
type RemoteListModel struct {
	remotes  []domain.UserRemoteConfig
	branches []string
	cursor   int
}

// NewRemoteListModel creates a remote list model from a Git SCM, which may be nil.
func NewRemoteListModel(scm *domain.GitSCM) RemoteListModel {
	if scm == nil {
		return RemoteListModel{}
	}
	return RemoteListModel{remotes: scm.UserRemoteConfigs, branches: scm.Branches}
}

// MoveDown returns a new model with the cursor moved down by one.
func (m RemoteListModel) MoveDown() RemoteListModel {
	if m.cursor < len(m.remotes)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m RemoteListModel) MoveUp() RemoteListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// Cursor returns the current cursor position.
func (m RemoteListModel) Cursor() int {
	return m.cursor
}

// View renders the remotes with the identity each one parses to. Only the
// first remote decides the job's identity, so it is marked.
func (m RemoteListModel) View() string {
	if len(m.remotes) == 0 {
		return "No git remotes configured."
	}
	var sb strings.Builder
	for i, r := range m.remotes {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		marker := " "
		if i == 0 {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s%s %-10s %-50s %s\n",
			prefix,
			marker,
			truncate(name, 10),
			truncate(r.URL, 50),
			parsedIdentity(r.URL),
		))
	}
	if len(m.branches) > 0 {
		sb.WriteString(dimStyle.Render(" branches: "+strings.Join(m.branches, ", ")) + "\n")
	}
	return sb.String()
}

func parsedIdentity(url string) string {
	repo, err := git.ParseRemoteURL(url)
	if err != nil {
		return errorStyle.Render("unparseable")
	}
	return repo.String()
}
