package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/scmfinder/internal/scan"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	verifiedLabel = okStyle.Render("verified")
)

// Verdict is the outcome of verifying a job's identity against its host.
type Verdict struct {
	// Name is the canonical "owner/name" reported by the host.
	Name string
	Err  error
}

// JobListModel is an immutable Bubbletea-compatible model for the job list panel.
type JobListModel struct {
	results  []scan.Result
	verdicts map[string]Verdict
	cursor   int
}

// NewJobListModel creates a job list model with the given scan results.
func NewJobListModel(results []scan.Result) JobListModel {
	return JobListModel{results: results, verdicts: map[string]Verdict{}}
}

// UpdateResults returns a new model with fresh results, keeping the cursor on
// the previously selected job when it still exists. Verdicts are kept.
func (m JobListModel) UpdateResults(results []scan.Result) JobListModel {
	selected := m.Selected().Item
	m.results = results
	m.cursor = 0
	if selected == nil {
		return m
	}
	for i, r := range results {
		if r.Name() == selected.FullName() {
			m.cursor = i
			break
		}
	}
	return m
}

// WithVerdict returns a new model recording the verdict for the named job.
func (m JobListModel) WithVerdict(job string, v Verdict) JobListModel {
	verdicts := make(map[string]Verdict, len(m.verdicts)+1)
	for k, old := range m.verdicts {
		verdicts[k] = old
	}
	verdicts[job] = v
	m.verdicts = verdicts
	return m
}

// Verdict returns the verdict recorded for the named job, if any.
func (m JobListModel) Verdict(job string) (Verdict, bool) {
	v, ok := m.verdicts[job]
	return v, ok
}

// MoveDown returns a new model with the cursor moved down by one.
func (m JobListModel) MoveDown() JobListModel {
	if m.cursor < len(m.results)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m JobListModel) MoveUp() JobListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// SelectedIndex returns the current cursor position.
func (m JobListModel) SelectedIndex() int {
	return m.cursor
}

// Selected returns the currently highlighted result.
// Returns zero-value Result if the list is empty.
func (m JobListModel) Selected() scan.Result {
	if len(m.results) == 0 {
		return scan.Result{}
	}
	return m.results[m.cursor]
}

// Results returns all results in the list.
func (m JobListModel) Results() []scan.Result {
	return m.results
}

// View renders the job list as a string.
func (m JobListModel) View() string {
	if len(m.results) == 0 {
		return "No jobs found."
	}
	var sb strings.Builder
	for i, r := range m.results {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%s%s %-40s %s\n",
			prefix,
			resultIcon(r),
			truncate(r.Name(), 40),
			m.identity(r),
		))
	}
	return sb.String()
}

func (m JobListModel) identity(r scan.Result) string {
	if !r.Resolved {
		return dimStyle.Render("--")
	}
	v, ok := m.verdicts[r.Name()]
	switch {
	case !ok:
		return r.Identity()
	case v.Err != nil:
		return r.Identity() + " " + errorStyle.Render("("+v.Err.Error()+")")
	case v.Name != r.Identity():
		return r.Identity() + " " + okStyle.Render("-> "+v.Name)
	default:
		return r.Identity() + " " + verifiedLabel
	}
}

func resultIcon(r scan.Result) string {
	switch {
	case r.Resolved:
		return okStyle.Render("✓")
	case r.SCM != nil:
		return errorStyle.Render("✗")
	case r.Findable:
		return "○"
	default:
		return dimStyle.Render("·")
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
