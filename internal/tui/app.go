package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/scmfinder/internal/domain"
	"github.com/waabox/scmfinder/internal/scan"
)

// Scanner produces the results shown in the job list.
type Scanner interface {
	Scan(ctx context.Context) ([]scan.Result, error)
}

// JobsLoadedMsg is sent when jobs have been scanned.
// It is exported so that tests can inject it directly into AppModel.Update.
type JobsLoadedMsg struct {
	Results []scan.Result
	Err     error
}

// VerifiedMsg is sent when a job's identity has been checked against its host.
type VerifiedMsg struct {
	Job     string
	Verdict Verdict
}

// viewState indicates the current navigation level.
type viewState int

const (
	viewJobs viewState = iota
	viewRemotes
)

const separator = "────────────────────────────────────────────────────────────\n"

// AppModel is the root Bubbletea model for the job browser.
type AppModel struct {
	scanner  Scanner
	verifier domain.RepositoryVerifier
	// Navigation
	view viewState
	// Job level
	list     JobListModel
	selected scan.Result
	// Remote level
	remotes RemoteListModel
	// General state
	loading   bool
	verifying string
	err       error
	width     int
	height    int
}

// NewAppModel creates the root application model. verifier may be nil, in
// which case the verify key is disabled.
func NewAppModel(scanner Scanner, verifier domain.RepositoryVerifier) AppModel {
	return AppModel{
		scanner:  scanner,
		verifier: verifier,
		list:     NewJobListModel(nil),
		loading:  true,
	}
}

// Init triggers the initial scan.
func (m AppModel) Init() tea.Cmd {
	return m.loadJobs()
}

func (m AppModel) loadJobs() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		results, err := m.scanner.Scan(ctx)
		return JobsLoadedMsg{Results: results, Err: err}
	}
}

func (m AppModel) verify(r scan.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		name, err := m.verifier.Verify(ctx, r.Repository)
		return VerifiedMsg{Job: r.Name(), Verdict: Verdict{Name: name, Err: err}}
	}
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case JobsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.list = m.list.UpdateResults(msg.Results)
		m.selected = m.list.Selected()

	case VerifiedMsg:
		if m.verifying == msg.Job {
			m.verifying = ""
		}
		m.list = m.list.WithVerdict(msg.Job, msg.Verdict)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			m.loading = true
			return m, m.loadJobs()
		}
		switch m.view {
		case viewJobs:
			return m.updateJobs(msg)
		case viewRemotes:
			return m.updateRemotes(msg)
		}
	}
	return m, nil
}

func (m AppModel) updateJobs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		m.list = m.list.MoveDown()
		m.selected = m.list.Selected()
	case "up", "k":
		m.list = m.list.MoveUp()
		m.selected = m.list.Selected()
	case "enter":
		if len(m.list.Results()) > 0 {
			m.selected = m.list.Selected()
			m.remotes = NewRemoteListModel(m.selected.SCM)
			m.view = viewRemotes
		}
	case "v":
		return m.startVerify()
	}
	return m, nil
}

func (m AppModel) updateRemotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down", "j":
		m.remotes = m.remotes.MoveDown()
	case "up", "k":
		m.remotes = m.remotes.MoveUp()
	case "v":
		return m.startVerify()
	case "esc":
		m.view = viewJobs
	}
	return m, nil
}

func (m AppModel) startVerify() (tea.Model, tea.Cmd) {
	if m.verifier == nil || !m.selected.Resolved || m.verifying != "" {
		return m, nil
	}
	m.verifying = m.selected.Name()
	return m, m.verify(m.selected)
}

// View renders the full TUI.
func (m AppModel) View() string {
	if m.loading {
		return "Loading jobs...\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'ctrl+r' to retry or 'q' to quit.\n", m.err)
	}

	switch m.view {
	case viewRemotes:
		return m.renderRemotesView()
	default:
		return m.renderJobsView()
	}
}

func (m AppModel) renderJobsView() string {
	header := headerStyle.Render(fmt.Sprintf(" scmfinder | %d jobs", len(m.list.Results()))) + "\n"
	statusBar := m.statusBar()
	footer := " ↑/↓: navigate   enter: remotes   v: verify   ctrl+r: reload   q: quit\n"
	if m.verifier == nil {
		footer = " ↑/↓: navigate   enter: remotes   ctrl+r: reload   q: quit\n"
	}
	return header + separator + m.list.View() + "\n" + separator + statusBar + separator + footer
}

func (m AppModel) renderRemotesView() string {
	header := headerStyle.Render(" scmfinder | "+m.selected.Name()) + "\n"
	title := " Remotes\n"
	footer := " ↑/↓: navigate   v: verify   esc: back   q: quit\n"
	return header + separator + title + m.remotes.View() + "\n" + separator + m.statusBar() + separator + footer
}

func (m AppModel) statusBar() string {
	r := m.selected
	if r.Item == nil {
		return "\n"
	}
	switch {
	case m.verifying == r.Name():
		return fmt.Sprintf(" %s: verifying %s...\n", r.Name(), r.Identity())
	case r.Resolved:
		line := fmt.Sprintf(" %s: %s (%s)", r.Name(), r.Identity(), r.Repository.Host)
		if v, ok := m.list.Verdict(r.Name()); ok {
			if v.Err != nil {
				line += " " + errorStyle.Render(v.Err.Error())
			} else {
				line += " " + verifiedLabel + " as " + v.Name
			}
		}
		return line + "\n"
	case r.SCM != nil:
		return fmt.Sprintf(" %s: git SCM without a usable first remote\n", r.Name())
	case r.Findable:
		return fmt.Sprintf(" %s: no git SCM\n", r.Name())
	default:
		return fmt.Sprintf(" %s: not handled by any strategy\n", r.Name())
	}
}

// Run starts the Bubbletea program.
func Run(scanner Scanner, verifier domain.RepositoryVerifier) error {
	p := tea.NewProgram(NewAppModel(scanner, verifier), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("scmfinder browse: %w", err)
	}
	return nil
}
