package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"matchscout/internal/ui/theme"
	resumeview "matchscout/internal/ui/views/resume"
	scoutview "matchscout/internal/ui/views/scout"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// Port is what the shell needs from the session engine; the sub-views
// narrow it further.
type Port interface {
	resumeview.ResumePort
	scoutview.ScoutPort
	Teardown()
}

// ─── model ───────────────────────────────────────────────────────────────────

type screen int

const (
	screenResume screen = iota
	screenScout
)

type Model struct {
	port   Port
	screen screen
	resume resumeview.Model
	scout  scoutview.Model
	width  int
	height int
}

func NewModel(port Port) Model {
	return Model{
		port:   port,
		screen: screenResume,
		resume: resumeview.New(port),
		scout:  scoutview.New(port),
	}
}

func (m Model) Init() tea.Cmd {
	return m.resume.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.screen == screenScout {
				// Best-effort claim release on the way out.
				m.port.Teardown()
				return m, tea.Quit
			}
		}
	case resumeview.DoneMsg:
		m.screen = screenScout
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenResume:
		m.resume, cmd = m.resume.Update(msg)
	case screenScout:
		m.scout, cmd = m.scout.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	switch m.screen {
	case screenResume:
		return theme.App.Render(m.resume.View())
	default:
		return theme.App.Render(m.scout.View())
	}
}
