package scout

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "matchscout/internal/modules/session/dto"
	"matchscout/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ScoutPort interface {
	SelectTeam(ctx context.Context, input sessiondto.SelectInput) (sessiondto.SelectOutput, error)
	Next(ctx context.Context) error
	Back(ctx context.Context) error
	Submit(ctx context.Context) error
	Current() sessiondto.SessionView
	Reset()
}

// ─── messages ────────────────────────────────────────────────────────────────

type SelectedMsg struct {
	Out sessiondto.SelectOutput
	Err error
}

type SteppedMsg struct{ Err error }

type SubmittedMsg struct{ Err error }

type resetMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port ScoutPort
	err  error

	// selection entry buffer, edited before a claim is requested
	editing  bool
	input    string
	conflict bool
}

func New(port ScoutPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SelectedMsg:
		m.err = msg.Err
		m.conflict = msg.Out.Conflict
		if msg.Err == nil && msg.Out.Granted {
			m.editing = false
			m.input = ""
		}
		return m, nil
	case SteppedMsg, SubmittedMsg:
		if stepped, ok := msg.(SteppedMsg); ok {
			m.err = stepped.Err
		} else {
			m.err = msg.(SubmittedMsg).Err
		}
		view := m.port.Current()
		if view.Submission == "local" || view.Submission == "warning" || view.Submission == "success" {
			// Show the resolution briefly, then start blank.
			return m, func() tea.Msg { return resetMsg{} }
		}
		return m, nil
	case resetMsg:
		m.port.Reset()
		m.editing = true
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editing {
		return m.handleEntryKey(msg)
	}
	switch msg.String() {
	case "n", "right":
		port := m.port
		return m, func() tea.Msg { return SteppedMsg{Err: port.Next(context.Background())} }
	case "b", "left":
		port := m.port
		return m, func() tea.Msg { return SteppedMsg{Err: port.Back(context.Background())} }
	case "s":
		if m.port.Current().Phase == "post" {
			port := m.port
			return m, func() tea.Msg { return SubmittedMsg{Err: port.Submit(context.Background())} }
		}
	case "t":
		m.editing = true
		m.input = ""
	}
	return m, nil
}

// handleEntryKey accepts a "matchType match team alliance" line, e.g.
// "qm 12 254 red".
func (m Model) handleEntryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		input, ok := parseSelection(m.input)
		if !ok {
			m.err = fmt.Errorf("expected: <matchType> <match> <team> [alliance]")
			return m, nil
		}
		port := m.port
		return m, func() tea.Msg {
			out, err := port.SelectTeam(context.Background(), input)
			return SelectedMsg{Out: out, Err: err}
		}
	case "esc":
		m.editing = false
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if len(msg.String()) == 1 || msg.String() == " " {
			m.input += msg.String()
		}
	}
	return m, nil
}

func parseSelection(raw string) (sessiondto.SelectInput, bool) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return sessiondto.SelectInput{}, false
	}
	var match, team int
	if _, err := fmt.Sscanf(fields[1], "%d", &match); err != nil {
		return sessiondto.SelectInput{}, false
	}
	if _, err := fmt.Sscanf(fields[2], "%d", &team); err != nil {
		return sessiondto.SelectInput{}, false
	}
	out := sessiondto.SelectInput{MatchType: fields[0], MatchNumber: match, TeamNumber: team}
	if len(fields) > 3 {
		out.Alliance = fields[3]
	}
	return out, true
}

func (m Model) View() string {
	view := m.port.Current()
	b := strings.Builder{}
	b.WriteString(theme.Title.Render("matchscout") + "\n\n")

	if m.editing {
		b.WriteString("select team: " + m.input + theme.Hot.Render("▌") + "\n")
		if m.conflict {
			b.WriteString(theme.Bad.Render("that team is claimed by another scouter") + "\n")
		}
		b.WriteString("\n" + theme.Muted.Render("enter claim · esc cancel"))
		return theme.PaneActive.Render(b.String())
	}

	if !view.Active {
		b.WriteString(theme.Muted.Render("no active session") + "\n")
	} else {
		b.WriteString(fmt.Sprintf("%s match %d · team %d · %s\n", view.MatchType, view.MatchNumber, view.TeamNumber, view.Alliance))
		b.WriteString("phase: " + theme.Hot.Render(view.Phase) + "\n")
	}

	switch view.Submission {
	case "success":
		b.WriteString(theme.Good.Render("submitted") + "\n")
	case "local":
		b.WriteString(theme.Warn.Render("saved locally, not yet sent") + "\n")
	case "warning":
		b.WriteString(theme.Warn.Render("sent status unknown, preserved locally") + "\n")
	case "error":
		b.WriteString(theme.Bad.Render("submit failed: "+view.SubmissionMessage) + "\n")
	case "loading":
		b.WriteString(theme.Muted.Render("submitting…") + "\n")
	}
	if m.err != nil {
		b.WriteString(theme.Bad.Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	}

	b.WriteString("\n" + theme.Muted.Render("t team · n next · b back · s submit · q quit"))
	return theme.Pane.Render(b.String())
}
