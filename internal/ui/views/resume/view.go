package resume

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	sessiondto "matchscout/internal/modules/session/dto"
	"matchscout/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ResumePort interface {
	Resumable(ctx context.Context) ([]sessiondto.ResumeEntry, error)
	Continue(ctx context.Context, matchType string, match, team int) (sessiondto.ResumeEntry, error)
	Discard(ctx context.Context, matchType string, match, team int) error
	AbandonResume()
}

// ─── messages ────────────────────────────────────────────────────────────────

type EntriesLoadedMsg struct {
	Entries []sessiondto.ResumeEntry
	Err     error
}

type ContinuedMsg struct {
	Entry sessiondto.ResumeEntry
	Err   error
}

type DiscardedMsg struct{ Err error }

// DoneMsg tells the app the dialog is resolved: either a session was
// resumed or the scouter chose to start new.
type DoneMsg struct {
	Resumed bool
	Entry   sessiondto.ResumeEntry
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    ResumePort
	entries []sessiondto.ResumeEntry
	cursor  int
	err     error
}

func New(port ResumePort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.port.Resumable(context.Background())
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EntriesLoadedMsg:
		m.entries = msg.Entries
		m.err = msg.Err
		if m.cursor >= len(m.entries) {
			m.cursor = 0
		}
		if msg.Err == nil && len(m.entries) == 0 {
			return m, func() tea.Msg { return DoneMsg{} }
		}
		return m, nil
	case ContinuedMsg:
		m.err = msg.Err
		if msg.Err == nil && msg.Entry.State == sessiondto.ResumeAvailable {
			entry := msg.Entry
			return m, func() tea.Msg { return DoneMsg{Resumed: true, Entry: entry} }
		}
		// Conflict or retryable failure: refresh the list, the entry
		// stays and is marked with its new state.
		return m, m.load()
	case DiscardedMsg:
		m.err = msg.Err
		return m, m.load()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter", "c":
		if entry, ok := m.selected(); ok && entry.State != sessiondto.ResumeChecking {
			port := m.port
			return m, func() tea.Msg {
				out, err := port.Continue(context.Background(), entry.MatchType, entry.MatchNumber, entry.TeamNumber)
				return ContinuedMsg{Entry: out, Err: err}
			}
		}
	case "d", "x":
		if entry, ok := m.selected(); ok {
			port := m.port
			return m, func() tea.Msg {
				err := port.Discard(context.Background(), entry.MatchType, entry.MatchNumber, entry.TeamNumber)
				return DiscardedMsg{Err: err}
			}
		}
	case "n":
		// Start new: abandons the dialog, stored entries untouched.
		m.port.AbandonResume()
		return m, func() tea.Msg { return DoneMsg{} }
	}
	return m, nil
}

func (m Model) selected() (sessiondto.ResumeEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return sessiondto.ResumeEntry{}, false
	}
	return m.entries[m.cursor], true
}

func (m Model) View() string {
	b := strings.Builder{}
	b.WriteString(theme.Title.Render("Interrupted sessions") + "\n\n")
	if m.err != nil {
		b.WriteString(theme.Bad.Render(fmt.Sprintf("error: %v", m.err)) + "\n\n")
	}
	for idx, entry := range m.entries {
		marker := "  "
		if idx == m.cursor {
			marker = theme.Hot.Render("> ")
		}
		line := fmt.Sprintf("%s%s match %d team %d — %s", marker, entry.MatchType, entry.MatchNumber, entry.TeamNumber, entry.Phase)
		switch entry.State {
		case sessiondto.ResumeConflict:
			line += theme.Bad.Render("  [claimed elsewhere]")
		case sessiondto.ResumeRetry:
			line += theme.Warn.Render("  [retry]")
		case sessiondto.ResumeChecking:
			line += theme.Muted.Render("  [checking…]")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("enter continue · d discard · n start new"))
	return theme.Pane.Render(b.String())
}
