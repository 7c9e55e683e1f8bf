package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"storescout/internal/conversation"
	"storescout/internal/view"
)

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.styles.Header.Width(m.width).Render("scout — find stores near you")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.pane.Render(),
		m.renderSidebar(),
	)

	chat := m.renderChat()
	footer := m.styles.Footer.Render(m.footerHints())

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, chat, footer)

	if msg, ok := m.coord.Alert(); ok {
		alert := m.styles.Alert.Render(msg + "\n\n" + m.styles.Muted.Render("press any key to dismiss"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, alert)
	}
	return screen
}

// renderSidebar shows the address search box, the dropdown when
// candidates are pending, and the results panel beneath.
func (m Model) renderSidebar() string {
	var b strings.Builder

	switch {
	case m.coord.Locating():
		m.searchInput.Placeholder = "Locating you..."
	case m.locateFailed:
		m.searchInput.Placeholder = "Enter your address..."
	}

	b.WriteString(m.styles.Prompt.Render("Where?"))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")

	if cands := m.coord.Candidates(); len(cands) > 0 && m.focus == FocusSearch {
		for i, c := range cands {
			style := m.styles.Dropdown
			if i == m.dropIdx {
				style = m.styles.DropdownPick
			}
			b.WriteString(style.Render(c.Label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderResults())
	return m.styles.Panel.Render(b.String())
}

func (m Model) renderResults() string {
	if m.coord.Searching() {
		return m.spin.View() + " Searching nearby stores..."
	}
	if notice, ok := m.coord.Notice(); ok {
		return m.styles.Error.Render(notice)
	}

	views := m.coord.Views()
	switch views.State() {
	case view.StateIdle:
		return m.styles.Muted.Render("Share your location (ctrl+l) or search an address to begin.")

	case view.StateDetail:
		id, _ := views.DetailID()
		if rec, ok := m.coord.Cache().Lookup(id); ok {
			return m.panel.RenderDetail(rec)
		}
		return ""

	default:
		snapshot, _ := views.Snapshot()
		if m.focus == FocusResults && views.State() == view.StateList {
			return m.renderListWithCursor(snapshot)
		}
		return snapshot
	}
}

// renderListWithCursor marks the row block for the selected store. The
// stored snapshot itself is never modified.
func (m Model) renderListWithCursor(snapshot string) string {
	marker := fmt.Sprintf("%d. ", m.listIdx+1)
	lines := strings.Split(snapshot, "\n")
	for i, line := range lines {
		if strings.Contains(line, marker) {
			lines[i] = m.styles.Prompt.Render("▸ ") + line
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderChat() string {
	var b strings.Builder
	b.WriteString(m.styles.RenderDivider(m.width))
	b.WriteString("\n")
	b.WriteString(m.transcript.View())
	b.WriteString("\n")
	b.WriteString(m.chatInput.View())
	return b.String()
}

// refreshTranscript re-renders the conversation into the viewport and
// follows the newest entry.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	entries := m.coord.Transcript().Entries()
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, m.renderEntry(e))
	}
	m.transcript.SetContent(strings.Join(parts, "\n"))
	if m.coord.Transcript().ConsumeScroll() {
		m.transcript.GotoBottom()
	}
}

func (m Model) renderEntry(e conversation.Entry) string {
	switch {
	case e.Transient:
		return m.spin.View() + " " + m.styles.Muted.Render(e.Text)

	case e.IsCard():
		return m.styles.Card.Render(e.Text) + "\n" + m.styles.Muted.Render("  ctrl+o: open suggestion")

	case e.Role == conversation.RoleUser:
		return m.styles.Prompt.Render("You ") + m.styles.UserInput.Render(e.Text)

	default:
		if m.renderer != nil {
			if out, err := m.renderer.Render(e.Text); err == nil {
				return m.styles.AgentResponse.Render(strings.TrimRight(out, "\n"))
			}
		}
		return m.styles.AgentResponse.Render(e.Text)
	}
}

func (m Model) footerHints() string {
	switch m.focus {
	case FocusSearch:
		return "enter: pick address • ↑/↓: candidates • esc: clear • tab: results"
	case FocusResults:
		return "enter: details • ↑/↓: select • esc: back • tab: chat"
	default:
		return "enter: send • ctrl+l: locate me • ctrl+o: open suggestion • tab: address search • ctrl+c: quit"
	}
}
