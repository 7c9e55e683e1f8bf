// Package tui provides the interactive terminal client: a map pane, a
// results panel and an assistant transcript, all driven by the
// coordinator's event loop.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"storescout/cmd/scout/ui"
	"storescout/internal/coordinator"
	"storescout/internal/logging"
)

// Focus determines which component receives keystrokes.
type Focus int

const (
	FocusChat Focus = iota
	FocusSearch
	FocusResults
)

// eventMsg carries one coordinator event into the bubbletea loop.
type eventMsg struct {
	ev coordinator.Event
}

// effectsCmd turns coordinator effects into bubbletea commands.
func effectsCmd(effects []coordinator.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(effects))
	for i, eff := range effects {
		eff := eff
		cmds[i] = func() tea.Msg { return eventMsg{ev: eff()} }
	}
	return tea.Batch(cmds...)
}

// Model is the bubbletea model for the scout client.
type Model struct {
	coord *coordinator.Coordinator
	pane  *MapPane
	panel *ui.Panel

	// UI Components
	chatInput   textarea.Model
	searchInput textinput.Model
	transcript  viewport.Model
	spin        spinner.Model
	styles      ui.Styles
	renderer    *glamour.TermRenderer

	// State
	focus        Focus
	dropIdx      int
	listIdx      int
	lastCard     string
	locateFailed bool
	width        int
	height       int
	ready        bool
}

// NewModel assembles the TUI around an already-wired coordinator whose
// overlay surface is the given map pane.
func NewModel(coord *coordinator.Coordinator, pane *MapPane, panel *ui.Panel, styles ui.Styles) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about nearby stores..."
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Search an address..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		coord:       coord,
		pane:        pane,
		panel:       panel,
		chatInput:   ta,
		searchInput: ti,
		spin:        sp,
		styles:      styles,
		focus:       FocusChat,
	}
}

// Init requests the device position as the first action.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spin.Tick,
		effectsCmd([]coordinator.Effect{m.coord.LocateByDevice()}),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		follow := m.coord.Apply(msg.ev)
		switch msg.ev.(type) {
		case coordinator.DeviceLocateFailed:
			m.locateFailed = true
		case coordinator.DeviceLocated:
			m.locateFailed = false
		}
		m.clampSelections()
		m.refreshTranscript()
		return m, effectsCmd(follow)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		logging.Session("quit")
		return m, tea.Quit
	}

	// A blocking alert swallows every key until dismissed.
	if _, blocked := m.coord.Alert(); blocked {
		m.coord.DismissAlert()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		return m.cycleFocus(), nil

	case tea.KeyEsc:
		return m.handleEscape()

	case tea.KeyCtrlL:
		// Retry the device fix.
		return m, effectsCmd([]coordinator.Effect{m.coord.LocateByDevice()})

	case tea.KeyCtrlO:
		// Open the most recent suggestion card.
		if m.lastCard != "" {
			m.coord.SelectStore(m.lastCard)
		}
		return m, nil
	}

	switch m.focus {
	case FocusSearch:
		return m.handleSearchKey(msg)
	case FocusResults:
		return m.handleResultsKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	if _, inDetail := m.coord.Views().DetailID(); inDetail {
		m.coord.Back()
		return m, nil
	}
	if m.focus == FocusSearch && m.searchInput.Value() != "" {
		m.searchInput.SetValue("")
		m.coord.QueryChanged("")
		m.dropIdx = 0
		return m, nil
	}
	logging.Session("quit")
	return m, tea.Quit
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter && !msg.Alt {
		effects := m.coord.SendChat(m.chatInput.Value())
		if effects != nil {
			m.chatInput.Reset()
			m.refreshTranscript()
		}
		return m, effectsCmd(effects)
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cands := m.coord.Candidates()
	switch msg.Type {
	case tea.KeyUp:
		if m.dropIdx > 0 {
			m.dropIdx--
		}
		return m, nil
	case tea.KeyDown:
		if m.dropIdx < len(cands)-1 {
			m.dropIdx++
		}
		return m, nil
	case tea.KeyEnter:
		if len(cands) > 0 {
			effects := m.coord.PickCandidate(m.dropIdx)
			m.searchInput.SetValue("")
			m.dropIdx = 0
			return m, effectsCmd(effects)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.coord.QueryChanged(m.searchInput.Value())
	m.dropIdx = 0
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.coord.Results()
	switch msg.Type {
	case tea.KeyUp:
		if m.listIdx > 0 {
			m.listIdx--
		}
	case tea.KeyDown:
		if m.listIdx < len(results)-1 {
			m.listIdx++
		}
	case tea.KeyEnter:
		if m.listIdx < len(results) {
			m.coord.SelectStore(results[m.listIdx].ID)
		}
	}
	return m, nil
}

func (m Model) cycleFocus() Model {
	m.chatInput.Blur()
	m.searchInput.Blur()
	switch m.focus {
	case FocusChat:
		m.focus = FocusSearch
		m.searchInput.Focus()
	case FocusSearch:
		m.focus = FocusResults
	default:
		m.focus = FocusChat
		m.chatInput.Focus()
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)
	m.chatInput, taCmd = m.chatInput.Update(msg)
	m.searchInput, tiCmd = m.searchInput.Update(msg)
	m.transcript, vpCmd = m.transcript.Update(msg)
	return m, tea.Batch(taCmd, tiCmd, vpCmd)
}

func (m Model) resize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	mapW := msg.Width * 3 / 5
	panelW := msg.Width - mapW - 4
	mapH := msg.Height - 12
	if mapH < 8 {
		mapH = 8
	}
	m.pane.SetSize(mapW-2, mapH)
	m.panel.SetWidth(panelW)

	transcriptH := msg.Height - mapH - 9
	if transcriptH < 3 {
		transcriptH = 3
	}
	if !m.ready {
		m.transcript = viewport.New(msg.Width-4, transcriptH)
		m.ready = true
	} else {
		m.transcript.Width = msg.Width - 4
		m.transcript.Height = transcriptH
	}

	m.chatInput.SetWidth(msg.Width - 6)
	m.searchInput.Width = panelW - 4

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(msg.Width-8),
	); err == nil {
		m.renderer = r
	}

	m.refreshTranscript()
	return m
}

// clampSelections keeps the dropdown and list cursors inside the data
// after each state change, and remembers the newest suggestion card.
func (m *Model) clampSelections() {
	if n := len(m.coord.Candidates()); m.dropIdx >= n {
		m.dropIdx = 0
	}
	if n := len(m.coord.Results()); m.listIdx >= n {
		m.listIdx = 0
	}
	entries := m.coord.Transcript().Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].IsCard() {
			m.lastCard = entries[i].CardID
			break
		}
	}
}
