package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"storescout/internal/coordinator"
	"storescout/internal/logging"
)

// Run starts the interactive client and blocks until it quits. The
// dispatch hook is installed before the program starts so debounced
// geocode completions can reach the loop from the first keystroke.
func Run(coord *coordinator.Coordinator, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	coord.SetDispatch(func(ev coordinator.Event) {
		p.Send(eventMsg{ev: ev})
	})
	logging.Session("tui started")
	_, err := p.Run()
	return err
}
