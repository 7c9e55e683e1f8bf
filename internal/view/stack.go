// Package view tracks which results panel is showing and the rendered
// list snapshot that back-navigation restores verbatim.
package view

// State names the panel currently presented.
type State string

const (
	StateIdle   State = "idle"
	StateList   State = "list"
	StateEmpty  State = "empty"
	StateDetail State = "detail"
)

// Stack is the results-panel state machine. List and empty states keep
// the rendered snapshot captured when the results arrived; returning
// from a detail view restores that snapshot without re-rendering.
type Stack struct {
	state       State
	snapshot    string
	count       int
	hasSnapshot bool
	detailID    string
}

// NewStack starts in the idle state.
func NewStack() *Stack {
	return &Stack{state: StateIdle}
}

// State reports the current panel.
func (s *Stack) State() State { return s.state }

// ShowList presents a fresh result set. A zero count presents the
// empty-result notice instead; either way the snapshot replaces any
// previous one and any open detail view is dropped.
func (s *Stack) ShowList(snapshot string, count int) {
	s.snapshot = snapshot
	s.count = count
	s.hasSnapshot = true
	s.detailID = ""
	if count == 0 {
		s.state = StateEmpty
		return
	}
	s.state = StateList
}

// ShowDetail presents a single store. It is legal from any state, so a
// suggestion-card click works before any search has run.
func (s *Stack) ShowDetail(id string) {
	s.detailID = id
	s.state = StateDetail
}

// DetailID returns the store being detailed, if any.
func (s *Stack) DetailID() (string, bool) {
	if s.state != StateDetail {
		return "", false
	}
	return s.detailID, true
}

// Snapshot returns the stored list rendering and its result count.
func (s *Stack) Snapshot() (string, int) {
	return s.snapshot, s.count
}

// Back leaves the detail view, restoring the stored list snapshot or
// the idle state if no search preceded the detail. Outside a detail
// view it is a no-op and reports false.
func (s *Stack) Back() bool {
	if s.state != StateDetail {
		return false
	}
	s.detailID = ""
	switch {
	case !s.hasSnapshot:
		s.state = StateIdle
	case s.count > 0:
		s.state = StateList
	default:
		s.state = StateEmpty
	}
	return true
}
