package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
)

// PanelID identifies one of the two result panels.
type PanelID int

const (
	Panel1 PanelID = 1
	Panel2 PanelID = 2
)

// Valid reports whether id names an existing panel.
func (id PanelID) Valid() bool {
	return id == Panel1 || id == Panel2
}

// PanelState is the selection of a result panel.
type PanelState struct {
	Selection  results.Selection
	Display    surface.DisplayMode
	Style      surface.Style
	Resolution surface.Resolution
}

// ViewState holds the overlap panel's own selectors.
type ViewState struct {
	Style      surface.Style
	Resolution surface.Resolution
}

type panel struct {
	state PanelState
	token string
}

// Session is the dashboard state of one browser.
type Session struct {
	ID string

	mu      sync.RWMutex
	root    string
	scan    *results.ScanResult
	panels  map[PanelID]*panel
	overlap ViewState
	seen    time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:     id,
		panels: make(map[PanelID]*panel, 2),
		seen:   now,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.seen = now
	s.mu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen
}

// Root returns the results root of the last scan.
func (s *Session) Root() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Catalog returns the memoized catalog, or nil before a successful scan.
func (s *Session) Catalog() results.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scan == nil {
		return nil
	}
	return s.scan.Catalog
}

// ScanResult returns the last successful scan.
func (s *Session) ScanResult() *results.ScanResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scan
}

func (s *Session) setCatalog(root string, res *results.ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if root != s.root {
		// A new root invalidates every selection made against the old catalog.
		s.panels = make(map[PanelID]*panel, 2)
	}
	s.root = root
	s.scan = res
}

func (s *Session) clearCatalog(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	s.scan = nil
	s.panels = make(map[PanelID]*panel, 2)
}

// Begin records a new state for a panel and returns the token of this
// request. Results computed for an older token are stale.
func (s *Session) Begin(id PanelID, state PanelState) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.panels[id] = &panel{state: state, token: token}
	s.mu.Unlock()
	return token
}

// Current reports whether token is still the latest request of the panel.
func (s *Session) Current(id PanelID, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[id]
	return ok && p.token == token
}

// Panel returns the last state recorded for a panel.
func (s *Session) Panel(id PanelID) (PanelState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[id]
	if !ok {
		return PanelState{}, false
	}
	return p.state, true
}

// SetOverlapView records the overlap panel's selectors.
func (s *Session) SetOverlapView(v ViewState) {
	s.mu.Lock()
	s.overlap = v
	s.mu.Unlock()
}

// OverlapView returns the overlap panel's selectors.
func (s *Session) OverlapView() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlap
}
