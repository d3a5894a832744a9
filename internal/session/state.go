package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mixingo/mixingo/internal/ctm"
)

// DemoUserID is sent forward when no real user id exists.
const DemoUserID = "demo"

// Session is one learner's pass through the flow. It lives only in memory.
type Session struct {
	ID        string
	CreatedAt time.Time

	// DemoMode replaces every backend call with fixtures.
	DemoMode bool

	// UserID is assigned by the backend on warm-up submission.
	UserID string

	// ModuleID is the module chosen on the results screen.
	ModuleID string

	Selection Selection
	Signals   *Signals
	Analysis  *ctm.Analysis

	// Sample is set when live submission failed and the flow continues on fixtures.
	Sample bool
}

// EffectiveUserID returns the user id, or DemoUserID when none was assigned.
func (s *Session) EffectiveUserID() string {
	if s.UserID == "" {
		return DemoUserID
	}
	return s.UserID
}

// HasUser reports whether the backend assigned a real user id.
func (s *Session) HasUser() bool {
	return s.UserID != "" && s.UserID != DemoUserID
}

// SetDemoMode switches demo mode and reports whether it changed.
func (s *Session) SetDemoMode(on bool) bool {
	if s.DemoMode == on {
		return false
	}
	s.DemoMode = on
	return true
}

// ResetProgress clears everything learned after onboarding.
func (s *Session) ResetProgress() {
	s.UserID = ""
	s.ModuleID = ""
	s.Signals = nil
	s.Analysis = nil
	s.Sample = false
}

// Registry holds live sessions by id. Loaders read it from command goroutines.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new session. Demo sessions start with the demo profile.
func (r *Registry) Create(demo bool) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		DemoMode:  demo,
	}
	if demo {
		s.Selection = DemoSelection()
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session registered under id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Drop forgets the session registered under id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns a copy that loader goroutines can read while the
// original keeps changing on the UI goroutine.
func (s *Session) Snapshot() *Session {
	c := *s
	c.Selection = Selection{known: s.Selection.Known(), Target: s.Selection.Target, Goal: s.Selection.Goal}
	return &c
}
