package session

import (
	"sync"
	"time"

	"github.com/nikolayk812/smartpos/internal/domain"
	"golang.org/x/text/currency"
)

// Session owns the cart of one terminal. Everything touching the cart goes
// through Do, so mutations and checkout on one terminal never interleave.
type Session struct {
	terminalID string
	openedAt   time.Time

	mu   sync.Mutex
	cart *domain.Cart
}

func (s *Session) TerminalID() string {
	return s.terminalID
}

func (s *Session) OpenedAt() time.Time {
	return s.openedAt
}

// Do runs fn with exclusive access to the session's cart.
func (s *Session) Do(fn func(cart *domain.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.cart)
}

// Registry maps terminal IDs to sessions. Terminals never share a cart.
type Registry struct {
	currency currency.Unit
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(cur currency.Unit) *Registry {
	return &Registry{
		currency: cur,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open returns the terminal's session, creating it with an empty cart on first use.
func (r *Registry) Open(terminalID string) (*Session, error) {
	if terminalID == "" {
		return nil, domain.NewValidationError("terminal id is empty")
	}

	r.mu.RLock()
	s, ok := r.sessions[terminalID]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[terminalID]; ok {
		return s, nil
	}

	s = &Session{
		terminalID: terminalID,
		openedAt:   r.now(),
		cart:       domain.NewCart(r.currency),
	}
	r.sessions[terminalID] = s

	return s, nil
}

func (r *Registry) Get(terminalID string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[terminalID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "terminal session", ID: terminalID}
	}
	return s, nil
}

// Close drops the session and its cart. It reports whether one existed.
func (r *Registry) Close(terminalID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[terminalID]
	delete(r.sessions, terminalID)
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
