package checkout

import (
	"errors"
	"sync"
	"time"

	"bizlist/internal/verification"
	"bizlist/internal/widget"
)

// Session ties together everything one checkout needs: the widget manager,
// the email gate and the orchestrator, plus what is being paid for.
type Session struct {
	ID          string
	UserID      uint
	Kind        string // CLASSIFIED | SUBSCRIPTION
	ReferenceID uint
	AmountCents int64
	Currency    string
	ContainerID string
	CreatedAt   time.Time

	Manager      *widget.Manager
	Gate         *verification.Gate
	Orchestrator *Orchestrator
}

var ErrSessionNotFound = errors.New("checkout session not found")

// Store holds live checkout sessions in memory, keyed by session ID. A
// session lives from checkout-view mount to unmount; Remove tears down the
// widget manager with it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove drops the session and closes its widget manager. Removing a
// missing or already-removed session is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok && sess.Manager != nil {
		sess.Manager.Close()
	}
}
