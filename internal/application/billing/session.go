package billing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/port"
)

// Session is one terminal's billing context: a cart, its dispatcher, and
// its submitter. Mutations within a session are serialized by the
// session lock; there is exactly one logical writer per cart.
type Session struct {
	ID         uuid.UUID
	Cart       *Cart
	Dispatcher *Dispatcher
	Submitter  *Submitter

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes access to the session's cart and state machine.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session lock.
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// SessionConfig holds the shared collaborators every session is wired
// with.
type SessionConfig struct {
	Gateway   port.PaymentGateway
	Backend   port.BillingBackend
	Notifiers []port.ReceiptNotifier
	Shop      ShopInfo
	Currency  string
	// SessionTTL is how long an untouched session survives before the
	// cleanup sweep reaps it, abandoned checkouts included.
	SessionTTL      time.Duration
	CleanupInterval time.Duration
}

// SessionManager owns the live billing sessions, one engine instance per
// terminal, and reaps sessions that have gone quiet.
type SessionManager struct {
	cfg      SessionConfig
	agg      *Aggregator
	log      zerolog.Logger
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewSessionManager creates a session manager and starts its background
// cleanup goroutine.
func NewSessionManager(cfg SessionConfig, log zerolog.Logger) *SessionManager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	m := &SessionManager{
		cfg:      cfg,
		agg:      NewAggregator(cfg.Shop.State),
		log:      log.With().Str("component", "sessions").Logger(),
		sessions: make(map[uuid.UUID]*Session),
	}
	go m.cleanupLoop()
	return m
}

// Aggregator returns the shared pricing aggregator.
func (m *SessionManager) Aggregator() *Aggregator {
	return m.agg
}

// Create starts a fresh billing session.
func (m *SessionManager) Create() *Session {
	cart := NewCart()
	submitter := NewSubmitter(m.cfg.Backend, m.agg, m.cfg.Shop, m.log, m.cfg.Notifiers...)
	session := &Session{
		ID:         uuid.New(),
		Cart:       cart,
		Dispatcher: NewDispatcher(cart, m.agg, m.cfg.Gateway, submitter, m.cfg.Currency, m.log),
		Submitter:  submitter,
		lastSeen:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.log.Info().Str("session_id", session.ID.String()).Msg("session created")
	return session
}

// Get returns a live session and marks it as seen.
func (m *SessionManager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	session.lastSeen = time.Now()
	m.mu.Unlock()
	return session, true
}

// Remove drops a session outright.
func (m *SessionManager) Remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// cleanupLoop periodically removes sessions nobody has touched within
// the TTL.
func (m *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

func (m *SessionManager) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.cfg.SessionTTL)
	for id, session := range m.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.log.Info().Str("session_id", id.String()).Msg("stale session reaped")
		}
	}
}
