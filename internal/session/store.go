// Package session keeps one analysis form per browser session and evicts
// forms that have gone idle.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/patentlens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patentlens/internal/ui/form"
)

// CookieName is the cookie carrying the session id.
const CookieName = "patentlens_session"

// Config controls idle eviction.
type Config struct {
	// IdleTimeout is how long a session may go untouched before eviction.
	IdleTimeout time.Duration
	// SweepInterval is how often idle sessions are looked for. Zero disables
	// the background sweeper; Sweep can still be called directly.
	SweepInterval time.Duration
}

// DefaultConfig returns the production eviction settings.
func DefaultConfig() Config {
	return Config{IdleTimeout: 30 * time.Minute, SweepInterval: time.Minute}
}

// Factory builds the form for a new session.
type Factory func() *form.Form

// Option configures a Store.
type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSizeObserver registers fn to receive the session count after every
// change.
func WithSizeObserver(fn func(n int)) Option {
	return func(s *Store) { s.onSize = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

type entry struct {
	form     *form.Form
	lastSeen time.Time
}

// Store maps session ids to forms.
type Store struct {
	cfg     Config
	newForm Factory
	logger  logging.Logger
	onSize  func(int)
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	stopSweep chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewStore creates a Store and starts its sweeper.
func NewStore(cfg Config, newForm Factory, opts ...Option) *Store {
	s := &Store{
		cfg:       cfg,
		newForm:   newForm,
		logger:    logging.NewNopLogger(),
		now:       time.Now,
		sessions:  make(map[string]*entry),
		stopSweep: make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("session")

	if cfg.SweepInterval > 0 && cfg.IdleTimeout > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}
	return s
}

// GetOrCreate returns the form for id, creating a session when id is empty,
// malformed, or unknown. The returned id is the one the caller should keep;
// created reports whether it is new.
func (s *Store) GetOrCreate(id string) (string, *form.Form, bool) {
	now := s.now()

	s.mu.Lock()
	if e, ok := s.sessions[id]; ok {
		e.lastSeen = now
		s.mu.Unlock()
		return id, e.form, false
	}

	id = uuid.NewString()
	e := &entry{form: s.newForm(), lastSeen: now}
	s.sessions[id] = e
	n := len(s.sessions)
	s.mu.Unlock()

	s.logger.Debug("session created", logging.String("session_id", id))
	s.reportSize(n)
	return id, e.form, true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than IdleTimeout, closing their forms,
// and returns how many it removed.
func (s *Store) Sweep() int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	threshold := s.now().Add(-s.cfg.IdleTimeout)

	var evicted []*form.Form
	s.mu.Lock()
	for id, e := range s.sessions {
		if e.lastSeen.Before(threshold) {
			evicted = append(evicted, e.form)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, f := range evicted {
		f.Close()
	}
	if len(evicted) > 0 {
		s.logger.Info("idle sessions evicted", logging.Int("evicted", len(evicted)), logging.Int("remaining", n))
		s.reportSize(n)
	}
	return len(evicted)
}

func (s *Store) sweepLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopSweep:
			return
		}
	}
}

// Close stops the sweeper and closes every form, aborting in-flight
// requests. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stopSweep) })
	<-s.done

	s.mu.Lock()
	forms := make([]*form.Form, 0, len(s.sessions))
	for id, e := range s.sessions {
		forms = append(forms, e.form)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, f := range forms {
		f.Close()
	}
	s.reportSize(0)
}

func (s *Store) reportSize(n int) {
	if s.onSize != nil {
		s.onSize(n)
	}
}
