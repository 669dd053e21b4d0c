package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Skotchmaster/green_homes/internal/cart"
	"github.com/Skotchmaster/green_homes/internal/storage"
)

type entry struct {
	mu       sync.Mutex
	store    *cart.Store
	ended    bool
	lastUsed time.Time
}

// Manager hands out one cart store per session and serializes access to it.
type Manager struct {
	st     storage.Storage
	log    *slog.Logger
	onOpen []func(sessionID string, s *cart.Store)

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

type ManagerOption func(*Manager)

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// OnOpen registers fn to run whenever a session's store is opened.
func OnOpen(fn func(sessionID string, s *cart.Store)) ManagerOption {
	return func(m *Manager) { m.onOpen = append(m.onOpen, fn) }
}

func NewManager(st storage.Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		st:       st,
		log:      slog.Default(),
		sessions: map[string]*entry{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) lookup(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{}
		m.sessions[id] = e
	}
	return e
}

// loadTimeout bounds the read of a saved cart when a session's store opens.
const loadTimeout = 5 * time.Second

// Do runs fn with the session's store while holding the session lock.
// A request arriving while the store is being torn down waits for the final
// flush and then reopens the store from storage.
func (m *Manager) Do(ctx context.Context, id string, fn func(s *cart.Store) error) error {
	for {
		e := m.lookup(id)
		e.mu.Lock()
		if e.ended {
			e.mu.Unlock()
			continue
		}
		if e.store == nil {
			// Detached from the request: a cancelled first request must not
			// open the session on an empty cart.
			loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
			e.store = cart.Open(loadCtx, m.st, cart.SessionKey(id), cart.WithLogger(m.log.With("session_id", id)))
			cancel()
			for _, hook := range m.onOpen {
				hook(id, e.store)
			}
		}
		// A request given up while waiting for the lock changes nothing.
		if err := ctx.Err(); err != nil {
			e.mu.Unlock()
			return err
		}
		e.lastUsed = m.now()
		err := fn(e.store)
		e.mu.Unlock()
		return err
	}
}

// release drops e from the session table if it is still the entry for id.
// Callers hold e.mu, so a waiting Do only retries once e is gone.
func (m *Manager) release(id string, e *entry) {
	m.mu.Lock()
	if m.sessions[id] == e {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
}

// End tears the session down and deletes its saved cart.
func (m *Manager) End(ctx context.Context, id string) error {
	e := m.lookup(id)
	e.mu.Lock()
	for e.ended {
		e.mu.Unlock()
		e = m.lookup(id)
		e.mu.Lock()
	}
	defer e.mu.Unlock()
	e.ended = true

	var closeErr error
	if e.store != nil {
		closeErr = e.store.Close(ctx)
	}
	var delErr error
	if m.st != nil {
		delErr = m.st.Delete(ctx, cart.SessionKey(id))
	}
	m.release(id, e)
	return errors.Join(closeErr, delErr)
}

// Sweep closes stores unused for longer than idle. Their carts stay saved and
// are reloaded on the next request.
func (m *Manager) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	type staleEntry struct {
		id string
		e  *entry
	}
	var stale []staleEntry

	m.mu.Lock()
	for id, e := range m.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.ended = true
			stale = append(stale, staleEntry{id: id, e: e})
		} else {
			e.mu.Unlock()
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		if s.e.store != nil {
			if err := s.e.store.Close(ctx); err != nil {
				m.log.Warn("session_sweep_error", "session_id", s.id, "error", err)
			}
		}
		m.release(s.id, s.e)
		s.e.mu.Unlock()
	}
	return len(stale)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close flushes every open store.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	all := make(map[string]*entry, len(m.sessions))
	for id, e := range m.sessions {
		all[id] = e
	}
	m.mu.Unlock()

	var errs []error
	for id, e := range all {
		e.mu.Lock()
		if !e.ended {
			e.ended = true
			if e.store != nil {
				errs = append(errs, e.store.Close(ctx))
			}
		}
		m.release(id, e)
		e.mu.Unlock()
	}
	return errors.Join(errs...)
}
