package service

import (
	"errors"
	"log"
	"sync"

	branchService "canvassers_backend/internals/features/branches/service"
	"canvassers_backend/internals/features/notify"

	"github.com/google/uuid"
)

// Manager membuat Session per user secara lazy.
type Manager struct {
	deps *deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	closed   bool
}

func NewManager(store Store, branches branchService.Directory, notifier notify.Notifier, policy Policy) *Manager {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	m := &Manager{
		deps: &deps{
			store:    store,
			branches: branches,
			notifier: notifier,
			policy:   policy.withDefaults(),
		},
		sessions: map[uuid.UUID]*Session{},
	}
	m.deps.evict = m.evict
	return m
}

func (m *Manager) Session(userID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrSessionClosed
	}
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s := newSession(userID, m.deps)
	m.sessions[userID] = s
	return s, nil
}

// With menjalankan fn pada sesi user. Kalau sesi tertutup (idle atau Forget) sebelum
// perintahnya diterima, fn diulang sekali dengan sesi baru; perintah yang ditolak belum dijalankan.
func (m *Manager) With(userID uuid.UUID, fn func(*Session) error) error {
	for attempt := 0; ; attempt++ {
		s, err := m.Session(userID)
		if err != nil {
			return err
		}
		err = fn(s)
		if attempt == 0 && errors.Is(err, ErrSessionClosed) && !m.isClosed() {
			continue
		}
		return err
	}
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// evict dipanggil dari loop sesi yang idle; tidak menunggu loop.
func (m *Manager) evict(s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[s.userID]; !ok || cur != s {
		return false
	}
	delete(m.sessions, s.userID)
	log.Printf("[INFO] attendance session %s released (idle)", s.userID)
	return true
}

// Forget menutup sesi user (logout, perubahan data oleh admin). State dimuat ulang dari store di akses berikutnya.
func (m *Manager) Forget(userID uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close menutup semua sesi; dipanggil saat shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	sessions := m.sessions
	m.sessions = map[uuid.UUID]*Session{}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	log.Printf("[INFO] attendance manager closed (%d sessions)", len(sessions))
}
