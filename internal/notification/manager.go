package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "samovar/internal/errors"
)

// Session binds one admin connection to its notification center, its
// sound channel, and its hub subscriptions.
type Session struct {
	ID      string
	Center  *Center
	sink    *ChannelSink
	cancels []func()
}

// Sounds streams the session's playback commands; the connected
// client owns the audio device.
func (s *Session) Sounds() <-chan SoundCommand {
	return s.sink.Commands()
}

// Manager opens and closes admin notification sessions. Each session
// gets its own center; all sessions share the hub's per-entity-type
// consumers.
type Manager struct {
	hub    *Hub
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(hub *Hub, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		hub:      hub,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Open() (*Session, error) {
	sink := NewChannelSink()
	center := NewCenter(m.ttl, NewPlayer(sink))

	session := &Session{
		ID:     uuid.NewString(),
		Center: center,
		sink:   sink,
	}

	for _, eventType := range []EventType{EventOrder, EventMessage} {
		cancel, err := m.hub.Subscribe(eventType, func(evt Event) {
			center.Notify(evt)
		})
		if err != nil {
			session.teardown()
			center.Close()
			return nil, err
		}
		session.cancels = append(session.cancels, cancel)
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("admin notification session opened", zap.String("sessionId", session.ID))
	return session, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("session " + id + " not found")
	}
	return session, nil
}

func (m *Manager) Close(id string) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}

	session.teardown()
	session.Center.Close()
	m.logger.Info("admin notification session closed", zap.String("sessionId", id))
}

func (s *Session) teardown() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
}
