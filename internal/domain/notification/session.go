package notification

import (
	"github.com/google/uuid"
)

type Session struct {
	C chan []byte

	id     string
	userID string
	hub    *UserHub
}

func NewSession(userID string) *Session {
	return &Session{
		C:      make(chan []byte, 16),
		id:     uuid.NewString(),
		userID: userID,
	}
}

func (s *Session) Join(hub *UserHub) {
	hub.register(s)
	s.hub = hub
}

func (s *Session) Leave() {
	if s.hub != nil {
		s.hub.unregister(s)
		s.hub = nil
	}
}
