package notification

import (
	"sync"
)

// UserHub holds every open session of one user.
type UserHub struct {
	userID   string
	sessions map[string]*Session

	mutex sync.RWMutex
}

func NewUserHub(userID string) *UserHub {
	return &UserHub{
		userID:   userID,
		sessions: make(map[string]*Session),
	}
}

// Send delivers msg to every session of the hub. A session whose buffer is
// full misses the message.
func (h *UserHub) Send(msg []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, s := range h.sessions {
		select {
		case s.C <- msg:
		default:
		}
	}
}

func (h *UserHub) register(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.sessions[session.id]; !ok {
		h.sessions[session.id] = session
	}
}

func (h *UserHub) unregister(session *Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.sessions, session.id)
}

func (h *UserHub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}
