package notification

import "github.com/questx-lab/agora/internal/entity"

// Event is raised by the domains after a successful action which concerns
// another user.
type Event struct {
	Type        entity.NotificationType
	ActorID     string
	RecipientID string
	CommunityID string
	PostID      string
	CommentID   string
}

const (
	OpNotification = "notification"
	OpReady        = "ready"
	OpPing         = "ping"
	OpPong         = "pong"
)

// EventResponse is the frame written to websocket sessions. Seq increases by
// one for each frame of a session.
type EventResponse struct {
	Op   string `json:"o"`
	Seq  int64  `json:"s"`
	Data any    `json:"d,omitempty"`
}

// Directive is a frame sent by the client.
type Directive struct {
	Op string `json:"o"`
}
