package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/pubsub"
	"github.com/questx-lab/agora/pkg/ws"
	"github.com/questx-lab/agora/pkg/xcontext"
)

// Server pushes published notifications to the websocket sessions of their
// recipients.
type Server struct {
	name string
	hubs *xsync.MapOf[string, *UserHub]

	// joinMutex serializes creating and removing hubs, lookups are lock-free.
	joinMutex sync.Mutex
}

func NewServer(name string) *Server {
	return &Server{
		name: name,
		hubs: xsync.NewMapOf[*UserHub](),
	}
}

// HandleEvent is the subscriber handler of the notification topic.
func (s *Server) HandleEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var n model.Notification
	if err := json.Unmarshal(pack.Msg, &n); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal notification: %v", err)
		return
	}

	hub, ok := s.hubs.Load(n.RecipientID)
	if !ok {
		return
	}

	b, err := json.Marshal(EventResponse{Op: OpNotification, Data: n})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal notification event: %v", err)
		return
	}

	hub.Send(b)
}

func (s *Server) join(session *Session) {
	s.joinMutex.Lock()
	defer s.joinMutex.Unlock()

	hub, ok := s.hubs.Load(session.userID)
	if !ok {
		hub = NewUserHub(session.userID)
		s.hubs.Store(session.userID, hub)
	}

	session.Join(hub)
	common.PromGauges[common.WebsocketSessions].WithLabelValues(s.name).Inc()
}

func (s *Server) leave(session *Session) {
	s.joinMutex.Lock()
	defer s.joinMutex.Unlock()

	hub := session.hub
	session.Leave()
	if hub != nil && hub.IsEmpty() {
		s.hubs.Delete(session.userID)
	}

	common.PromGauges[common.WebsocketSessions].WithLabelValues(s.name).Dec()
}

// ServeWebsocket runs one session of the request user until the client goes
// away.
func (s *Server) ServeWebsocket(ctx context.Context, client *ws.Client) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errorx.New(errorx.Unauthenticated, "Need authentication")
	}

	session := NewSession(userID)
	s.join(session)
	defer s.leave(session)

	var seq int64
	write := func(op string, data any) error {
		b, err := json.Marshal(EventResponse{Op: op, Seq: seq, Data: data})
		if err != nil {
			return err
		}

		seq++
		return client.Write(b)
	}

	if err := write(OpReady, nil); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot send ready event: %v", err)
		return nil
	}

	for {
		select {
		case msg := <-session.C:
			var resp EventResponse
			if err := json.Unmarshal(msg, &resp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal event: %v", err)
				continue
			}

			if err := write(resp.Op, resp.Data); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot send event to client: %v", err)
				return nil
			}

		case req, ok := <-client.R:
			if !ok {
				return nil
			}

			var d Directive
			if err := json.Unmarshal(req, &d); err != nil {
				xcontext.Logger(ctx).Debugf("Invalid directive: %v", err)
				continue
			}

			if d.Op == OpPing {
				if err := write(OpPong, nil); err != nil {
					return nil
				}
			}

		case <-client.Done():
			return nil

		case <-ctx.Done():
			client.Close()
			return nil
		}
	}
}
