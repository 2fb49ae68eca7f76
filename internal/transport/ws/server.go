package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/silentchat/relay-service/internal/domain"

	"github.com/gorilla/websocket"
)

type MemberSvc interface {
	EnsureMembership(ctx context.Context, roomID, userID string) error
}

type ChatSvc interface {
	Save(ctx context.Context, roomID, senderID string, receiverID *string, msgType, iv, ciphertext string) (*domain.Message, error)
	History(ctx context.Context, roomID, userID string, limit int) ([]domain.Message, error)
}

// Server runs one session per connection: it validates the join handshake,
// maintains presence in the hub, and feeds the steady-state loop into the
// router. Storage failures degrade the session, never end it.
type Server struct {
	upgrader  websocket.Upgrader
	hub       *Hub
	router    *Router
	memberSvc MemberSvc
	chatSvc   ChatSvc

	historyLimit int
}

func NewServer(hub *Hub, member MemberSvc, chat ChatSvc, historyLimit int) *Server {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		hub:          hub,
		router:       NewRouter(hub, chat),
		memberSvc:    member,
		chatSvc:      chat,
		historyLimit: historyLimit,
	}
}

// HandleWS upgrades GET /ws and runs the session to completion.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	s.serve(r.Context(), newWsConn(conn))
}

func (s *Server) serve(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(2 * pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * pingEvery))
		return nil
	})
	go s.keepalive(c)

	join, ok := s.awaitJoin(c)
	if !ok {
		c.closePolicyViolation()
		return
	}

	s.hub.Register(join.Room, join.ClientID, c)
	// cleanup runs on every exit path: clean disconnect, protocol error,
	// anything the loop gives up on
	defer s.hub.Unregister(join.Room, join.ClientID)

	s.enterRoom(ctx, c, join)
	s.readLoop(ctx, c, join)

	slog.Info("session closed", "room", join.Room, "client", join.ClientID)
}

// awaitJoin enforces the handshake: the first frame must be a join carrying
// both identifiers. Anything else is a policy violation.
func (s *Server) awaitJoin(c *wsConn) (JoinFrame, bool) {
	data, err := c.Read()
	if err != nil {
		return JoinFrame{}, false
	}

	f, err := ParseFrame(data)
	if err != nil {
		slog.Warn("join rejected", "err", err)
		return JoinFrame{}, false
	}
	join, ok := f.(JoinFrame)
	if !ok {
		slog.Warn("join rejected", "err", "first frame is not a join", "tag", f.frameTag())
		return JoinFrame{}, false
	}
	return join, true
}

// enterRoom performs the join side effects: durable membership (best
// effort), the joined ack, a roster broadcast to the whole room, and the
// history replay for the new arrival.
func (s *Server) enterRoom(ctx context.Context, c *wsConn, join JoinFrame) {
	if err := s.memberSvc.EnsureMembership(ctx, join.Room, join.ClientID); err != nil {
		slog.Warn("membership record failed", "room", join.Room, "client", join.ClientID, "err", err)
	}

	_ = c.SendJSON(JoinedEvent{Type: TypeJoined, Room: join.Room, ClientID: join.ClientID})

	s.hub.Broadcast(join.Room, RosterEvent{
		Type:    TypeRoster,
		Room:    join.Room,
		Clients: s.hub.Members(join.Room),
	})

	msgs, err := s.chatSvc.History(ctx, join.Room, join.ClientID, s.historyLimit)
	if err != nil {
		slog.Warn("history load failed", "room", join.Room, "client", join.ClientID, "err", err)
		msgs = nil
	}
	_ = c.SendJSON(HistoryEvent{Type: TypeHistory, Room: join.Room, Messages: historyEntries(msgs)})
}

func (s *Server) readLoop(ctx context.Context, c *wsConn, join JoinFrame) {
	for {
		data, err := c.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				slog.Warn("ws read failed", "room", join.Room, "client", join.ClientID, "err", err)
			} else {
				slog.Debug("ws disconnect", "room", join.Room, "client", join.ClientID)
			}
			return
		}

		f, err := ParseFrame(data)
		if err != nil {
			if errors.Is(err, ErrInvalidJoin) {
				// stray join mid-session, no effect
				continue
			}
			slog.Warn("malformed frame", "room", join.Room, "client", join.ClientID, "err", err)
			return
		}

		s.router.Dispatch(ctx, join.Room, c, f)
	}
}

// keepalive sends protocol-level pings so idle relays are not cut by the
// read deadline. Distinct from the JSON ping/pong liveness convention, which
// peers observe themselves.
func (s *Server) keepalive(c *wsConn) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		case <-c.closed:
			return
		}
	}
}
