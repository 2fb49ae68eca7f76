package ws

import (
	"context"
	"log/slog"
)

// Router dispatches one inbound frame from a joined session: decides which
// connection, if any, should receive the payload and whether it gets
// recorded. It keeps no state of its own.
type Router struct {
	hub  *Hub
	chat ChatSvc
}

func NewRouter(hub *Hub, chat ChatSvc) *Router {
	return &Router{hub: hub, chat: chat}
}

func (r *Router) Dispatch(ctx context.Context, roomID string, sender Conn, f Frame) {
	switch f := f.(type) {
	case PubKeyFrame:
		// ephemeral: only meaningful to a live peer, never recorded
		if target, ok := r.hub.Lookup(roomID, f.To); ok {
			_ = target.SendRaw(f.Raw)
		}

	case CipherFrame:
		// record first so an offline target can pick it up from history
		if _, err := r.chat.Save(ctx, roomID, f.From, f.To, f.MsgType, f.IV, f.Ciphertext); err != nil {
			slog.Warn("cipher save failed", "room", roomID, "from", f.From, "err", err)
		}
		if f.To != nil {
			if target, ok := r.hub.Lookup(roomID, *f.To); ok {
				_ = target.SendRaw(f.Raw)
			}
		}

	case PingFrame:
		_ = sender.SendJSON(PongEvent{Type: TypePong})

	default:
		// unrecognized tags are forward-compatible no-ops
	}
}
