package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/silentchat/relay-service/internal/domain"
)

// Inbound frame tags.
const (
	TypeJoin   = "join"
	TypePubKey = "pubkey"
	TypeCipher = "cipher"
	TypePing   = "ping"
)

// Outbound event tags.
const (
	TypeJoined  = "joined"
	TypeRoster  = "roster"
	TypeHistory = "history"
	TypePong    = "pong"
)

var ErrInvalidJoin = errors.New("join requires room and client_id")

// Frame is the tagged union of inbound payloads. Field validation happens
// once, in ParseFrame; downstream code switches on the variant.
type Frame interface {
	frameTag() string
}

type JoinFrame struct {
	Room     string
	ClientID string
}

// PubKeyFrame is a key-exchange payload. Raw keeps the inbound bytes so the
// relay can forward them verbatim; the payload itself is never interpreted.
type PubKeyFrame struct {
	To  string
	Raw []byte
}

// CipherFrame carries an encrypted message. A nil To means room-visible.
type CipherFrame struct {
	From       string
	To         *string
	MsgType    string
	IV         string
	Ciphertext string
	Raw        []byte
}

type PingFrame struct{}

// UnknownFrame stands in for any tag this server does not recognize; it is a
// forward-compatible no-op.
type UnknownFrame struct {
	Tag string
}

func (JoinFrame) frameTag() string      { return TypeJoin }
func (PubKeyFrame) frameTag() string    { return TypePubKey }
func (CipherFrame) frameTag() string    { return TypeCipher }
func (PingFrame) frameTag() string      { return TypePing }
func (f UnknownFrame) frameTag() string { return f.Tag }

type envelope struct {
	Type       string  `json:"type"`
	Room       string  `json:"room"`
	ClientID   string  `json:"client_id"`
	From       string  `json:"from"`
	To         *string `json:"to"`
	MsgType    string  `json:"msg_type"`
	IV         string  `json:"iv"`
	Ciphertext string  `json:"ciphertext"`
}

// ParseFrame decodes one inbound text frame into its variant.
func ParseFrame(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch env.Type {
	case TypeJoin:
		if env.Room == "" || env.ClientID == "" {
			return nil, ErrInvalidJoin
		}
		return JoinFrame{Room: env.Room, ClientID: env.ClientID}, nil
	case TypePubKey:
		to := ""
		if env.To != nil {
			to = *env.To
		}
		return PubKeyFrame{To: to, Raw: data}, nil
	case TypeCipher:
		to := env.To
		if to != nil && *to == "" {
			to = nil
		}
		return CipherFrame{
			From:       env.From,
			To:         to,
			MsgType:    env.MsgType,
			IV:         env.IV,
			Ciphertext: env.Ciphertext,
			Raw:        data,
		}, nil
	case TypePing:
		return PingFrame{}, nil
	default:
		return UnknownFrame{Tag: env.Type}, nil
	}
}

// Outbound event shapes.

type JoinedEvent struct {
	Type     string `json:"type"`
	Room     string `json:"room"`
	ClientID string `json:"client_id"`
}

type RosterEvent struct {
	Type    string   `json:"type"`
	Room    string   `json:"room"`
	Clients []string `json:"clients"`
}

type HistoryEvent struct {
	Type     string         `json:"type"`
	Room     string         `json:"room"`
	Messages []HistoryEntry `json:"messages"`
}

type PongEvent struct {
	Type string `json:"type"`
}

type HistoryEntry struct {
	ID         string  `json:"id"`
	Room       string  `json:"room"`
	From       string  `json:"from"`
	To         *string `json:"to"`
	MsgType    string  `json:"msg_type"`
	IV         string  `json:"iv"`
	Ciphertext string  `json:"ciphertext"`
	CreatedAt  string  `json:"created_at"`
}

// historyEntries converts stored messages to the wire shape. Always returns
// a non-nil slice so an empty history serializes as [].
func historyEntries(msgs []domain.Message) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryEntry{
			ID:         m.ID,
			Room:       m.RoomID,
			From:       m.SenderID,
			To:         m.ReceiverID,
			MsgType:    m.MsgType,
			IV:         m.IV,
			Ciphertext: m.Ciphertext,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
