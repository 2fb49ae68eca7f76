package ws

import (
	"sort"
	"sync"
)

// Conn is the live connection handle a hub entry owns. Implemented by wsConn
// in production and by mocks in tests.
type Conn interface {
	SendJSON(v any) error
	SendRaw(data []byte) error
	Close() error
}

// Hub is the process-wide registry of live connections, keyed by
// (room id, client id). It is the single source of truth for presence;
// nothing here touches storage.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Conn // roomID -> clientID -> conn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]Conn)}
}

// Register inserts the mapping, creating the room entry on first use. A
// second registration for the same (room, client) replaces the prior handle;
// the old socket is left to its own session to discover.
func (h *Hub) Register(roomID, clientID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rm, ok := h.rooms[roomID]
	if !ok {
		rm = make(map[string]Conn)
		h.rooms[roomID] = rm
	}
	rm[clientID] = c
}

// Unregister removes the mapping and garbage-collects the room once empty.
// Unregistering an absent pair is a no-op.
func (h *Hub) Unregister(roomID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rm, ok := h.rooms[roomID]; ok {
		delete(rm, clientID)
		if len(rm) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Lookup(roomID, clientID string) (Conn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.rooms[roomID][clientID]
	return c, ok
}

// Members returns the current live client ids of a room, sorted so roster
// snapshots are deterministic.
func (h *Hub) Members(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rm := h.rooms[roomID]
	out := make([]string, 0, len(rm))
	for id := range rm {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Broadcast sends msg to every live member of the room, best-effort.
func (h *Hub) Broadcast(roomID string, msg any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[roomID] {
		_ = c.SendJSON(msg)
	}
}

// Stats reports room and connection counts for the stats endpoint.
func (h *Hub) Stats() (rooms, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms = len(h.rooms)
	for _, rm := range h.rooms {
		clients += len(rm)
	}
	return rooms, clients
}
