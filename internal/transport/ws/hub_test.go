package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	mu     sync.Mutex
	sent   []any
	raw    [][]byte
	closed bool
}

func (m *mockConn) SendJSON(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, v)
	return nil
}

func (m *mockConn) SendRaw(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append(m.raw, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) sentJSON() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.sent...)
}

func (m *mockConn) sentRaw() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.raw...)
}

func TestHub_RegisterLookup(t *testing.T) {
	h := NewHub()
	a := &mockConn{}

	h.Register("r1", "alice", a)

	got, ok := h.Lookup("r1", "alice")
	require.True(t, ok)
	assert.Same(t, a, got.(*mockConn))

	_, ok = h.Lookup("r1", "bob")
	assert.False(t, ok)
	_, ok = h.Lookup("r2", "alice")
	assert.False(t, ok)
}

func TestHub_DuplicateJoinReplacesHandle(t *testing.T) {
	h := NewHub()
	old := &mockConn{}
	replacement := &mockConn{}

	h.Register("r1", "alice", old)
	h.Register("r1", "alice", replacement)

	got, ok := h.Lookup("r1", "alice")
	require.True(t, ok)
	assert.Same(t, replacement, got.(*mockConn))
	assert.Equal(t, []string{"alice"}, h.Members("r1"))
}

func TestHub_UnregisterGarbageCollectsRoom(t *testing.T) {
	h := NewHub()
	h.Register("r1", "alice", &mockConn{})
	h.Register("r1", "bob", &mockConn{})

	h.Unregister("r1", "alice")
	assert.Equal(t, []string{"bob"}, h.Members("r1"))

	h.Unregister("r1", "bob")
	rooms, clients := h.Stats()
	assert.Zero(t, rooms)
	assert.Zero(t, clients)

	// idempotent on an absent pair
	h.Unregister("r1", "bob")
	h.Unregister("nope", "alice")
}

func TestHub_MembersSorted(t *testing.T) {
	h := NewHub()
	h.Register("r1", "carol", &mockConn{})
	h.Register("r1", "alice", &mockConn{})
	h.Register("r1", "bob", &mockConn{})

	assert.Equal(t, []string{"alice", "bob", "carol"}, h.Members("r1"))
	assert.Empty(t, h.Members("empty"))
}

func TestHub_BroadcastReachesWholeRoomOnly(t *testing.T) {
	h := NewHub()
	a := &mockConn{}
	b := &mockConn{}
	other := &mockConn{}
	h.Register("r1", "alice", a)
	h.Register("r1", "bob", b)
	h.Register("r2", "carol", other)

	h.Broadcast("r1", RosterEvent{Type: TypeRoster, Room: "r1", Clients: h.Members("r1")})

	assert.Len(t, a.sentJSON(), 1)
	assert.Len(t, b.sentJSON(), 1)
	assert.Empty(t, other.sentJSON())
}

func TestHub_ConcurrentMutation(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			h.Register("r1", id, &mockConn{})
			h.Members("r1")
			h.Broadcast("r1", PongEvent{Type: TypePong})
			h.Unregister("r1", id)
		}(i)
	}
	wg.Wait()

	rooms, clients := h.Stats()
	assert.Zero(t, rooms)
	assert.Zero(t, clients)
}

// guard against accidental shape drift on the roster event
func TestRosterEventShape(t *testing.T) {
	data, err := json.Marshal(RosterEvent{Type: TypeRoster, Room: "r1", Clients: []string{"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"roster","room":"r1","clients":["a","b"]}`, string(data))
}
