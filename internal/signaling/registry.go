package signaling

import (
	"github.com/google/uuid"
)

// ConnID identifies one live transport session. It is assigned by the server
// and never reused across sessions.
type ConnID string

// Sender is the outbound half of a transport session. Send queues a frame
// without blocking and reports whether it was accepted; a frame rejected by a
// full buffer is dropped, never retried.
type Sender interface {
	Send(frame []byte) bool
}

// Connection is the per-session state the relay needs to run the
// Unjoined -> Joined -> Closed transitions without relying on captured
// handler state.
type Connection struct {
	ID            ConnID
	ParticipantID string
	Room          string // empty until the connection joins a room
	sender        Sender
}

// Registry tracks every open connection in this process. It is the single
// owner of the per-connection room field; nothing mutates room membership
// except through SetRoom.
//
// Registry is not safe for concurrent use on its own. The Relay serializes
// all access under its event lock.
type Registry struct {
	conns map[ConnID]*Connection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[ConnID]*Connection)}
}

// Register allocates a fresh connection id for a newly accepted session.
// A collision in the UUID space is practically unreachable; if it ever
// happens the process is in no state to hand out identifiers at all.
func (r *Registry) Register(s Sender) ConnID {
	id := ConnID(uuid.New().String())
	if _, exists := r.conns[id]; exists {
		panic("signaling: connection id collision")
	}
	r.conns[id] = &Connection{ID: id, sender: s}
	return id
}

// Unregister removes all trace of the connection. Unknown ids are a no-op so
// a transport-level disconnect racing an explicit teardown stays harmless.
func (r *Registry) Unregister(id ConnID) {
	delete(r.conns, id)
}

// Get returns the connection for id, or nil if it is not registered.
func (r *Registry) Get(id ConnID) *Connection {
	return r.conns[id]
}

// SetRoom records which room the connection belongs to. An empty roomID
// clears the field.
func (r *Registry) SetRoom(id ConnID, roomID string) {
	if c := r.conns[id]; c != nil {
		c.Room = roomID
	}
}

// Len reports how many connections are currently registered.
func (r *Registry) Len() int {
	return len(r.conns)
}
