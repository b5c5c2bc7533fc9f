package signaling

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/kinstream/kinstream/internal/models"
)

// Relay is the room presence core. It owns a Registry and a Directory and
// applies every signaling event as one atomic unit: the membership mutation
// and the broadcast snapshot it produces happen under a single lock, so a
// join and a disconnect racing on the same room can never observe each
// other's state half-applied.
//
// Fan-out itself never blocks inside the lock: frames are pushed to each
// recipient's buffered sender and dropped if the buffer is full, so a stalled
// transport cannot hold up other rooms.
type Relay struct {
	mu       sync.Mutex
	registry *Registry
	dir      *Directory
}

// NewRelay builds a relay around explicitly owned state. Nothing here is
// package-global, so tests can run a relay against fake senders without a
// live transport.
func NewRelay(registry *Registry, dir *Directory) *Relay {
	return &Relay{registry: registry, dir: dir}
}

// Connect registers a newly accepted transport session and returns its id.
// The connection starts unjoined.
func (r *Relay) Connect(s Sender) ConnID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Register(s)
}

// Join moves the connection into roomID and tells every prior member that
// participantID arrived. The joiner itself is never notified. A duplicate
// join to the same room is a no-op; a join while already in another room is
// treated as leave-then-join, never as multi-room membership.
func (r *Relay) Join(id ConnID, roomID, participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := r.registry.Get(id)
	if conn == nil {
		// Disconnected before the event was applied.
		return
	}
	if conn.Room == roomID {
		return
	}
	if conn.Room != "" {
		r.leaveLocked(conn)
	}

	conn.ParticipantID = participantID
	others := r.dir.Join(roomID, id)
	r.registry.SetRoom(id, roomID)

	log.Printf("participant %q joined room %s (%d already present)", participantID, roomID, len(others))

	r.fanOut(others, models.Event{
		Type:          models.EventUserConnected,
		RoomID:        roomID,
		ParticipantID: participantID,
	})
}

// Disconnect runs the transition to Closed. If the connection was in a room,
// every remaining member learns that its participant left; an unjoined
// connection just disappears. Safe to call more than once.
func (r *Relay) Disconnect(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := r.registry.Get(id)
	if conn == nil {
		return
	}
	if conn.Room != "" {
		r.leaveLocked(conn)
	}
	r.registry.Unregister(id)
}

// leaveLocked removes conn from its current room and notifies the members
// still in it. Caller holds r.mu.
func (r *Relay) leaveLocked(conn *Connection) {
	roomID := conn.Room
	r.dir.Leave(roomID, conn.ID)
	r.registry.SetRoom(conn.ID, "")

	remaining := r.dir.MembersOf(roomID)
	log.Printf("participant %q left room %s (%d remaining)", conn.ParticipantID, roomID, len(remaining))

	r.fanOut(remaining, models.Event{
		Type:          models.EventUserDisconnected,
		RoomID:        roomID,
		ParticipantID: conn.ParticipantID,
	})
}

// fanOut marshals the event once and pushes it to every target's sender.
// Delivery is best effort; a rejected frame is logged and forgotten.
func (r *Relay) fanOut(targets []ConnID, ev models.Event) {
	if len(targets) == 0 {
		return
	}
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", ev.Type, err)
		return
	}
	for _, id := range targets {
		conn := r.registry.Get(id)
		if conn == nil || conn.sender == nil {
			continue
		}
		if !conn.sender.Send(frame) {
			log.Printf("dropped %s frame for connection %s, buffer full", ev.Type, id)
		}
	}
}

// Lookup reports the room and participant id currently recorded for a
// connection. ok is false for unregistered connections.
func (r *Relay) Lookup(id ConnID) (roomID, participantID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := r.registry.Get(id)
	if conn == nil {
		return "", "", false
	}
	return conn.Room, conn.ParticipantID, true
}

// Participants returns the participant ids currently in roomID.
func (r *Relay) Participants(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.dir.MembersOf(roomID)
	out := make([]string, 0, len(members))
	for _, id := range members {
		if conn := r.registry.Get(id); conn != nil {
			out = append(out, conn.ParticipantID)
		}
	}
	return out
}

// RoomCount reports the number of non-empty rooms.
func (r *Relay) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dir.Rooms()
}

// ConnCount reports the number of registered connections.
func (r *Relay) ConnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Len()
}
