package signaling

// Directory maps room ids to the set of member connections. It is a derived
// index over the Registry's room fields and must only be mutated by the
// Relay, which keeps the two in sync under one lock.
//
// All membership operations are O(1) map work; broadcast fan-out is O(room
// size) and walks the snapshots returned here.
type Directory struct {
	rooms map[string]map[ConnID]struct{}
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]map[ConnID]struct{})}
}

// Join adds the connection to the room, creating the room implicitly if it
// does not exist, and returns the members that were already present so the
// caller can notify exactly them. Joining a room the connection is already a
// member of changes nothing and returns the same set.
func (d *Directory) Join(roomID string, id ConnID) []ConnID {
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[ConnID]struct{})
		d.rooms[roomID] = members
	}

	others := make([]ConnID, 0, len(members))
	for m := range members {
		if m != id {
			others = append(others, m)
		}
	}
	members[id] = struct{}{}
	return others
}

// Leave removes the connection from the room and drops the room record once
// its last member is gone. Unknown rooms and non-members are a no-op.
func (d *Directory) Leave(roomID string, id ConnID) {
	members, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(d.rooms, roomID)
	}
}

// MembersOf returns a snapshot of the room's current members.
func (d *Directory) MembersOf(roomID string) []ConnID {
	members := d.rooms[roomID]
	out := make([]ConnID, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	return out
}

// Rooms reports how many rooms currently have at least one member.
func (d *Directory) Rooms() int {
	return len(d.rooms)
}
