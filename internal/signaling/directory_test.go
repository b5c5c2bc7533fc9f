package signaling

import (
	"sort"
	"testing"
)

func sortedIDs(ids []ConnID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	sort.Strings(out)
	return out
}

func TestDirectoryJoinReturnsPriorMembers(t *testing.T) {
	d := NewDirectory()

	if others := d.Join("alpha", "c1"); len(others) != 0 {
		t.Fatalf("first join returned %v, want empty", others)
	}
	if others := d.Join("alpha", "c2"); len(others) != 1 || others[0] != "c1" {
		t.Fatalf("second join returned %v, want [c1]", others)
	}

	got := sortedIDs(d.MembersOf("alpha"))
	want := []string{"c1", "c2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MembersOf = %v, want %v", got, want)
		}
	}
}

func TestDirectoryDuplicateJoin(t *testing.T) {
	d := NewDirectory()
	d.Join("alpha", "c1")
	d.Join("alpha", "c2")

	others := d.Join("alpha", "c2")
	if len(others) != 1 || others[0] != "c1" {
		t.Fatalf("duplicate join returned %v, want [c1]", others)
	}
	if got := len(d.MembersOf("alpha")); got != 2 {
		t.Fatalf("duplicate join changed membership: %d members, want 2", got)
	}
}

func TestDirectoryLeaveDropsEmptyRoom(t *testing.T) {
	d := NewDirectory()
	d.Join("alpha", "c1")
	d.Join("alpha", "c2")

	d.Leave("alpha", "c1")
	if got := len(d.MembersOf("alpha")); got != 1 {
		t.Fatalf("room has %d members after one leave, want 1", got)
	}

	d.Leave("alpha", "c2")
	if got := d.Rooms(); got != 0 {
		t.Fatalf("Rooms = %d after last leave, want 0", got)
	}
}

func TestDirectoryLeaveIsIdempotent(t *testing.T) {
	d := NewDirectory()
	d.Join("alpha", "c1")

	d.Leave("alpha", "c2")      // never a member
	d.Leave("nosuchroom", "c1") // unknown room
	d.Leave("alpha", "c1")
	d.Leave("alpha", "c1") // already gone

	if got := d.Rooms(); got != 0 {
		t.Fatalf("Rooms = %d, want 0", got)
	}
}
