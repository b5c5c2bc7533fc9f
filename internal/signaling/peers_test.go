package signaling

import (
	"bytes"
	"testing"
)

func TestPeerRelayForwardsVerbatim(t *testing.T) {
	p := NewPeerRelay()

	bob := &fakeSender{}
	p.Register("bob", bob)

	payload := []byte(`{"type":"offer","payload":{"sdp":"..."}}`)
	p.Relay("bob", payload)

	if len(bob.frames) != 1 || !bytes.Equal(bob.frames[0], payload) {
		t.Fatalf("target received %q, want the payload verbatim", bob.frames)
	}
}

func TestPeerRelayDropsForOfflineTarget(t *testing.T) {
	p := NewPeerRelay()

	alice := &fakeSender{}
	p.Register("alice", alice)

	// Forwarding to an id that never registered, and to one that has gone,
	// both return without error and deliver nothing.
	p.Relay("bob", []byte("offer"))

	bob := &fakeSender{}
	p.Register("bob", bob)
	p.Unregister("bob", bob)
	p.Relay("bob", []byte("offer"))

	if len(alice.frames) != 0 || len(bob.frames) != 0 {
		t.Fatal("dropped payload was delivered somewhere")
	}
}

func TestPeerRelayReconnectReplacesSession(t *testing.T) {
	p := NewPeerRelay()

	old := &fakeSender{}
	p.Register("bob", old)

	replacement := &fakeSender{}
	p.Register("bob", replacement)

	// The stale session's teardown must not evict the replacement.
	p.Unregister("bob", old)

	p.Relay("bob", []byte("candidate"))
	if len(replacement.frames) != 1 {
		t.Fatalf("replacement got %d frames, want 1", len(replacement.frames))
	}
	if len(old.frames) != 0 {
		t.Fatalf("stale session got %d frames, want 0", len(old.frames))
	}
}
