package signaling

import (
	"log"
	"sync"
)

// PeerRelay is the second signaling channel: it forwards WebRTC
// offer/answer/candidate payloads between exactly two participants by
// participant id. It keeps no per-session state beyond which sender is live
// for each id; each forwarded payload is transient and never stored.
type PeerRelay struct {
	mu    sync.Mutex
	peers map[string]Sender
}

func NewPeerRelay() *PeerRelay {
	return &PeerRelay{peers: make(map[string]Sender)}
}

// Register binds participantID to a live peer channel. A later registration
// for the same id replaces the earlier one; clients that reconnect keep
// their label.
func (p *PeerRelay) Register(participantID string, s Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.peers[participantID] = s
}

// Unregister drops the binding, but only if it still points at s. A stale
// teardown from a replaced session must not evict the replacement.
func (p *PeerRelay) Unregister(participantID string, s Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.peers[participantID] == s {
		delete(p.peers, participantID)
	}
}

// Relay forwards frame verbatim to the target participant's channel. If no
// live session exists for the target the frame is silently dropped; the
// WebRTC layer above retries the whole negotiation, not this relay.
func (p *PeerRelay) Relay(targetParticipantID string, frame []byte) {
	p.mu.Lock()
	target := p.peers[targetParticipantID]
	p.mu.Unlock()

	if target == nil {
		return
	}
	if !target.Send(frame) {
		log.Printf("dropped peer frame for %q, buffer full", targetParticipantID)
	}
}
