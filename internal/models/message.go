package models

import "encoding/json"

// EventType identifies a room-signaling event on the primary channel.
type EventType string

const (
	// Inbound from clients.
	EventJoinRoom EventType = "join-room"

	// Outbound, broadcast to the other members of a room.
	EventUserConnected    EventType = "user-connected"
	EventUserDisconnected EventType = "user-disconnected"
)

// Event is a room-signaling frame. Inbound join-room carries the room and the
// client-chosen participant id; outbound presence events carry the
// participant id of the peer that arrived or left.
type Event struct {
	Type          EventType `json:"type"`
	RoomID        string    `json:"roomId,omitempty"`
	ParticipantID string    `json:"participantId,omitempty"`
}

// Peer-setup signal types. The payload is opaque to the server.
const (
	PeerSignalOffer     = "offer"
	PeerSignalAnswer    = "answer"
	PeerSignalCandidate = "candidate"
)

// PeerSignal is a frame on the peer-setup channel, addressed to exactly one
// participant. The server stamps From and forwards the rest verbatim.
type PeerSignal struct {
	Type    string          `json:"type"`
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
