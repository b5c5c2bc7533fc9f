package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/kinstream/kinstream/internal/metrics"
	"github.com/kinstream/kinstream/internal/models"
	"github.com/kinstream/kinstream/internal/signaling"
)

// RoomPresence mirrors room membership into shared storage for the room info
// API, keyed by connection id so colliding participant labels still count as
// distinct members. Mirror failures are logged and otherwise ignored.
type RoomPresence interface {
	Add(ctx context.Context, roomID, connID string) error
	Remove(ctx context.Context, roomID, connID string) error
	Count(ctx context.Context, roomID string) (int64, error)
}

// Signal is the room-signaling websocket endpoint. One connection carries one
// participant: an inbound join-room event runs the join transition; the only
// leave path is the socket going away.
func Signal(relay *signaling.Relay, presence RoomPresence) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathRoom := c.Param("roomId")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade connection: %v", err)
			return
		}

		client := newClient(conn)
		id := relay.Connect(client)
		metrics.ActiveConnections.Inc()

		go client.writePump()

		client.readLoop(func(frame []byte) {
			var ev models.Event
			if err := json.Unmarshal(frame, &ev); err != nil {
				log.Printf("failed to parse event: %v", err)
				return
			}
			if ev.Type != models.EventJoinRoom {
				log.Printf("unknown event type: %s", ev.Type)
				return
			}

			roomID := ev.RoomID
			if roomID == "" {
				roomID = pathRoom
			}
			if roomID == "" || ev.ParticipantID == "" {
				return
			}

			// A re-join moves the connection; drop the old mirror entry first.
			if oldRoom, _, ok := relay.Lookup(id); ok && oldRoom != "" && oldRoom != roomID {
				mirror(presence.Remove, oldRoom, string(id))
			}

			relay.Join(id, roomID, ev.ParticipantID)
			mirror(presence.Add, roomID, string(id))

			metrics.JoinsTotal.Inc()
			metrics.ActiveRooms.Set(float64(relay.RoomCount()))
		})

		if roomID, _, ok := relay.Lookup(id); ok && roomID != "" {
			mirror(presence.Remove, roomID, string(id))
		}
		relay.Disconnect(id)

		metrics.ActiveConnections.Dec()
		metrics.ActiveRooms.Set(float64(relay.RoomCount()))
	}
}

func mirror(op func(context.Context, string, string) error, roomID, connID string) {
	if err := op(context.Background(), roomID, connID); err != nil {
		log.Printf("presence mirror update failed for room %s: %v", roomID, err)
	}
}
