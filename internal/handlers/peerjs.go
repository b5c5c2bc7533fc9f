package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kinstream/kinstream/internal/metrics"
	"github.com/kinstream/kinstream/internal/models"
	"github.com/kinstream/kinstream/internal/signaling"
)

// Peer is the peer-setup websocket endpoint. It is keyed by participant id,
// not room: each frame names a target participant and the server forwards the
// payload verbatim, dropping it silently when the target has no live session.
func Peer(peers *signaling.PeerRelay) gin.HandlerFunc {
	return func(c *gin.Context) {
		participantID := c.Param("participantId")
		if participantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade peer connection: %v", err)
			return
		}

		client := newClient(conn)
		peers.Register(participantID, client)
		defer peers.Unregister(participantID, client)

		go client.writePump()

		client.readLoop(func(frame []byte) {
			var sig models.PeerSignal
			if err := json.Unmarshal(frame, &sig); err != nil {
				log.Printf("failed to parse peer signal: %v", err)
				return
			}
			if sig.To == "" {
				return
			}

			switch sig.Type {
			case models.PeerSignalOffer, models.PeerSignalAnswer, models.PeerSignalCandidate:
			default:
				log.Printf("unknown peer signal type: %s", sig.Type)
				return
			}

			sig.From = participantID
			out, err := json.Marshal(sig)
			if err != nil {
				log.Printf("failed to marshal peer signal: %v", err)
				return
			}

			metrics.PeerSignalsTotal.WithLabelValues(sig.Type).Inc()
			peers.Relay(sig.To, out)
		})
	}
}
