package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinstream/kinstream/internal/models"
)

// Index mints a fresh room id and redirects the client into it.
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/"+uuid.New().String())
}

// RoomPage renders the room page for an opaque room id. Any id is served;
// rooms exist implicitly once someone joins.
func RoomPage(c *gin.Context) {
	c.HTML(http.StatusOK, "room.html", gin.H{
		"PageTitle": "Kinstream",
		"RoomID":    c.Param("room"),
	})
}

// GetRoom reports the live participant count for a room from the presence
// mirror. Unknown rooms are simply empty.
func GetRoom(presence RoomPresence) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")

		count, err := presence.Count(c.Request.Context(), roomID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read room state"})
			return
		}

		c.JSON(http.StatusOK, models.RoomInfo{ID: roomID, Participants: count})
	}
}
