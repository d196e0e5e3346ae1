package websocket

import (
	"log"
	"net/http"

	"spa-booking-server/database"
	"spa-booking-server/models"

	"github.com/gin-gonic/gin"
)

// TherapistHandler upgrades therapist connections into the alert hub
type TherapistHandler struct {
	hub *Hub
}

// NewTherapistHandler creates a new therapist WebSocket handler
func NewTherapistHandler(hub *Hub) *TherapistHandler {
	return &TherapistHandler{hub: hub}
}

// HandleTherapist authenticates the therapist and joins them to the hub.
// WebSocketAuthMiddleware must have run first.
func (h *TherapistHandler) HandleTherapist(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		log.Printf("❌ No user ID found for therapist WebSocket")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// Only users with a therapist profile receive booking alerts
	var profile models.TherapistProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		log.Printf("❌ Therapist profile not found for user %d", userID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
		return
	}

	ServeWebSocket(h.hub, c.Writer, c.Request, userID, "therapist")
}
