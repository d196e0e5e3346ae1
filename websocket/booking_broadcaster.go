package websocket

import (
	"log"
	"time"

	"spa-booking-server/database"
	"spa-booking-server/models"
)

// BookingBroadcaster pushes booking lifecycle events to connected therapist
// apps so open clients update without polling. Push notifications remain the
// delivery of record; this is the live fast path.
type BookingBroadcaster struct {
	hub *Hub
}

// NewBookingBroadcaster creates a new booking broadcaster
func NewBookingBroadcaster(hub *Hub) *BookingBroadcaster {
	return &BookingBroadcaster{
		hub: hub,
	}
}

// BroadcastProposedBooking announces a booking with freshly proposed slots to
// all connected therapists
func (bb *BookingBroadcaster) BroadcastProposedBooking(bookingID string) {
	if bb.hub == nil {
		log.Printf("⚠️ WebSocket hub not available for booking broadcast")
		return
	}

	// Load booking with relationships for complete data
	var booking models.Booking
	if err := database.DB.
		Preload("Client").
		Preload("Venue").
		Preload("Proposal").
		Where("id = ?", bookingID).
		First(&booking).Error; err != nil {
		log.Printf("❌ Failed to load booking details for broadcast: %v", err)
		return
	}

	data := map[string]interface{}{
		"booking_id":     booking.ID,
		"booking_number": booking.BookingNumber,
		"venue_id":       booking.VenueID,
		"venue_name":     booking.Venue.Name,
		"client_name":    booking.Client.FullName,
		"status":         booking.Status,
		"total_price":    booking.TotalPrice,
		"currency":       booking.Currency,
		"created_at":     booking.CreatedAt,
	}
	if booking.Proposal != nil {
		slots := make([]map[string]string, 0, 3)
		for n := 1; n <= 3; n++ {
			if date, timeOfDay, ok := booking.Proposal.Slot(n); ok {
				slots = append(slots, map[string]string{
					"date": date.Format("2006-01-02"),
					"time": timeOfDay,
				})
			}
		}
		data["slots"] = slots
	}

	bb.hub.Broadcast <- &Message{
		Type:      "booking_proposed",
		BookingID: booking.ID,
		Timestamp: time.Now(),
		Data:      data,
	}

	log.Printf("📡 Booking %s broadcasted via WebSocket to connected therapists", booking.ID)
}

// BroadcastClaimResult tells connected therapists a booking was claimed so
// their lists drop it immediately
func (bb *BookingBroadcaster) BroadcastClaimResult(bookingID string, therapistName string, slotNumber int) {
	if bb.hub == nil {
		return
	}

	bb.hub.Broadcast <- &Message{
		Type:      "booking_claimed",
		BookingID: bookingID,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"therapist_name": therapistName,
			"slot_number":    slotNumber,
		},
	}
}

// NotifyBookingExpired tells connected therapists a proposal lapsed
func (bb *BookingBroadcaster) NotifyBookingExpired(bookingID string) {
	if bb.hub == nil {
		return
	}

	bb.hub.Broadcast <- &Message{
		Type:      "booking_expired",
		BookingID: bookingID,
		Timestamp: time.Now(),
	}
}
