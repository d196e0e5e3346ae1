package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spa-booking-server/config"
	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
	ws "spa-booking-server/websocket"
)

// RegisterSlotValidationRoutes registers the slot claim endpoint
func RegisterSlotValidationRoutes(router *gin.RouterGroup, broadcaster *ws.BookingBroadcaster) {
	router.POST("/validate-slot", func(c *gin.Context) {
		validateSlot(c, broadcaster)
	})
}

// validateSlot lets a therapist commit to one of the proposed alternative
// slots, exactly once globally per booking. Concurrent claims are adjudicated
// by a single conditional update on the proposal row; whichever caller's
// update affects a row wins, everyone else gets "already validated".
func validateSlot(c *gin.Context, broadcaster *ws.BookingBroadcaster) {
	var req struct {
		BookingID   string `json:"booking_id" binding:"required"`
		SlotNumber  int    `json:"slot_number" binding:"required,min=1,max=3"`
		TherapistID *uint  `json:"therapist_id"` // concierge/admin callers pick the therapist explicitly
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Precondition 1: booking exists
	var booking models.Booking
	if err := database.DB.Preload("Client").Preload("Venue").Preload("Treatments.Treatment").
		Where("id = ?", req.BookingID).First(&booking).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking not found"})
		return
	}

	// Precondition 2: booking is awaiting therapist selection
	if booking.Status != models.BookingStatusAwaitingTherapist {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is not awaiting therapist selection"})
		return
	}

	// Precondition 3: a slot proposal exists
	var proposal models.ProposedSlotSet
	if err := database.DB.Where("booking_id = ?", booking.ID).First(&proposal).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No proposed slots for this booking"})
		return
	}

	// Precondition 4: the requested slot is populated
	slotDate, slotTime, ok := proposal.Slot(req.SlotNumber)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requested slot is not available"})
		return
	}

	// Precondition 5: the therapist exists
	therapist, err := resolveTherapist(c, req.TherapistID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Therapist not found"})
		return
	}

	now := time.Now()
	claimed, err := claimProposedSlot(booking.ID, req.SlotNumber, therapist.ID, now)
	if err != nil {
		log.Printf("❌ Slot claim failed for booking %s: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate slot"})
		return
	}
	if !claimed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot already validated by another therapist"})
		return
	}

	// Copy the winning slot onto the booking. Not atomic with the claim - the
	// claim already serialized the winners - but a failure here leaves a
	// claimed-but-unconfirmed booking, so retry once and log loudly.
	bookingUpdates := map[string]interface{}{
		"booking_date":   slotDate,
		"booking_time":   slotTime,
		"therapist_id":   therapist.ID,
		"therapist_name": therapist.DisplayName,
		"status":         models.BookingStatusConfirmed,
		"assigned_at":    now,
	}
	updateErr := database.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(bookingUpdates).Error
	if updateErr != nil {
		updateErr = database.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).Updates(bookingUpdates).Error
	}
	if updateErr != nil {
		log.Printf("🚨 INCONSISTENT booking %s: slot %d claimed by therapist %d but booking update failed: %v",
			booking.ID, req.SlotNumber, therapist.ID, updateErr)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Slot claimed but booking update failed"})
		return
	}

	recordBookingEvent(booking.ID, booking.Status, models.BookingStatusConfirmed, &therapist.UserID,
		"slot validated")

	// Side effects are best-effort and independently failable: they are
	// logged on error and never roll back the confirmed booking.
	go dispatchPaymentLink(booking)
	go dispatchClaimAlert(booking, therapist.DisplayName, slotDate, slotTime)
	go notifyClientConfirmed(booking, slotDate, slotTime, therapist.DisplayName)
	if broadcaster != nil {
		go broadcaster.BroadcastClaimResult(booking.ID, therapist.DisplayName, req.SlotNumber)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"selected_date":  slotDate.Format("2006-01-02"),
		"selected_time":  slotTime,
		"therapist_name": therapist.DisplayName,
	})
}

// claimProposedSlot performs the first-come-first-served claim. The
// conditional update is the one atomic operation adjudicating concurrent
// claims; no application-level lock. False with a nil error means another
// therapist already validated a slot for this booking.
func claimProposedSlot(bookingID string, slotNumber int, therapistID uint, at time.Time) (bool, error) {
	res := database.DB.Model(&models.ProposedSlotSet{}).
		Where("booking_id = ? AND validated_slot IS NULL", bookingID).
		Updates(map[string]interface{}{
			"validated_slot": slotNumber,
			"validated_by":   therapistID,
			"validated_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// resolveTherapist loads the claiming therapist's profile. Therapist callers
// claim for themselves; concierge/admin callers pass therapist_id explicitly.
func resolveTherapist(c *gin.Context, explicitID *uint) (*models.TherapistProfile, error) {
	var therapist models.TherapistProfile

	if explicitID != nil {
		role := models.UserRole(c.GetString("user_role"))
		if role == models.RoleConcierge || role == models.RoleAdmin {
			if err := database.DB.First(&therapist, *explicitID).Error; err != nil {
				return nil, err
			}
			return &therapist, nil
		}
	}

	userID := c.GetUint("user_id")
	if err := database.DB.Where("user_id = ?", userID).First(&therapist).Error; err != nil {
		return nil, err
	}
	return &therapist, nil
}

// dispatchPaymentLink asks the payment provider to send the client a link
func dispatchPaymentLink(booking models.Booking) {
	paymentService := services.NewPaymentService()

	err := paymentService.RequestPaymentLink(services.PaymentLinkRequest{
		BookingID:   booking.ID,
		Language:    booking.Client.PreferredLanguage,
		Channels:    []string{"sms", "email"},
		ClientPhone: booking.Client.PhoneNumber,
		ClientEmail: booking.Client.Email,
	})
	if err != nil {
		log.Printf("⚠️ Failed to request payment link for booking %s: %v", booking.ID, err)
	}
}

// dispatchClaimAlert posts the claim summary to the team channel
func dispatchClaimAlert(booking models.Booking, therapistName string, date time.Time, timeOfDay string) {
	slackService := services.NewSlackService()

	currency := booking.Venue.CurrencyCode
	if currency == "" {
		// Venue currency unresolved: fall back rather than fail the alert
		currency = config.AppConfig.Booking.DefaultCurrency
	}

	treatments := make([]string, 0, len(booking.Treatments))
	for _, bt := range booking.Treatments {
		treatments = append(treatments, bt.Treatment.Name)
	}

	err := slackService.SendBookingAlert(services.BookingAlert{
		Type:          "slot_validated",
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		ClientName:    booking.Client.FullName,
		VenueName:     booking.Venue.Name,
		Date:          date.Format("2006-01-02"),
		Time:          timeOfDay,
		TherapistName: therapistName,
		Price:         booking.TotalPrice,
		Currency:      currency,
		Treatments:    treatments,
	})
	if err != nil {
		log.Printf("⚠️ Failed to send Slack alert for booking %s: %v", booking.ID, err)
	}
}

// notifyClientConfirmed pushes the confirmation to the client
func notifyClientConfirmed(booking models.Booking, date time.Time, timeOfDay string, therapistName string) {
	pushService := services.NewPushService()

	title, body := localizedConfirmationMessage(booking.Client.PreferredLanguage, date.Format("2006-01-02"), timeOfDay, therapistName)
	err := pushService.SendToUser(booking.ClientID, title, body, "booking_confirmed", map[string]interface{}{
		"booking_id": booking.ID,
		"url":        bookingURL(booking.ID),
	})
	if err != nil {
		log.Printf("⚠️ Failed to push confirmation for booking %s: %v", booking.ID, err)
	}
}

// recordBookingEvent appends a status transition to the audit log
func recordBookingEvent(bookingID string, from, to models.BookingStatus, actorID *uint, detail string) {
	event := models.BookingEvent{
		BookingID: bookingID,
		From:      from,
		To:        to,
		ActorID:   actorID,
		Detail:    detail,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ Failed to record booking event for %s: %v", bookingID, err)
	}
}

// bookingURL builds the deep link included in push payloads
func bookingURL(bookingID string) string {
	return config.AppConfig.Booking.AppBaseURL + "/bookings/" + bookingID
}
