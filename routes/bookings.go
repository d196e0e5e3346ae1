package routes

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"spa-booking-server/config"
	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
	ws "spa-booking-server/websocket"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints
func RegisterBookingRoutes(router *gin.RouterGroup, broadcaster *ws.BookingBroadcaster) {
	router.POST("", func(c *gin.Context) {
		createBooking(c, broadcaster)
	})
	router.GET("", listBookings)
	router.GET("/available", listAvailableBookings)
	router.GET("/:id", getBooking)
	router.PUT("/:id/cancel", cancelBooking)
	router.PUT("/:id/decline", declineBooking)
	router.PUT("/:id/start", startBooking)
	router.PUT("/:id/complete", completeBooking)
}

// createBooking creates a booking for the caller, or on behalf of a client
// when a concierge supplies client_id. Supplying 2-3 alternative slots puts
// the booking into proposal mode instead of fixing the date up front.
func createBooking(c *gin.Context, broadcaster *ws.BookingBroadcaster) {
	var req models.BookingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Slots) == 1 || len(req.Slots) > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide 2 or 3 alternative slots, or none"})
		return
	}

	clientID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))
	if req.ClientID != nil {
		if role != models.RoleConcierge && role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only concierges can book on behalf of a client"})
			return
		}
		var client models.User
		if err := database.DB.First(&client, *req.ClientID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
			return
		}
		clientID = client.ID
	}

	var venue models.Venue
	if err := database.DB.First(&venue, req.VenueID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Venue not found"})
		return
	}

	var treatments []models.Treatment
	if err := database.DB.Where("id IN ? AND venue_id = ? AND is_active = ?", req.TreatmentIDs, venue.ID, true).
		Find(&treatments).Error; err != nil || len(treatments) != len(req.TreatmentIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more treatments not available at this venue"})
		return
	}

	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking_date, expected YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", req.BookingTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking_time, expected HH:MM"})
		return
	}

	slotDates := make([]time.Time, 0, len(req.Slots))
	for _, slot := range req.Slots {
		date, err := time.Parse("2006-01-02", slot.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot date, expected YYYY-MM-DD"})
			return
		}
		if _, err := time.Parse("15:04", slot.Time); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot time, expected HH:MM"})
			return
		}
		slotDates = append(slotDates, date)
	}

	totalPrice := 0.0
	for _, treatment := range treatments {
		totalPrice += treatment.Price
	}

	currency := venue.CurrencyCode
	if currency == "" {
		currency = config.AppConfig.Booking.DefaultCurrency
	}

	status := models.BookingStatusPending
	if len(req.Slots) >= 2 {
		status = models.BookingStatusAwaitingTherapist
		// Proposal mode: the stored date/time are placeholders until a
		// therapist validates one of the slots.
		bookingDate = slotDates[0]
		req.BookingTime = req.Slots[0].Time
	}

	booking := models.Booking{
		ClientID:    clientID,
		VenueID:     venue.ID,
		Status:      status,
		BookingDate: bookingDate,
		BookingTime: req.BookingTime,
		TotalPrice:  totalPrice,
		Currency:    currency,
		Notes:       req.Notes,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		for _, treatment := range treatments {
			bt := models.BookingTreatment{
				BookingID:   booking.ID,
				TreatmentID: treatment.ID,
				Price:       treatment.Price,
			}
			if err := tx.Create(&bt).Error; err != nil {
				return err
			}
		}
		if len(req.Slots) >= 2 {
			proposal := models.ProposedSlotSet{
				BookingID: booking.ID,
				Slot1Date: slotDates[0],
				Slot1Time: req.Slots[0].Time,
				Slot2Date: &slotDates[1],
				Slot2Time: &req.Slots[1].Time,
			}
			if len(req.Slots) == 3 {
				proposal.Slot3Date = &slotDates[2]
				proposal.Slot3Time = &req.Slots[2].Time
			}
			if err := tx.Create(&proposal).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to create booking for client %d: %v", clientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	log.Printf("📘 Booking %s (#%d) created for client %d at venue %d, status=%s",
		booking.ID, booking.BookingNumber, clientID, venue.ID, booking.Status)

	database.DB.Preload("Client").Preload("Venue").Preload("Treatments.Treatment").Preload("Proposal").
		Where("id = ?", booking.ID).First(&booking)

	// Proposal mode kicks off the therapist fan-out immediately; the dedup
	// log keeps a later explicit trigger from double-notifying anyone.
	if booking.Status == models.BookingStatusAwaitingTherapist {
		created := booking
		go func() {
			if _, _, _, err := fanOutBookingProposal(&created, false, broadcaster); err != nil {
				log.Printf("⚠️ Fan-out after creating booking %s failed: %v", created.ID, err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// listBookings returns bookings scoped to the caller's role
func listBookings(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	query := database.DB.Preload("Venue").Preload("Treatments.Treatment").Preload("Proposal").
		Order("created_at DESC")

	switch role {
	case models.RoleClient, models.RoleConcierge:
		query = query.Where("client_id = ?", userID)
	case models.RoleTherapist:
		var profile models.TherapistProfile
		if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
			return
		}
		query = query.Where("therapist_id = ?", profile.ID).Preload("Client")
	case models.RoleAdmin:
		query = query.Preload("Client")
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Limit(100).Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// listAvailableBookings returns unclaimed proposals the calling therapist may
// still validate: at venues they are affiliated with, not yet declined.
func listAvailableBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var profile models.TherapistProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
		return
	}
	if !profile.IsActive || !profile.IsAvailable {
		c.JSON(http.StatusOK, gin.H{"bookings": []models.Booking{}})
		return
	}

	var bookings []models.Booking
	err := database.DB.Preload("Venue").Preload("Treatments.Treatment").Preload("Proposal").
		Joins("JOIN therapist_venue_affiliations tva ON tva.venue_id = bookings.venue_id").
		Where("tva.therapist_id = ?", profile.ID).
		Where("bookings.status = ?", models.BookingStatusAwaitingTherapist).
		Where("(bookings.declined_by IS NULL OR NOT (? = ANY(bookings.declined_by)))", int64(profile.ID)).
		Order("bookings.created_at ASC").
		Find(&bookings).Error
	if err != nil {
		log.Printf("❌ Failed to load available bookings for therapist %d: %v", profile.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// getBooking returns a single booking if the caller is a participant or staff
func getBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.Preload("Client").Preload("Venue").Preload("Treatments.Treatment").
		Preload("Proposal").Preload("Therapist").
		Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if !canAccessBooking(c, &booking) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// canAccessBooking gates booking detail access by participation
func canAccessBooking(c *gin.Context, booking *models.Booking) bool {
	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))

	switch role {
	case models.RoleAdmin, models.RoleConcierge:
		return true
	case models.RoleClient:
		return booking.ClientID == userID
	case models.RoleTherapist:
		var profile models.TherapistProfile
		if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return false
		}
		if booking.TherapistID != nil && *booking.TherapistID == profile.ID {
			return true
		}
		// Unassigned proposals are visible to any eligible therapist
		return booking.Status == models.BookingStatusAwaitingTherapist
	}
	return false
}

// cancelBooking moves a booking to cancelled on behalf of the client or staff
func cancelBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.Preload("Client").Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	userID := c.GetUint("user_id")
	role := models.UserRole(c.GetString("user_role"))
	if role == models.RoleClient && booking.ClientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	if role == models.RoleTherapist {
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapists cannot cancel bookings"})
		return
	}

	if !booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot cancel a %s booking", booking.Status)})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":       models.BookingStatusCancelled,
		"cancelled_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	recordBookingEvent(booking.ID, booking.Status, models.BookingStatusCancelled, &userID, "cancelled via API")
	go notifyClientStatus(booking, models.BookingStatusCancelled)

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// declineBooking lets a therapist pass on a proposed booking. Declining only
// removes the therapist from the eligible set; the booking stays open for
// everyone else.
func declineBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var profile models.TherapistProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
		return
	}

	var booking models.Booking
	if err := database.DB.Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	if booking.Status != models.BookingStatusAwaitingTherapist {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking is not awaiting therapist selection"})
		return
	}
	if booking.HasDeclined(profile.ID) {
		c.JSON(http.StatusOK, gin.H{"message": "Already declined"})
		return
	}

	// array_append keeps concurrent declines from clobbering each other
	err := database.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("declined_by", gorm.Expr("array_append(COALESCE(declined_by, '{}'), ?)", int64(profile.ID))).Error
	if err != nil {
		log.Printf("❌ Failed to record decline for booking %s: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline booking"})
		return
	}

	log.Printf("🙅 Therapist %d declined booking %s", profile.ID, booking.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Booking declined"})
}

// startBooking moves a confirmed booking to in_progress
func startBooking(c *gin.Context) {
	transitionAssignedBooking(c, models.BookingStatusInProgress, "started_at")
}

// completeBooking moves an in-progress booking to completed
func completeBooking(c *gin.Context) {
	transitionAssignedBooking(c, models.BookingStatusCompleted, "completed_at")
}

// transitionAssignedBooking applies a lifecycle transition the assigned
// therapist drives, stamping the matching timestamp column.
func transitionAssignedBooking(c *gin.Context, target models.BookingStatus, timestampColumn string) {
	userID := c.GetUint("user_id")

	var profile models.TherapistProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Therapist profile required"})
		return
	}

	var booking models.Booking
	if err := database.DB.Preload("Client").Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if booking.TherapistID == nil || *booking.TherapistID != profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking is not assigned to you"})
		return
	}
	if !booking.Status.CanTransitionTo(target) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Cannot move a %s booking to %s", booking.Status, target)})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":        target,
		timestampColumn: now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	recordBookingEvent(booking.ID, booking.Status, target, &userID, "")

	if target == models.BookingStatusCompleted {
		// Aggregate feeds the therapist profile card
		database.DB.Model(&models.TherapistProfile{}).Where("id = ?", profile.ID).
			Update("completed_bookings", gorm.Expr("completed_bookings + 1"))
	}

	go notifyClientStatus(booking, target)

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Booking %s", target)})
}

// notifyClientStatus pushes a lifecycle update to the booking's client
func notifyClientStatus(booking models.Booking, status models.BookingStatus) {
	pushService := services.NewPushService()

	title, body := localizedStatusMessage(status, booking.Client.PreferredLanguage)
	err := pushService.SendToUser(booking.ClientID, title, body, "booking_"+string(status), map[string]interface{}{
		"booking_id": booking.ID,
		"url":        bookingURL(booking.ID),
	})
	if err != nil {
		log.Printf("⚠️ Failed to push %s update for booking %s: %v", status, booking.ID, err)
	}
}
