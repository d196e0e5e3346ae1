package jobs

import (
	"log"
	"time"

	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
	ws "spa-booking-server/websocket"
)

// ExpirationJob expires bookings whose proposed slots have all passed
// without a therapist validating one
type ExpirationJob struct {
	broadcaster *ws.BookingBroadcaster
	stopChan    chan bool
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob(broadcaster *ws.BookingBroadcaster) *ExpirationJob {
	return &ExpirationJob{
		broadcaster: broadcaster,
		stopChan:    make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Expiration job stopped")
}

func (j *ExpirationJob) run() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkExpiredBookings()
		case <-j.stopChan:
			return
		}
	}
}

// checkExpiredBookings finds bookings still awaiting a therapist whose last
// proposed slot date is in the past
func (j *ExpirationJob) checkExpiredBookings() {
	var candidates []models.Booking
	err := database.DB.Preload("Client").Preload("Proposal").
		Where("status = ?", models.BookingStatusAwaitingTherapist).
		Find(&candidates).Error
	if err != nil {
		log.Printf("❌ Error checking expired bookings: %v", err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	expired := 0
	for _, booking := range candidates {
		if booking.Proposal == nil {
			continue
		}
		if booking.Proposal.IsClaimed() {
			continue
		}
		if !booking.Proposal.LastSlotDate().Before(today) {
			continue
		}
		j.expireBooking(booking)
		expired++
	}

	if expired > 0 {
		log.Printf("⏰ Expired %d bookings", expired)
	}
}

// expireBooking marks a booking as expired and tells the client. The status
// condition in the update keeps a concurrent claim from being clobbered.
func (j *ExpirationJob) expireBooking(booking models.Booking) {
	res := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, models.BookingStatusAwaitingTherapist).
		Update("status", models.BookingStatusExpired)
	if res.Error != nil {
		log.Printf("❌ Failed to expire booking %s: %v", booking.ID, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		// Claimed between the read and the update
		return
	}

	event := models.BookingEvent{
		BookingID: booking.ID,
		From:      models.BookingStatusAwaitingTherapist,
		To:        models.BookingStatusExpired,
		Detail:    "all proposed slots passed unclaimed",
	}
	if err := database.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ Failed to record expiry event for booking %s: %v", booking.ID, err)
	}

	log.Printf("⏰ Booking %s (#%d) expired", booking.ID, booking.BookingNumber)

	pushService := services.NewPushService()
	title, body := expiryMessage(booking.Client.PreferredLanguage)
	if err := pushService.SendToUser(booking.ClientID, title, body, "booking_expired", map[string]interface{}{
		"booking_id": booking.ID,
	}); err != nil {
		log.Printf("⚠️ Failed to push expiry notice for booking %s: %v", booking.ID, err)
	}

	if j.broadcaster != nil {
		j.broadcaster.NotifyBookingExpired(booking.ID)
	}
}

func expiryMessage(lang string) (string, string) {
	switch lang {
	case "fr":
		return "Réservation expirée", "Aucun thérapeute n'était disponible aux horaires proposés. Veuillez choisir de nouveaux créneaux."
	case "ar":
		return "انتهت صلاحية الحجز", "لم يكن هناك معالج متاح في الأوقات المقترحة. يرجى اختيار مواعيد جديدة."
	case "zh":
		return "预订已过期", "所提议的时间没有理疗师可用，请重新选择时间。"
	default:
		return "Booking expired", "No therapist was available for the proposed times. Please pick new slots."
	}
}
