package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
)

// ReminderJob runs the daily morning sweep: clients get a push the day
// before their confirmed booking, therapists get a nudge for proposals
// nobody has validated yet, and the team channel gets a digest of those
// stale bookings.
type ReminderJob struct {
	cron *cron.Cron
}

// NewReminderJob creates the reminder scheduler, firing daily at 09:00
// server time
func NewReminderJob() *ReminderJob {
	j := &ReminderJob{cron: cron.New()}
	if _, err := j.cron.AddFunc("0 9 * * *", j.sendReminders); err != nil {
		log.Printf("❌ Failed to schedule reminder job: %v", err)
	}
	return j
}

// Start begins the reminder schedule
func (j *ReminderJob) Start() {
	j.cron.Start()
	log.Println("🚀 Reminder job scheduled (daily 09:00)")
}

// Stop stops the scheduler, waiting for a running send to finish
func (j *ReminderJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Reminder job stopped")
}

func (j *ReminderJob) sendReminders() {
	j.remindClients()
	j.repushOpenProposals()
}

// remindClients pushes a reminder for every confirmed booking happening
// tomorrow
func (j *ReminderJob) remindClients() {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.Booking
	err := database.DB.Preload("Client").Preload("Venue").
		Where("status = ? AND booking_date = ?", models.BookingStatusConfirmed, tomorrow).
		Find(&bookings).Error
	if err != nil {
		log.Printf("❌ Error loading bookings for reminders: %v", err)
		return
	}
	if len(bookings) == 0 {
		return
	}

	pushService := services.NewPushService()
	for _, booking := range bookings {
		title, body := reminderMessage(booking.Client.PreferredLanguage, booking.Venue.Name, booking.BookingTime)
		err := pushService.SendToUser(booking.ClientID, title, body, "booking_reminder", map[string]interface{}{
			"booking_id": booking.ID,
		})
		if err != nil {
			log.Printf("⚠️ Failed to push reminder for booking %s: %v", booking.ID, err)
		}
	}

	log.Printf("🔔 Sent %d booking reminders for %s", len(bookings), tomorrow)
}

// repushOpenProposals re-alerts eligible therapists about proposals nobody
// has validated yet. Delivery goes through the per-(booking, therapist) log,
// so therapists already alerted are skipped and only ones missed by the
// original fan-out (new affiliations, reactivated profiles, failed sends
// that never got recorded) receive a push. Stale proposals are also rolled
// up into one team-channel digest.
func (j *ReminderJob) repushOpenProposals() {
	var bookings []models.Booking
	err := database.DB.Preload("Venue").Preload("Proposal").
		Where("status = ?", models.BookingStatusAwaitingTherapist).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		log.Printf("❌ Error loading open proposals for re-push: %v", err)
		return
	}

	pushService := services.NewPushService()
	stale := make([]models.Booking, 0, len(bookings))
	pushed := 0

	for _, booking := range bookings {
		if booking.Proposal == nil || booking.Proposal.IsClaimed() {
			continue
		}
		stale = append(stale, booking)

		var therapists []models.TherapistProfile
		err := database.DB.
			Joins("JOIN therapist_venue_affiliations tva ON tva.therapist_id = therapist_profiles.id").
			Where("tva.venue_id = ?", booking.VenueID).
			Where("therapist_profiles.is_active = ? AND therapist_profiles.is_available = ?", true, true).
			Find(&therapists).Error
		if err != nil {
			log.Printf("❌ Error loading therapists for venue %d: %v", booking.VenueID, err)
			continue
		}

		title, body := proposalNudgeMessage(&booking)
		for _, therapist := range therapists {
			if booking.HasDeclined(therapist.ID) {
				continue
			}
			fresh, err := services.RecordBookingNotification(booking.ID, therapist.UserID)
			if err != nil {
				log.Printf("⚠️ Failed to record nudge for booking %s user %d: %v", booking.ID, therapist.UserID, err)
				continue
			}
			if !fresh {
				continue
			}
			if err := pushService.SendToUser(therapist.UserID, title, body, "booking_proposed", map[string]interface{}{
				"booking_id": booking.ID,
			}); err != nil {
				log.Printf("⚠️ Failed to nudge therapist %d for booking %s: %v", therapist.UserID, booking.ID, err)
				continue
			}
			pushed++
		}
	}

	if len(stale) > 0 {
		go sendStaleDigest(stale)
		log.Printf("🔁 Re-pushed %d therapist alerts across %d open proposals", pushed, len(stale))
	}
}

// proposalNudgeMessage renders the re-push title/body listing the still-open
// slots
func proposalNudgeMessage(booking *models.Booking) (string, string) {
	title := fmt.Sprintf("Still unclaimed at %s", booking.Venue.Name)
	body := ""
	for n := 1; n <= 3; n++ {
		date, timeOfDay, ok := booking.Proposal.Slot(n)
		if !ok {
			continue
		}
		body += fmt.Sprintf("Option %d: %s at %s\n", n, date.Format("Mon 2 Jan"), timeOfDay)
	}
	body += "First to validate gets the booking."
	return title, body
}

// sendStaleDigest posts one summary line per unclaimed proposal to the team
// channel
func sendStaleDigest(stale []models.Booking) {
	slackService := services.NewSlackService()

	text := fmt.Sprintf("⏳ %d booking(s) still awaiting therapist validation:\n", len(stale))
	for _, booking := range stale {
		text += fmt.Sprintf("• #%d at %s, proposed %s\n",
			booking.BookingNumber, booking.Venue.Name, booking.CreatedAt.Format("2006-01-02"))
	}

	if err := slackService.SendText(text); err != nil {
		log.Printf("⚠️ Failed to send stale proposal digest: %v", err)
	}
}

func reminderMessage(lang, venueName, timeOfDay string) (string, string) {
	switch lang {
	case "fr":
		return "Rappel de réservation", fmt.Sprintf("Votre soin chez %s est demain à %s.", venueName, timeOfDay)
	case "ar":
		return "تذكير بالحجز", fmt.Sprintf("جلستك في %s غدًا الساعة %s.", venueName, timeOfDay)
	case "zh":
		return "预订提醒", fmt.Sprintf("您在 %s 的护理是明天 %s。", venueName, timeOfDay)
	default:
		return "Booking reminder", fmt.Sprintf("Your treatment at %s is tomorrow at %s.", venueName, timeOfDay)
	}
}
