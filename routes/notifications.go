package routes

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
	ws "spa-booking-server/websocket"
)

// RegisterNotificationRoutes registers the fan-out trigger, push token
// registration and the per-user notification feed
func RegisterNotificationRoutes(router *gin.RouterGroup, broadcaster *ws.BookingBroadcaster) {
	router.POST("/trigger", func(c *gin.Context) {
		triggerBookingNotifications(c, broadcaster)
	})
	router.POST("/push-token", registerPushToken)
	router.GET("", listNotifications)
	router.GET("/unread-count", unreadNotificationCount)
	router.PUT("/:id/read", markNotificationRead)
	router.PUT("/read-all", markAllNotificationsRead)
}

// triggerBookingNotifications fans a proposed booking out to every eligible
// therapist. Safe to call repeatedly: delivery is recorded per (booking,
// therapist) before sending, and the unique index on the log table makes the
// second attempt a no-op.
func triggerBookingNotifications(c *gin.Context, broadcaster *ws.BookingBroadcaster) {
	var req struct {
		BookingID string `json:"booking_id" binding:"required"`
		NotifyAll bool   `json:"notify_all"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := database.DB.Preload("Client").Preload("Venue").Preload("Treatments.Treatment").
		Where("id = ?", req.BookingID).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	eligible, sent, skipped, err := fanOutBookingProposal(&booking, req.NotifyAll, broadcaster)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load therapists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"total_eligible":     eligible,
		"notifications_sent": sent,
		"skipped_duplicates": skipped,
	})
}

// fanOutBookingProposal pushes a booking alert to every eligible therapist.
// While the proposal is unclaimed the message lists the alternative slots;
// once claimed, or when the booking never had a proposal (admin assigned a
// therapist directly), it states the single confirmed date/time instead.
// The booking must be loaded with Client, Venue and Treatments.
func fanOutBookingProposal(booking *models.Booking, notifyAll bool, broadcaster *ws.BookingBroadcaster) (eligible, sent, skipped int, err error) {
	var affiliated []models.TherapistProfile
	err = database.DB.
		Joins("JOIN therapist_venue_affiliations tva ON tva.therapist_id = therapist_profiles.id").
		Where("tva.venue_id = ?", booking.VenueID).
		Find(&affiliated).Error
	if err != nil {
		log.Printf("❌ Failed to load therapists for venue %d: %v", booking.VenueID, err)
		return 0, 0, 0, err
	}

	recipients := eligibleTherapists(affiliated, booking, notifyAll)
	eligible = len(recipients)

	var title, body string
	var proposal models.ProposedSlotSet
	if perr := database.DB.Where("booking_id = ?", booking.ID).First(&proposal).Error; perr == nil && !proposal.IsClaimed() {
		title, body = buildProposalMessage(booking, &proposal)
	} else {
		title, body = buildConfirmedMessage(booking)
	}

	pushService := services.NewPushService()
	for _, therapist := range recipients {
		// Record-before-send: the log row is the dedup guard, so a crash
		// between insert and send loses at most one push, never duplicates one.
		fresh, rerr := services.RecordBookingNotification(booking.ID, therapist.UserID)
		if rerr != nil {
			log.Printf("⚠️ Failed to record notification for booking %s user %d: %v", booking.ID, therapist.UserID, rerr)
			continue
		}
		if !fresh {
			skipped++
			continue
		}

		if perr := pushService.SendToUser(therapist.UserID, title, body, "booking_proposed", map[string]interface{}{
			"booking_id": booking.ID,
			"url":        bookingURL(booking.ID),
		}); perr != nil {
			log.Printf("⚠️ Push to therapist %d failed for booking %s: %v", therapist.UserID, booking.ID, perr)
			continue
		}
		sent++
	}

	if broadcaster != nil && booking.Status == models.BookingStatusAwaitingTherapist {
		go broadcaster.BroadcastProposedBooking(booking.ID)
	}

	// One team-channel summary per trigger, not per recipient
	go dispatchProposalAlert(*booking, eligible, sent)

	log.Printf("📣 Booking %s fan-out: %d eligible, %d sent, %d already notified",
		booking.ID, eligible, sent, skipped)
	return eligible, sent, skipped, nil
}

// eligibleTherapists filters venue-affiliated therapists down to those who
// should receive the alert: active, available profiles that have not declined
// the booking. When the booking already has an assigned therapist and
// notifyAll is false, only that therapist is addressed, and the availability
// toggle is ignored because the booking is theirs either way.
func eligibleTherapists(affiliated []models.TherapistProfile, booking *models.Booking, notifyAll bool) []models.TherapistProfile {
	assignedOnly := !notifyAll && booking.TherapistID != nil
	eligible := make([]models.TherapistProfile, 0, len(affiliated))
	for _, therapist := range affiliated {
		if !therapist.IsActive {
			continue
		}
		if booking.HasDeclined(therapist.ID) {
			continue
		}
		if assignedOnly {
			if *booking.TherapistID != therapist.ID {
				continue
			}
		} else if !therapist.IsAvailable {
			continue
		}
		eligible = append(eligible, therapist)
	}
	return eligible
}

// buildProposalMessage renders the push title/body for a proposed booking,
// listing each populated slot on its own numbered line.
func buildProposalMessage(booking *models.Booking, proposal *models.ProposedSlotSet) (string, string) {
	title := fmt.Sprintf("New booking request at %s", booking.Venue.Name)

	body := ""
	for n := 1; n <= 3; n++ {
		date, timeOfDay, ok := proposal.Slot(n)
		if !ok {
			continue
		}
		body += fmt.Sprintf("Option %d: %s at %s\n", n, date.Format("Mon 2 Jan"), timeOfDay)
	}
	body += "First to validate gets the booking."
	return title, body
}

// buildConfirmedMessage renders the push title/body for a booking with a
// fixed date/time, either admin-assigned or already validated.
func buildConfirmedMessage(booking *models.Booking) (string, string) {
	title := fmt.Sprintf("Booking at %s", booking.Venue.Name)
	body := fmt.Sprintf("Scheduled for %s at %s.", booking.BookingDate.Format("Mon 2 Jan"), booking.BookingTime)
	return title, body
}

// dispatchProposalAlert posts the fan-out summary to the team channel
func dispatchProposalAlert(booking models.Booking, eligible, sent int) {
	slackService := services.NewSlackService()

	treatments := make([]string, 0, len(booking.Treatments))
	for _, bt := range booking.Treatments {
		treatments = append(treatments, bt.Treatment.Name)
	}

	err := slackService.SendBookingAlert(services.BookingAlert{
		Type:          "slots_proposed",
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		ClientName:    booking.Client.FullName,
		VenueName:     booking.Venue.Name,
		Date:          booking.BookingDate.Format("2006-01-02"),
		Time:          booking.BookingTime,
		TherapistName: fmt.Sprintf("%d notified of %d eligible", sent, eligible),
		Price:         booking.TotalPrice,
		Currency:      booking.Currency,
		Treatments:    treatments,
	})
	if err != nil {
		log.Printf("⚠️ Failed to send Slack summary for booking %s: %v", booking.ID, err)
	}
}

// localizedConfirmationMessage renders the client-facing confirmation push
// in the client's preferred language.
func localizedConfirmationMessage(lang, date, timeOfDay, therapistName string) (string, string) {
	switch lang {
	case "fr":
		return "Réservation confirmée ✅",
			fmt.Sprintf("Votre soin est confirmé le %s à %s avec %s.", date, timeOfDay, therapistName)
	case "ar":
		return "تم تأكيد الحجز ✅",
			fmt.Sprintf("تم تأكيد جلستك يوم %s الساعة %s مع %s.", date, timeOfDay, therapistName)
	case "zh":
		return "预订已确认 ✅",
			fmt.Sprintf("您的护理已确认：%s %s，理疗师 %s。", date, timeOfDay, therapistName)
	default:
		return "Booking confirmed ✅",
			fmt.Sprintf("Your treatment is confirmed for %s at %s with %s.", date, timeOfDay, therapistName)
	}
}

// localizedStatusMessage renders client-facing pushes for the remaining
// lifecycle transitions.
func localizedStatusMessage(status models.BookingStatus, lang string) (string, string) {
	type msg struct{ title, body string }
	messages := map[models.BookingStatus]map[string]msg{
		models.BookingStatusCancelled: {
			"en": {"Booking cancelled", "Your booking has been cancelled."},
			"fr": {"Réservation annulée", "Votre réservation a été annulée."},
			"ar": {"تم إلغاء الحجز", "تم إلغاء حجزك."},
			"zh": {"预订已取消", "您的预订已被取消。"},
		},
		models.BookingStatusExpired: {
			"en": {"Booking expired", "No therapist was available for the proposed times. Please pick new slots."},
			"fr": {"Réservation expirée", "Aucun thérapeute n'était disponible aux horaires proposés. Veuillez choisir de nouveaux créneaux."},
			"ar": {"انتهت صلاحية الحجز", "لم يكن هناك معالج متاح في الأوقات المقترحة. يرجى اختيار مواعيد جديدة."},
			"zh": {"预订已过期", "所提议的时间没有理疗师可用，请重新选择时间。"},
		},
		models.BookingStatusInProgress: {
			"en": {"Treatment started", "Your treatment session has started. Enjoy!"},
			"fr": {"Soin commencé", "Votre séance a commencé. Profitez-en !"},
			"ar": {"بدأت الجلسة", "بدأت جلستك. استمتع!"},
			"zh": {"护理已开始", "您的护理已开始，请享受！"},
		},
		models.BookingStatusCompleted: {
			"en": {"Treatment completed", "Thank you for your visit. We'd love to hear your feedback."},
			"fr": {"Soin terminé", "Merci de votre visite. Votre avis nous intéresse."},
			"ar": {"اكتملت الجلسة", "شكرًا لزيارتك. يسعدنا سماع رأيك."},
			"zh": {"护理已完成", "感谢您的光临，期待您的反馈。"},
		},
	}
	perLang, ok := messages[status]
	if !ok {
		return "Booking update", "Your booking status has changed."
	}
	m, ok := perLang[lang]
	if !ok {
		m = perLang["en"]
	}
	return m.title, m.body
}

// registerPushToken stores or refreshes a device push token for the caller
func registerPushToken(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform" binding:"required,oneof=ios android"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.PushToken
	err := database.DB.Where("token = ?", req.Token).First(&existing).Error
	if err == nil {
		// Token can move between accounts on a shared device
		existing.UserID = userID
		existing.Platform = req.Platform
		if err := database.DB.Save(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update push token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Push token updated"})
		return
	}

	token := models.PushToken{UserID: userID, Token: req.Token, Platform: req.Platform}
	if err := database.DB.Create(&token).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register push token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Push token registered"})
}

// listNotifications returns the caller's notification feed, newest first
func listNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var notifications []models.Notification
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func unreadNotificationCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func markNotificationRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	res := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
