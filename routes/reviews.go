package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"spa-booking-server/database"
	"spa-booking-server/models"
)

// RegisterReviewRoutes registers review submission and retrieval
func RegisterReviewRoutes(router *gin.RouterGroup) {
	router.POST("/bookings/:id/review", submitReview)
	router.GET("/therapists/:id/reviews", listTherapistReviews)
}

// submitReview records the client's rating of a completed booking.
// One review per booking, enforced by the unique index on booking_id.
func submitReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.ReviewCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var booking models.Booking
	if err := database.DB.Where("id = ?", c.Param("id")).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if booking.ClientID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the booking's client can review it"})
		return
	}
	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only completed bookings can be reviewed"})
		return
	}
	if booking.TherapistID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Booking has no assigned therapist"})
		return
	}

	review := models.Review{
		BookingID:   booking.ID,
		ClientID:    userID,
		TherapistID: *booking.TherapistID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := database.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Booking already reviewed"})
			return
		}
		log.Printf("❌ Failed to save review for booking %s: %v", booking.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	refreshTherapistRating(*booking.TherapistID)

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// refreshTherapistRating recomputes the cached rating aggregate from the
// review table rather than incrementally, so corrections stay cheap.
func refreshTherapistRating(therapistID uint) {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := database.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("therapist_id = ?", therapistID).
		Scan(&stats).Error
	if err != nil {
		log.Printf("⚠️ Failed to recompute rating for therapist %d: %v", therapistID, err)
		return
	}

	err = database.DB.Model(&models.TherapistProfile{}).
		Where("id = ?", therapistID).
		Updates(map[string]interface{}{
			"rating":        stats.Avg,
			"total_reviews": stats.Count,
		}).Error
	if err != nil {
		log.Printf("⚠️ Failed to store rating for therapist %d: %v", therapistID, err)
	}
}

func listTherapistReviews(c *gin.Context) {
	var reviews []models.Review
	if err := database.DB.Preload("Client").
		Where("therapist_id = ?", c.Param("id")).
		Order("created_at DESC").Limit(50).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
