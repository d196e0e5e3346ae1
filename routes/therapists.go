package routes

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"spa-booking-server/database"
	"spa-booking-server/middleware"
	"spa-booking-server/models"
)

// RegisterTherapistRoutes registers therapist profile management and the
// admin-side affiliation endpoints
func RegisterTherapistRoutes(router *gin.RouterGroup) {
	therapist := router.Group("")
	therapist.Use(middleware.RequireRole(models.RoleTherapist))
	therapist.POST("/profile", upsertTherapistProfile)
	therapist.GET("/profile", getTherapistProfile)
	therapist.PUT("/availability", updateTherapistAvailability)
	therapist.POST("/profile/photo", uploadTherapistPhoto)

	admin := router.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("", listTherapists)
	admin.POST("/:id/venues/:venueId", addTherapistAffiliation)
	admin.DELETE("/:id/venues/:venueId", removeTherapistAffiliation)
	admin.PUT("/:id/active", setTherapistActive)
}

// upsertTherapistProfile creates or updates the caller's professional profile
func upsertTherapistProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.TherapistProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.TherapistProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		profile.DisplayName = req.DisplayName
		profile.Bio = req.Bio
		profile.PhoneNumber = req.PhoneNumber
		if err := database.DB.Save(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": profile})
		return
	}

	profile = models.TherapistProfile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
		IsAvailable: true,
	}
	if err := database.DB.Create(&profile).Error; err != nil {
		log.Printf("❌ Failed to create therapist profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}
	log.Printf("💆 Therapist profile %d created for user %d", profile.ID, userID)
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func getTherapistProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var profile models.TherapistProfile
	if err := database.DB.Preload("Affiliations.Venue").
		Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// updateTherapistAvailability toggles whether the therapist receives new
// booking alerts. Does not affect bookings already assigned.
func updateTherapistAvailability(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.TherapistProfile{}).
		Where("user_id = ?", userID).
		Update("is_available", req.IsAvailable)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_available": req.IsAvailable})
}

// validateImageFile validates mimetype and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadTherapistPhoto uploads a profile photo to Cloudinary and stores the
// secure URL on the profile
func uploadTherapistPhoto(c *gin.Context) {
	userID := c.GetUint("user_id")

	var profile models.TherapistProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist profile not found"})
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No photo provided"})
		return
	}
	if !validateImageFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo must be jpg, png or webp and at most 5MB"})
		return
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Photo storage not configured"})
		return
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Photo storage unavailable"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read photo"})
		return
	}
	defer file.Close()

	overwrite := true
	unique := true
	result, err := cld.Upload.Upload(c.Request.Context(), file, uploader.UploadParams{
		Folder:         "therapists/profile_photos/" + strconv.Itoa(int(userID)),
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		log.Printf("❌ Photo upload failed for therapist %d: %v", profile.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Photo upload failed"})
		return
	}

	if err := database.DB.Model(&profile).Update("photo_url", result.SecureURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo URL"})
		return
	}

	log.Printf("✅ Photo uploaded for therapist %d", profile.ID)
	c.JSON(http.StatusOK, gin.H{"photo_url": result.SecureURL})
}

func listTherapists(c *gin.Context) {
	query := database.DB.Preload("User").Preload("Affiliations.Venue")

	if venueID := c.Query("venue_id"); venueID != "" {
		query = query.
			Joins("JOIN therapist_venue_affiliations tva ON tva.therapist_id = therapist_profiles.id").
			Where("tva.venue_id = ?", venueID)
	}

	var therapists []models.TherapistProfile
	if err := query.Order("display_name ASC").Find(&therapists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load therapists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"therapists": therapists})
}

// addTherapistAffiliation links a therapist to a venue. The unique index on
// (therapist_id, venue_id) makes repeat calls idempotent.
func addTherapistAffiliation(c *gin.Context) {
	therapistID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid therapist id"})
		return
	}
	venueID, err := strconv.ParseUint(c.Param("venueId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue id"})
		return
	}

	var therapist models.TherapistProfile
	if err := database.DB.First(&therapist, therapistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
		return
	}
	var venue models.Venue
	if err := database.DB.First(&venue, venueID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	affiliation := models.TherapistVenueAffiliation{
		TherapistID: uint(therapistID),
		VenueID:     uint(venueID),
	}
	if err := database.DB.Create(&affiliation).Error; err != nil {
		// Duplicate affiliation is not an error worth surfacing
		c.JSON(http.StatusOK, gin.H{"message": "Therapist already affiliated with venue"})
		return
	}

	log.Printf("🔗 Therapist %d affiliated with venue %d", therapistID, venueID)
	c.JSON(http.StatusCreated, gin.H{"affiliation": affiliation})
}

func removeTherapistAffiliation(c *gin.Context) {
	res := database.DB.
		Where("therapist_id = ? AND venue_id = ?", c.Param("id"), c.Param("venueId")).
		Delete(&models.TherapistVenueAffiliation{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove affiliation"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Affiliation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Affiliation removed"})
}

// setTherapistActive activates or deactivates a therapist account-wide.
// Inactive therapists receive no booking alerts and cannot claim slots.
func setTherapistActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := database.DB.Model(&models.TherapistProfile{}).
		Where("id = ?", c.Param("id")).
		Update("is_active", *req.IsActive)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update therapist"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Therapist not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_active": *req.IsActive})
}
