package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"spa-booking-server/database"
	"spa-booking-server/middleware"
	"spa-booking-server/models"
)

// RegisterVenueRoutes registers the venue catalog endpoints. Reads are open
// to any authenticated user; writes are admin only.
func RegisterVenueRoutes(router *gin.RouterGroup) {
	router.GET("", listVenues)
	router.GET("/:id", getVenue)
	router.GET("/:id/treatments", listVenueTreatments)

	admin := router.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.POST("", createVenue)
	admin.PUT("/:id", updateVenue)
	admin.POST("/:id/treatments", createTreatment)
	admin.PUT("/:id/treatments/:treatmentId", updateTreatment)
}

func listVenues(c *gin.Context) {
	query := database.DB.Where("is_active = ?", true).Order("sort_order ASC, name ASC")

	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var venues []models.Venue
	if err := query.Find(&venues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load venues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

func getVenue(c *gin.Context) {
	var venue models.Venue
	if err := database.DB.Preload("Treatments", "is_active = ?", true).
		Where("id = ?", c.Param("id")).First(&venue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

func listVenueTreatments(c *gin.Context) {
	var treatments []models.Treatment
	if err := database.DB.Where("venue_id = ? AND is_active = ?", c.Param("id"), true).
		Order("sort_order ASC, name ASC").Find(&treatments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load treatments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"treatments": treatments})
}

func createVenue(c *gin.Context) {
	var req models.VenueCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue := models.Venue{
		Name:         req.Name,
		City:         req.City,
		Country:      req.Country,
		Address:      req.Address,
		CurrencyCode: req.CurrencyCode,
		ContactEmail: req.ContactEmail,
		IsActive:     true,
	}
	if err := database.DB.Create(&venue).Error; err != nil {
		log.Printf("❌ Failed to create venue %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venue"})
		return
	}

	log.Printf("🏨 Venue %d (%s, %s) created", venue.ID, venue.Name, venue.City)
	c.JSON(http.StatusCreated, gin.H{"venue": venue})
}

func updateVenue(c *gin.Context) {
	var venue models.Venue
	if err := database.DB.Where("id = ?", c.Param("id")).First(&venue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	var req struct {
		Name         *string `json:"name"`
		City         *string `json:"city"`
		Country      *string `json:"country"`
		Address      *string `json:"address"`
		CurrencyCode *string `json:"currency_code"`
		ContactEmail *string `json:"contact_email"`
		IsActive     *bool   `json:"is_active"`
		SortOrder    *int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.CurrencyCode != nil {
		updates["currency_code"] = *req.CurrencyCode
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	if err := database.DB.Model(&venue).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update venue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

func createTreatment(c *gin.Context) {
	var venue models.Venue
	if err := database.DB.Where("id = ?", c.Param("id")).First(&venue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}

	var req models.TreatmentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	treatment := models.Treatment{
		VenueID:         venue.ID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: duration,
		Price:           req.Price,
		IsActive:        true,
	}
	if err := database.DB.Create(&treatment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create treatment"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"treatment": treatment})
}

func updateTreatment(c *gin.Context) {
	var treatment models.Treatment
	if err := database.DB.Where("id = ? AND venue_id = ?", c.Param("treatmentId"), c.Param("id")).
		First(&treatment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Treatment not found"})
		return
	}

	var req struct {
		Name            *string  `json:"name"`
		Description     *string  `json:"description"`
		DurationMinutes *int     `json:"duration_minutes"`
		Price           *float64 `json:"price"`
		IsActive        *bool    `json:"is_active"`
		SortOrder       *int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	if err := database.DB.Model(&treatment).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update treatment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"treatment": treatment})
}
