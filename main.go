package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"spa-booking-server/config"
	"spa-booking-server/database"
	"spa-booking-server/jobs"
	"spa-booking-server/middleware"
	"spa-booking-server/routes"
	"spa-booking-server/services"
	ws "spa-booking-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database (runs migrations)
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if os.Getenv("SEED_DATA") == "true" {
		if err := seedVenues(); err != nil {
			log.Printf("⚠️ Venue seeding failed: %v", err)
		}
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// CORS
	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Audit logging
	router.Use(middleware.AuditLogMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Spa Booking Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Alert hub: therapists hold a WebSocket here to hear about new
	// proposed bookings in real time
	hub := ws.NewHub()
	go hub.Run()

	broadcaster := ws.NewBookingBroadcaster(hub)

	therapistHandler := ws.NewTherapistHandler(hub)
	router.GET("/api/v1/ws/therapist", middleware.WebSocketAuthMiddleware(), therapistHandler.HandleTherapist)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterProfileRoutes(protected)
			routes.RegisterVenueRoutes(protected.Group("/venues"))
			routes.RegisterBookingRoutes(protected.Group("/bookings"), broadcaster)
			routes.RegisterSlotValidationRoutes(protected.Group("/bookings"), broadcaster)
			routes.RegisterNotificationRoutes(protected.Group("/notifications"), broadcaster)
			routes.RegisterTherapistRoutes(protected.Group("/therapists"))
			routes.RegisterReviewRoutes(protected)
		}
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start background jobs
	expirationJob := jobs.NewExpirationJob(broadcaster)
	expirationJob.Start()
	defer expirationJob.Stop()

	reminderJob := jobs.NewReminderJob()
	reminderJob.Start()
	defer reminderJob.Stop()

	// Start token cleanup job
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jwtService := services.NewJWTService()
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
