package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spa-booking-server/config"
	"spa-booking-server/models"
)

var DB *gorm.DB

// Initialize sets up the database connection and runs migrations
func Initialize() error {
	connString := os.Getenv("DB_URL")
	if connString == "" {
		// Fall back to discrete DB_* settings
		db := config.AppConfig.Database
		connString = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
	}

	// Configure GORM logger
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Open database connection
	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	// Run migrations
	if err := runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// runMigrations creates or updates database tables
func runMigrations() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Venue{},
		&models.Treatment{},
		&models.TherapistProfile{},
		&models.TherapistVenueAffiliation{},
		&models.Booking{},
		&models.BookingTreatment{},
		&models.ProposedSlotSet{},
		&models.BookingEvent{},
		&models.Review{},
		&models.RefreshToken{},
		&models.Notification{},
		&models.PushToken{},
		&models.NotificationLog{},
	); err != nil {
		return err
	}

	// AutoMigrate cannot be trusted to create composite unique indexes on
	// tables that predate the constraint, and the fan-out dedup depends on
	// this one. Create it explicitly.
	if err := migrateNotificationLogIndex(); err != nil {
		return err
	}

	return nil
}

// migrateNotificationLogIndex ensures the unique (booking_id, user_id) index
// exists on notification_logs
func migrateNotificationLogIndex() error {
	if !DB.Migrator().HasTable(&models.NotificationLog{}) {
		return nil
	}

	if err := DB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_booking_user ON notification_logs (booking_id, user_id)",
	).Error; err != nil {
		return err
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
