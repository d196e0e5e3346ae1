package routes

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spa-booking-server/config"
	"spa-booking-server/database"
	"spa-booking-server/models"
	"spa-booking-server/services"
)

// openTestDB connects to the Postgres instance named by TEST_DATABASE_URL and
// migrates the tables these tests touch. The whole file is skipped when the
// variable is unset so the suite stays runnable without a database.
func openTestDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	err = db.AutoMigrate(
		&models.Venue{},
		&models.TherapistProfile{},
		&models.TherapistVenueAffiliation{},
		&models.ProposedSlotSet{},
		&models.NotificationLog{},
		&models.Notification{},
		&models.PushToken{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_booking_user ON notification_logs (booking_id, user_id)")

	config.Load()
	database.DB = db
}

func TestClaimSingleWinner(t *testing.T) {
	openTestDB(t)

	bookingID := uuid.NewString()
	slot2 := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	slot2Time := "14:00"
	proposal := models.ProposedSlotSet{
		BookingID: bookingID,
		Slot1Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Slot1Time: "10:00",
		Slot2Date: &slot2,
		Slot2Time: &slot2Time,
	}
	if err := database.DB.Create(&proposal).Error; err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	type attempt struct {
		slot        int
		therapistID uint
	}
	const attempts = 8

	var wg sync.WaitGroup
	winners := make(chan attempt, attempts)
	for i := 0; i < attempts; i++ {
		a := attempt{slot: 1 + i%2, therapistID: uint(100 + i)}
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := claimProposedSlot(bookingID, a.slot, a.therapistID, time.Now())
			if err != nil {
				t.Errorf("claim by therapist %d: %v", a.therapistID, err)
				return
			}
			if claimed {
				winners <- a
			}
		}()
	}
	wg.Wait()
	close(winners)

	var won []attempt
	for a := range winners {
		won = append(won, a)
	}
	if len(won) != 1 {
		t.Fatalf("got %d winners, want exactly 1", len(won))
	}

	var stored models.ProposedSlotSet
	if err := database.DB.Where("booking_id = ?", bookingID).First(&stored).Error; err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	if stored.ValidatedSlot == nil || *stored.ValidatedSlot != won[0].slot {
		t.Errorf("validated_slot = %v, want %d", stored.ValidatedSlot, won[0].slot)
	}
	if stored.ValidatedBy == nil || *stored.ValidatedBy != won[0].therapistID {
		t.Errorf("validated_by = %v, want %d", stored.ValidatedBy, won[0].therapistID)
	}

	t.Run("re-claim after win is rejected", func(t *testing.T) {
		claimed, err := claimProposedSlot(bookingID, 2, 999, time.Now())
		if err != nil {
			t.Fatalf("re-claim: %v", err)
		}
		if claimed {
			t.Error("claim on an already validated proposal must not succeed")
		}
	})
}

func TestNotificationDedupAcrossConcurrentTriggers(t *testing.T) {
	openTestDB(t)

	bookingID := uuid.NewString()
	recipients := []uint{201, 202, 203}
	const triggers = 6

	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh, skipped := 0, 0
	for i := 0; i < triggers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, userID := range recipients {
				ok, err := services.RecordBookingNotification(bookingID, userID)
				if err != nil {
					t.Errorf("record for user %d: %v", userID, err)
					return
				}
				mu.Lock()
				if ok {
					fresh++
				} else {
					skipped++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fresh != len(recipients) {
		t.Errorf("fresh deliveries = %d, want %d", fresh, len(recipients))
	}
	if fresh+skipped != triggers*len(recipients) {
		t.Errorf("fresh+skipped = %d, want %d", fresh+skipped, triggers*len(recipients))
	}

	var count int64
	database.DB.Model(&models.NotificationLog{}).Where("booking_id = ?", bookingID).Count(&count)
	if count != int64(len(recipients)) {
		t.Errorf("log rows = %d, want %d", count, len(recipients))
	}
}

func TestFanOutAssignedBookingWithoutProposal(t *testing.T) {
	openTestDB(t)

	venue := models.Venue{Name: "Test Spa", City: "Testville", CurrencyCode: "EUR"}
	if err := database.DB.Create(&venue).Error; err != nil {
		t.Fatalf("create venue: %v", err)
	}

	assigned := models.TherapistProfile{UserID: 301, DisplayName: "Assigned", IsActive: true, IsAvailable: true}
	other := models.TherapistProfile{UserID: 302, DisplayName: "Other", IsActive: true, IsAvailable: true}
	for _, p := range []*models.TherapistProfile{&assigned, &other} {
		if err := database.DB.Create(p).Error; err != nil {
			t.Fatalf("create profile: %v", err)
		}
		aff := models.TherapistVenueAffiliation{TherapistID: p.ID, VenueID: venue.ID}
		if err := database.DB.Create(&aff).Error; err != nil {
			t.Fatalf("create affiliation: %v", err)
		}
	}

	booking := models.Booking{
		ID:          uuid.NewString(),
		ClientID:    999,
		VenueID:     venue.ID,
		Venue:       venue,
		TherapistID: &assigned.ID,
		Status:      models.BookingStatusConfirmed,
		BookingDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		BookingTime: "11:00",
	}

	eligible, sent, skippedDup, err := fanOutBookingProposal(&booking, false, nil)
	if err != nil {
		t.Fatalf("fan-out: %v", err)
	}
	if eligible != 1 {
		t.Fatalf("eligible = %d, want exactly the assigned therapist", eligible)
	}
	if sent != 1 || skippedDup != 0 {
		t.Errorf("sent = %d skipped = %d, want 1 and 0", sent, skippedDup)
	}

	var note models.Notification
	if err := database.DB.Where("user_id = ?", assigned.UserID).Order("id DESC").First(&note).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if note.Title != "Booking at Test Spa" {
		t.Errorf("title = %q, want the single-date booking message", note.Title)
	}

	t.Run("second trigger is deduplicated", func(t *testing.T) {
		eligible, sent, skippedDup, err := fanOutBookingProposal(&booking, false, nil)
		if err != nil {
			t.Fatalf("fan-out: %v", err)
		}
		if eligible != 1 || sent != 0 || skippedDup != 1 {
			t.Errorf("eligible=%d sent=%d skipped=%d, want 1/0/1", eligible, sent, skippedDup)
		}
	})
}
