package routes

import (
	"strings"
	"testing"
	"time"

	"spa-booking-server/models"
)

func therapist(id uint, active bool) models.TherapistProfile {
	return models.TherapistProfile{ID: id, UserID: id + 100, IsActive: active, IsAvailable: true}
}

func TestEligibleTherapists(t *testing.T) {
	affiliated := []models.TherapistProfile{
		therapist(1, true),
		therapist(2, true),
		therapist(3, false),
		therapist(4, true),
	}

	t.Run("inactive therapists are excluded", func(t *testing.T) {
		booking := &models.Booking{}
		got := eligibleTherapists(affiliated, booking, false)
		if len(got) != 3 {
			t.Fatalf("got %d eligible, want 3", len(got))
		}
		for _, tp := range got {
			if tp.ID == 3 {
				t.Error("inactive therapist 3 should not be eligible")
			}
		}
	})

	t.Run("unavailable therapists are excluded from open proposals", func(t *testing.T) {
		unavailable := therapist(5, true)
		unavailable.IsAvailable = false
		booking := &models.Booking{}
		got := eligibleTherapists(append(affiliated, unavailable), booking, false)
		for _, tp := range got {
			if tp.ID == 5 {
				t.Error("unavailable therapist 5 should not be eligible")
			}
		}
	})

	t.Run("availability does not unassign an assigned booking", func(t *testing.T) {
		unavailable := therapist(6, true)
		unavailable.IsAvailable = false
		assigned := unavailable.ID
		booking := &models.Booking{TherapistID: &assigned}
		got := eligibleTherapists(append(affiliated, unavailable), booking, false)
		if len(got) != 1 || got[0].ID != 6 {
			t.Fatalf("got %v, want the assigned therapist despite availability", got)
		}
	})

	t.Run("declined therapists are excluded", func(t *testing.T) {
		booking := &models.Booking{DeclinedBy: []int64{1, 4}}
		got := eligibleTherapists(affiliated, booking, false)
		if len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("got %v, want only therapist 2", got)
		}
	})

	t.Run("assigned booking narrows to the assignee", func(t *testing.T) {
		assigned := uint(2)
		booking := &models.Booking{TherapistID: &assigned}
		got := eligibleTherapists(affiliated, booking, false)
		if len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("got %v, want only assigned therapist 2", got)
		}
	})

	t.Run("notify_all overrides the assignment", func(t *testing.T) {
		assigned := uint(2)
		booking := &models.Booking{TherapistID: &assigned}
		got := eligibleTherapists(affiliated, booking, true)
		if len(got) != 3 {
			t.Fatalf("got %d eligible, want 3", len(got))
		}
	})

	t.Run("no affiliated therapists", func(t *testing.T) {
		got := eligibleTherapists(nil, &models.Booking{}, false)
		if len(got) != 0 {
			t.Fatalf("got %d eligible, want 0", len(got))
		}
	})
}

func TestBuildProposalMessage(t *testing.T) {
	slot2Date, _ := time.Parse("2006-01-02", "2026-09-11")
	slot2Time := "10:30"
	slot1Date, _ := time.Parse("2006-01-02", "2026-09-10")

	booking := &models.Booking{Venue: models.Venue{Name: "Riad Almas Spa"}}
	proposal := &models.ProposedSlotSet{
		Slot1Date: slot1Date,
		Slot1Time: "14:00",
		Slot2Date: &slot2Date,
		Slot2Time: &slot2Time,
	}

	title, body := buildProposalMessage(booking, proposal)

	if !strings.Contains(title, "Riad Almas Spa") {
		t.Errorf("title %q should name the venue", title)
	}
	if !strings.Contains(body, "Option 1:") || !strings.Contains(body, "14:00") {
		t.Errorf("body %q should list slot 1", body)
	}
	if !strings.Contains(body, "Option 2:") || !strings.Contains(body, "10:30") {
		t.Errorf("body %q should list slot 2", body)
	}
	if strings.Contains(body, "Option 3:") {
		t.Errorf("body %q lists a slot that was never proposed", body)
	}
}

func TestBuildConfirmedMessage(t *testing.T) {
	date, _ := time.Parse("2006-01-02", "2026-09-10")
	booking := &models.Booking{
		Venue:       models.Venue{Name: "Riad Almas Spa"},
		BookingDate: date,
		BookingTime: "11:00",
	}

	title, body := buildConfirmedMessage(booking)

	if !strings.Contains(title, "Riad Almas Spa") {
		t.Errorf("title %q should name the venue", title)
	}
	if !strings.Contains(body, "11:00") || !strings.Contains(body, "10 Sep") {
		t.Errorf("body %q should state the single confirmed date and time", body)
	}
	if strings.Contains(body, "Option") {
		t.Errorf("body %q must not list alternatives", body)
	}
}

func TestLocalizedConfirmationMessage(t *testing.T) {
	for _, lang := range []string{"en", "fr", "ar", "zh"} {
		t.Run(lang, func(t *testing.T) {
			title, body := localizedConfirmationMessage(lang, "2026-09-10", "14:00", "Leila")
			if title == "" || body == "" {
				t.Fatal("empty message")
			}
			if !strings.Contains(body, "14:00") || !strings.Contains(body, "Leila") {
				t.Errorf("body %q should carry the slot time and therapist name", body)
			}
		})
	}

	t.Run("unknown language falls back to english", func(t *testing.T) {
		title, _ := localizedConfirmationMessage("de", "2026-09-10", "14:00", "Leila")
		enTitle, _ := localizedConfirmationMessage("en", "2026-09-10", "14:00", "Leila")
		if title != enTitle {
			t.Errorf("got %q, want english fallback %q", title, enTitle)
		}
	})
}

func TestLocalizedStatusMessage(t *testing.T) {
	statuses := []models.BookingStatus{
		models.BookingStatusCancelled,
		models.BookingStatusExpired,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
	}
	for _, status := range statuses {
		for _, lang := range []string{"en", "fr", "ar", "zh", "unknown"} {
			title, body := localizedStatusMessage(status, lang)
			if title == "" || body == "" {
				t.Errorf("empty message for %s/%s", status, lang)
			}
		}
	}

	t.Run("unmapped status gets a generic message", func(t *testing.T) {
		title, _ := localizedStatusMessage(models.BookingStatusPending, "en")
		if title != "Booking update" {
			t.Errorf("got %q, want generic fallback", title)
		}
	})
}
