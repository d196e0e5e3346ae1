package services

import (
	"strings"
	"testing"
)

func TestFormatAlertText(t *testing.T) {
	alert := BookingAlert{
		Type:          "slot_validated",
		BookingNumber: 1042,
		ClientName:    "Nora Haddad",
		VenueName:     "Riad Almas Spa",
		Date:          "2026-09-10",
		Time:          "14:00",
		TherapistName: "Leila",
		Price:         700,
		Currency:      "MAD",
		Treatments:    []string{"Hammam traditionnel", "Massage à l'huile d'argan"},
	}

	text := formatAlertText(alert)

	for _, want := range []string{
		"Booking #1042 confirmed",
		"Nora Haddad",
		"Riad Almas Spa",
		"2026-09-10 14:00",
		"Leila",
		"700.00 MAD",
		"Hammam traditionnel, Massage à l'huile d'argan",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("alert text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatAlertTextByType(t *testing.T) {
	cases := []struct {
		alertType string
		want      string
	}{
		{"slot_validated", "confirmed"},
		{"slots_proposed", "awaiting therapist selection"},
		{"booking_expired", "expired without a claim"},
		{"something_else", "created"},
	}
	for _, tc := range cases {
		t.Run(tc.alertType, func(t *testing.T) {
			text := formatAlertText(BookingAlert{Type: tc.alertType, BookingNumber: 7})
			if !strings.Contains(text, tc.want) {
				t.Errorf("type %s: text %q missing %q", tc.alertType, text, tc.want)
			}
		})
	}
}

func TestFormatAlertTextOmitsEmptyFields(t *testing.T) {
	text := formatAlertText(BookingAlert{Type: "slots_proposed", BookingNumber: 9, Currency: "EUR"})

	if strings.Contains(text, "Therapist:") {
		t.Error("therapist line should be omitted when no therapist is set")
	}
	if strings.Contains(text, "Treatments:") {
		t.Error("treatments line should be omitted when the list is empty")
	}
}
