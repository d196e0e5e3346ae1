package models

import "testing"

func TestBookingStatusTransitions(t *testing.T) {
	allowed := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{BookingStatusPending, BookingStatusAwaitingTherapist},
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusQuotePending, BookingStatusAwaitingTherapist},
		{BookingStatusAwaitingTherapist, BookingStatusConfirmed},
		{BookingStatusAwaitingTherapist, BookingStatusExpired},
		{BookingStatusAwaitingTherapist, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusInProgress},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusInProgress, BookingStatusCompleted},
	}
	for _, tc := range allowed {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			if !tc.from.CanTransitionTo(tc.to) {
				t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
			}
		})
	}

	rejected := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{BookingStatusCompleted, BookingStatusInProgress},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusExpired, BookingStatusAwaitingTherapist},
		{BookingStatusConfirmed, BookingStatusAwaitingTherapist},
		{BookingStatusInProgress, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCompleted},
	}
	for _, tc := range rejected {
		t.Run("reject_"+string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			if tc.from.CanTransitionTo(tc.to) {
				t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
			}
		})
	}
}

func TestBookingStatusIsTerminal(t *testing.T) {
	terminal := []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusExpired}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}

	open := []BookingStatus{BookingStatusPending, BookingStatusAwaitingTherapist, BookingStatusConfirmed, BookingStatusInProgress}
	for _, s := range open {
		if s.IsTerminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestBookingHasDeclined(t *testing.T) {
	booking := Booking{DeclinedBy: []int64{3, 7}}

	if !booking.HasDeclined(3) {
		t.Error("expected therapist 3 to be recorded as declined")
	}
	if !booking.HasDeclined(7) {
		t.Error("expected therapist 7 to be recorded as declined")
	}
	if booking.HasDeclined(5) {
		t.Error("therapist 5 never declined")
	}

	empty := Booking{}
	if empty.HasDeclined(1) {
		t.Error("empty declined list should match nobody")
	}
}
