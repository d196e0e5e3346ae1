package models

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestProposedSlotSetSlot(t *testing.T) {
	proposal := ProposedSlotSet{
		Slot1Date: date("2026-09-10"),
		Slot1Time: "14:00",
		Slot2Date: datePtr("2026-09-11"),
		Slot2Time: strPtr("10:30"),
	}

	t.Run("populated slots", func(t *testing.T) {
		d, tm, ok := proposal.Slot(1)
		if !ok || !d.Equal(date("2026-09-10")) || tm != "14:00" {
			t.Errorf("slot 1 = (%v, %s, %v)", d, tm, ok)
		}
		d, tm, ok = proposal.Slot(2)
		if !ok || !d.Equal(date("2026-09-11")) || tm != "10:30" {
			t.Errorf("slot 2 = (%v, %s, %v)", d, tm, ok)
		}
	})

	t.Run("empty third slot", func(t *testing.T) {
		if _, _, ok := proposal.Slot(3); ok {
			t.Error("slot 3 was never set")
		}
	})

	t.Run("out of range", func(t *testing.T) {
		if _, _, ok := proposal.Slot(0); ok {
			t.Error("slot 0 is invalid")
		}
		if _, _, ok := proposal.Slot(4); ok {
			t.Error("slot 4 is invalid")
		}
	})
}

func TestProposedSlotSetSlotCount(t *testing.T) {
	two := ProposedSlotSet{
		Slot1Date: date("2026-09-10"), Slot1Time: "14:00",
		Slot2Date: datePtr("2026-09-11"), Slot2Time: strPtr("10:30"),
	}
	if got := two.SlotCount(); got != 2 {
		t.Errorf("SlotCount() = %d, want 2", got)
	}

	three := two
	three.Slot3Date = datePtr("2026-09-12")
	three.Slot3Time = strPtr("16:00")
	if got := three.SlotCount(); got != 3 {
		t.Errorf("SlotCount() = %d, want 3", got)
	}
}

func TestProposedSlotSetLastSlotDate(t *testing.T) {
	t.Run("latest date wins regardless of slot order", func(t *testing.T) {
		proposal := ProposedSlotSet{
			Slot1Date: date("2026-09-15"), Slot1Time: "14:00",
			Slot2Date: datePtr("2026-09-11"), Slot2Time: strPtr("10:30"),
			Slot3Date: datePtr("2026-09-13"), Slot3Time: strPtr("16:00"),
		}
		if got := proposal.LastSlotDate(); !got.Equal(date("2026-09-15")) {
			t.Errorf("LastSlotDate() = %v, want 2026-09-15", got)
		}
	})

	t.Run("single mandatory slot", func(t *testing.T) {
		proposal := ProposedSlotSet{Slot1Date: date("2026-09-10"), Slot1Time: "14:00"}
		if got := proposal.LastSlotDate(); !got.Equal(date("2026-09-10")) {
			t.Errorf("LastSlotDate() = %v, want 2026-09-10", got)
		}
	})
}

func TestProposedSlotSetIsClaimed(t *testing.T) {
	proposal := ProposedSlotSet{Slot1Date: date("2026-09-10"), Slot1Time: "14:00"}
	if proposal.IsClaimed() {
		t.Error("fresh proposal should not be claimed")
	}

	slot := 2
	proposal.ValidatedSlot = &slot
	if !proposal.IsClaimed() {
		t.Error("proposal with a validated slot is claimed")
	}
}
