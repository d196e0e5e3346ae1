package models

import (
	"time"
)

// ProposedSlotSet holds up to three candidate (date, time) pairs for a
// booking awaiting therapist selection, plus the single claim. Slot 1 is
// mandatory, slots 2 and 3 optional. The claim columns are written at most
// once, guarded by a conditional update on validated_slot IS NULL.
type ProposedSlotSet struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BookingID string `json:"booking_id" gorm:"type:uuid;uniqueIndex;not null"`

	Slot1Date time.Time  `json:"slot_1_date" gorm:"type:date;not null"`
	Slot1Time string     `json:"slot_1_time" gorm:"size:5;not null"`
	Slot2Date *time.Time `json:"slot_2_date" gorm:"type:date"`
	Slot2Time *string    `json:"slot_2_time" gorm:"size:5"`
	Slot3Date *time.Time `json:"slot_3_date" gorm:"type:date"`
	Slot3Time *string    `json:"slot_3_time" gorm:"size:5"`

	// Claim fields - set exactly once, never mutated again
	ValidatedSlot *int       `json:"validated_slot"`
	ValidatedBy   *uint      `json:"validated_by"`
	ValidatedAt   *time.Time `json:"validated_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the ProposedSlotSet model
func (ProposedSlotSet) TableName() string {
	return "proposed_slot_sets"
}

// IsClaimed reports whether a therapist already validated one of the slots
func (p *ProposedSlotSet) IsClaimed() bool {
	return p.ValidatedSlot != nil
}

// Slot returns the (date, time) pair for slot n (1-3). ok is false when the
// slot number is out of range or the slot was never populated.
func (p *ProposedSlotSet) Slot(n int) (date time.Time, timeOfDay string, ok bool) {
	switch n {
	case 1:
		return p.Slot1Date, p.Slot1Time, true
	case 2:
		if p.Slot2Date == nil || p.Slot2Time == nil {
			return time.Time{}, "", false
		}
		return *p.Slot2Date, *p.Slot2Time, true
	case 3:
		if p.Slot3Date == nil || p.Slot3Time == nil {
			return time.Time{}, "", false
		}
		return *p.Slot3Date, *p.Slot3Time, true
	default:
		return time.Time{}, "", false
	}
}

// SlotCount returns how many slots are populated
func (p *ProposedSlotSet) SlotCount() int {
	count := 1
	if p.Slot2Date != nil && p.Slot2Time != nil {
		count++
	}
	if p.Slot3Date != nil && p.Slot3Time != nil {
		count++
	}
	return count
}

// LastSlotDate returns the latest date among the populated slots. Used by the
// expiry sweeper to decide when a proposal can no longer be claimed.
func (p *ProposedSlotSet) LastSlotDate() time.Time {
	last := p.Slot1Date
	if p.Slot2Date != nil && p.Slot2Date.After(last) {
		last = *p.Slot2Date
	}
	if p.Slot3Date != nil && p.Slot3Date.After(last) {
		last = *p.Slot3Date
	}
	return last
}
