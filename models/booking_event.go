package models

import (
	"time"
)

// BookingEvent is an append-only audit record of a booking status change.
// Written alongside every transition so support can reconstruct what happened
// to a booking, including who claimed which proposed slot and when.
type BookingEvent struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	BookingID string        `json:"booking_id" gorm:"type:uuid;not null;index"`
	From      BookingStatus `json:"from" gorm:"type:varchar(32)"`
	To        BookingStatus `json:"to" gorm:"type:varchar(32);not null"`
	ActorID   *uint         `json:"actor_id"` // null for system transitions (expiry sweeper)
	Detail    string        `json:"detail" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the BookingEvent model
func (BookingEvent) TableName() string {
	return "booking_events"
}
