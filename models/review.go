package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a client's rating of a completed booking. One review per booking.
type Review struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	BookingID   string         `json:"booking_id" gorm:"type:uuid;not null;uniqueIndex"`
	ClientID    uint           `json:"client_id" gorm:"not null"`
	TherapistID uint           `json:"therapist_id" gorm:"not null;index"`
	Rating      int            `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment     string         `json:"comment" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Booking   Booking          `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Client    User             `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Therapist TherapistProfile `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreate represents the request structure for submitting a review
type ReviewCreate struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
