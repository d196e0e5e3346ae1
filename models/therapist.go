package models

import (
	"time"

	"gorm.io/gorm"
)

// TherapistProfile represents a therapist's professional profile
type TherapistProfile struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	DisplayName string  `json:"display_name" gorm:"size:255;not null"`
	Bio         string  `json:"bio" gorm:"type:text"`
	PhoneNumber string  `json:"phone_number" gorm:"size:20"`
	PhotoURL    *string `json:"photo_url" gorm:"size:500"`

	// Availability
	IsActive    bool `json:"is_active" gorm:"default:true"`
	IsAvailable bool `json:"is_available" gorm:"default:true"`

	// Aggregates maintained by the booking flow
	CompletedBookings int     `json:"completed_bookings" gorm:"default:0"`
	Rating            float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews      int     `json:"total_reviews" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User         User                        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Affiliations []TherapistVenueAffiliation `json:"affiliations,omitempty" gorm:"foreignKey:TherapistID"`
}

// TableName specifies the table name for the TherapistProfile model
func (TherapistProfile) TableName() string {
	return "therapist_profiles"
}

// TherapistVenueAffiliation links a therapist to a venue they work at.
// Eligibility for booking alerts is computed from this relation.
type TherapistVenueAffiliation struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TherapistID uint      `json:"therapist_id" gorm:"not null;uniqueIndex:ux_therapist_venue,priority:1"`
	VenueID     uint      `json:"venue_id" gorm:"not null;uniqueIndex:ux_therapist_venue,priority:2"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Therapist TherapistProfile `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	Venue     Venue            `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
}

// TableName specifies the table name for the TherapistVenueAffiliation model
func (TherapistVenueAffiliation) TableName() string {
	return "therapist_venue_affiliations"
}

// TherapistProfileRequest represents the request structure for creating or
// updating a therapist profile
type TherapistProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Bio         string `json:"bio"`
	PhoneNumber string `json:"phone_number"`
}

// AvailabilityUpdateRequest toggles whether a therapist receives new booking
// alerts
type AvailabilityUpdateRequest struct {
	IsAvailable bool `json:"is_available"`
}
