package models

import (
	"time"

	"gorm.io/gorm"
)

// Treatment represents a bookable spa or grooming treatment offered at a venue
type Treatment struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	VenueID         uint           `json:"venue_id" gorm:"not null;index"`
	Venue           Venue          `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	Name            string         `json:"name" gorm:"size:255;not null"`
	Description     string         `json:"description" gorm:"type:text"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null;default:60"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	SortOrder       int            `json:"sort_order" gorm:"default:0"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Treatment model
func (Treatment) TableName() string {
	return "treatments"
}

// TreatmentCreate represents the request structure for creating a treatment
type TreatmentCreate struct {
	VenueID         uint    `json:"venue_id" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price" binding:"required"`
}
