package models

import (
	"time"

	"gorm.io/gorm"
)

// Venue represents a hotel, coworking space or similar location where
// bookings take place
type Venue struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	City         string         `json:"city" gorm:"size:100;not null"`
	Country      string         `json:"country" gorm:"size:100;not null"`
	Address      string         `json:"address" gorm:"type:text"`
	CurrencyCode string         `json:"currency_code" gorm:"size:3"` // empty falls back to the configured default
	PhotoURL     *string        `json:"photo_url" gorm:"size:500"`
	ContactEmail string         `json:"contact_email" gorm:"size:255"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	SortOrder    int            `json:"sort_order" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Treatments []Treatment `json:"treatments,omitempty" gorm:"foreignKey:VenueID"`
}

// TableName specifies the table name for the Venue model
func (Venue) TableName() string {
	return "venues"
}

// VenueCreate represents the request structure for creating a venue
type VenueCreate struct {
	Name         string `json:"name" binding:"required"`
	City         string `json:"city" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Address      string `json:"address"`
	CurrencyCode string `json:"currency_code"`
	ContactEmail string `json:"contact_email"`
}
