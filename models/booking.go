package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// BookingStatus represents the current status of a booking
type BookingStatus string

const (
	BookingStatusPending           BookingStatus = "pending"
	BookingStatusQuotePending      BookingStatus = "quote_pending"
	BookingStatusAwaitingTherapist BookingStatus = "awaiting_therapist_selection"
	BookingStatusConfirmed         BookingStatus = "confirmed"
	BookingStatusInProgress        BookingStatus = "in_progress"
	BookingStatusCompleted         BookingStatus = "completed"
	BookingStatusCancelled         BookingStatus = "cancelled"
	BookingStatusExpired           BookingStatus = "expired"
)

// allowedTransitions lists the status changes the API accepts. Anything not
// listed here is rejected at the boundary.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:           {BookingStatusQuotePending, BookingStatusAwaitingTherapist, BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusQuotePending:      {BookingStatusAwaitingTherapist, BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusAwaitingTherapist: {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusExpired},
	BookingStatusConfirmed:         {BookingStatusInProgress, BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusInProgress:        {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking represents one appointment request or commitment
type Booking struct {
	ID            string        `json:"id" gorm:"type:uuid;primaryKey"`
	BookingNumber int64         `json:"booking_number" gorm:"uniqueIndex;autoIncrement"`
	ClientID      uint          `json:"client_id" gorm:"not null;index"`
	Client        User          `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	VenueID       uint          `json:"venue_id" gorm:"not null;index"`
	Venue         Venue         `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`

	// Scheduling fields - overwritten once a proposed slot is validated
	BookingDate time.Time `json:"booking_date" gorm:"type:date;not null"`
	BookingTime string    `json:"booking_time" gorm:"size:5;not null"` // HH:MM

	// Assignment fields - null until a therapist claims the booking
	TherapistID   *uint   `json:"therapist_id" gorm:"index"`
	TherapistName *string `json:"therapist_name" gorm:"size:255"`

	// Therapists who explicitly passed on this booking
	DeclinedBy pq.Int64Array `json:"declined_by" gorm:"type:bigint[]"`

	TotalPrice float64 `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Currency   string  `json:"currency" gorm:"size:3;not null;default:'EUR'"`
	Notes      *string `json:"notes" gorm:"size:1000"`

	AssignedAt  *time.Time `json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Therapist  *TherapistProfile  `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	Treatments []BookingTreatment `json:"treatments,omitempty" gorm:"foreignKey:BookingID"`
	Proposal   *ProposedSlotSet   `json:"proposal,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate is a GORM hook that assigns the opaque booking id
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return nil
}

// HasDeclined reports whether the given therapist already passed on this booking
func (b *Booking) HasDeclined(therapistID uint) bool {
	for _, id := range b.DeclinedBy {
		if uint(id) == therapistID {
			return true
		}
	}
	return false
}

// BookingTreatment links a booking to a treatment with the price snapshot
// taken at booking time
type BookingTreatment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BookingID   string    `json:"booking_id" gorm:"type:uuid;not null;index"`
	TreatmentID uint      `json:"treatment_id" gorm:"not null"`
	Treatment   Treatment `json:"treatment,omitempty" gorm:"foreignKey:TreatmentID"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the BookingTreatment model
func (BookingTreatment) TableName() string {
	return "booking_treatments"
}

// BookingCreate represents the request structure for creating a booking
type BookingCreate struct {
	VenueID      uint     `json:"venue_id" binding:"required"`
	TreatmentIDs []uint   `json:"treatment_ids" binding:"required,min=1"`
	BookingDate  string   `json:"booking_date" binding:"required"` // YYYY-MM-DD
	BookingTime  string   `json:"booking_time" binding:"required"` // HH:MM
	Notes        *string  `json:"notes"`
	ClientID     *uint    `json:"client_id"` // concierge bookings on behalf of a client
	Slots        []SlotIn `json:"slots"`     // 2-3 entries switch the booking to proposal mode
}

// SlotIn is one candidate (date, time) pair in a booking create request
type SlotIn struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}
