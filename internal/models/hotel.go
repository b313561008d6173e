package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hotel represents a hotel in the catalogue. A manager runs at most one hotel
// (hotels.manager_id is UNIQUE).
type Hotel struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Address     string              `json:"address" db:"address"`
	City        string              `json:"city" db:"city"`
	Country     string              `json:"country" db:"country"`
	Description NullString          `json:"description,omitempty" db:"description"`
	ImageURL    NullString          `json:"image_url,omitempty" db:"image_url"`
	Rating      decimal.NullDecimal `json:"rating" db:"rating"`
	ManagerID   uuid.NullUUID       `json:"manager_id" db:"manager_id"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`

	// Populated via separate queries
	Manager *UserSummary `json:"manager,omitempty" db:"-"`
	Rooms   []Room       `json:"rooms,omitempty" db:"-"`
}

// HotelSummary is the short form of a hotel embedded in other payloads
type HotelSummary struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Name    string    `json:"name" db:"name"`
	City    string    `json:"city" db:"city"`
	Country string    `json:"country" db:"country"`
}

// IsManagedBy reports whether userID is the hotel's assigned manager
func (h *Hotel) IsManagedBy(userID uuid.UUID) bool {
	return h.ManagerID.Valid && h.ManagerID.UUID == userID
}

// HotelFilter narrows public hotel listings
type HotelFilter struct {
	City   string
	Search string // matched against name, case-insensitive
}

// HotelRequest is the body of POST /admin/hotels and PUT /admin/hotels/:id
// and PUT /manager/hotel
type HotelRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Address     string           `json:"address" binding:"required,max=300"`
	City        string           `json:"city" binding:"required,max=100"`
	Country     string           `json:"country" binding:"required,max=100"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	Rating      *decimal.Decimal `json:"rating"`
	ManagerID   *uuid.UUID       `json:"manager_id"` // create only
}

// AssignManagerRequest is the body of PUT /admin/hotels/:id/manager.
// A null manager_id removes the current manager.
type AssignManagerRequest struct {
	ManagerID *uuid.UUID `json:"manager_id"`
}
