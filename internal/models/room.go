package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomStatus represents the operational status of a room
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
)

// IsValid reports whether s is a known room status
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

// Room represents a bookable room. Number is unique within the hotel.
type Room struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	HotelID     uuid.UUID       `json:"hotel_id" db:"hotel_id"`
	Number      string          `json:"number" db:"number"`
	Type        string          `json:"type" db:"type"`
	Capacity    int             `json:"capacity" db:"capacity"`
	Price       decimal.Decimal `json:"price" db:"price"` // nightly rate
	Description NullString      `json:"description,omitempty" db:"description"`
	Status      RoomStatus      `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Upcoming confirmed stays, populated on public room reads
	Bookings []DateRange `json:"bookings,omitempty" db:"-"`
}

// DateRange is a half-open [CheckIn, CheckOut) stay
type DateRange struct {
	CheckIn  time.Time `json:"check_in" db:"check_in"`
	CheckOut time.Time `json:"check_out" db:"check_out"`
}

// DeriveRoomStatus is the single rule that maps a room's current status and
// whether a confirmed stay covers today onto the status it should carry.
// MAINTENANCE is set by staff and never overridden by reservations.
func DeriveRoomStatus(current RoomStatus, occupiedToday bool) RoomStatus {
	if current == RoomStatusMaintenance {
		return RoomStatusMaintenance
	}
	if occupiedToday {
		return RoomStatusOccupied
	}
	return RoomStatusAvailable
}

// RoomRequest is the body of POST /rooms and PUT /rooms/:id. HotelID is
// required on create for admins; managers always act on their own hotel.
type RoomRequest struct {
	HotelID     *uuid.UUID      `json:"hotel_id"`
	Number      string          `json:"number" binding:"required,max=20"`
	Type        string          `json:"type" binding:"required,max=50"`
	Capacity    int             `json:"capacity" binding:"required,min=1,max=20"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Status      RoomStatus      `json:"status" binding:"omitempty,room_status"`
}
