package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// reservationTransitions lists the legal next states for every state.
// CANCELLED and COMPLETED have none.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusCompleted},
}

// ActiveReservationStatuses are the statuses that hold a room's dates
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// IsValid reports whether s is a known reservation status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether a reservation in this status blocks availability
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// IsTerminal reports whether no transition may leave this status
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

// CanTransitionTo reports whether moving from s to next is legal
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation represents a booking of one room for a half-open date range
type Reservation struct {
	ID              uuid.UUID         `json:"id" db:"id"`
	UserID          uuid.UUID         `json:"user_id" db:"user_id"`
	RoomID          uuid.UUID         `json:"room_id" db:"room_id"`
	CheckIn         time.Time         `json:"check_in" db:"check_in"`
	CheckOut        time.Time         `json:"check_out" db:"check_out"`
	GuestCount      int               `json:"guest_count" db:"guest_count"`
	TotalPrice      decimal.Decimal   `json:"total_price" db:"total_price"`
	Status          ReservationStatus `json:"status" db:"status"`
	SpecialRequests NullString        `json:"special_requests,omitempty" db:"special_requests"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`

	// Joined from rooms/hotels/users on every read
	HotelID    uuid.UUID `json:"hotel_id" db:"hotel_id"`
	HotelName  string    `json:"hotel_name" db:"hotel_name"`
	RoomNumber string    `json:"room_number" db:"room_number"`
	GuestEmail string    `json:"guest_email" db:"guest_email"`
	GuestName  string    `json:"guest_name" db:"guest_name"`
}

// Nights returns the number of nights the reservation covers
func (r *Reservation) Nights() int {
	return Nights(r.CheckIn, r.CheckOut)
}

// Range returns the reservation's stay as a DateRange
func (r *Reservation) Range() DateRange {
	return DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

// CreateReservationRequest is the body of POST /reservations
type CreateReservationRequest struct {
	RoomID          string `json:"roomId" binding:"required,uuid"`
	CheckIn         string `json:"checkIn" binding:"required"`
	CheckOut        string `json:"checkOut" binding:"required"`
	GuestCount      int    `json:"guestCount" binding:"required,min=1"`
	SpecialRequests string `json:"specialRequests" binding:"max=1000"`
}

// UpdateReservationStatusRequest is the body of PATCH /reservations/:id/status
type UpdateReservationStatusRequest struct {
	Status ReservationStatus `json:"status" binding:"required,reservation_status"`
}

// ReservationFilter narrows reservation listings. Zero values mean "any".
type ReservationFilter struct {
	Status    ReservationStatus
	StartDate *time.Time // reservations checking out after this date
	EndDate   *time.Time // reservations checking in before this date
	HotelID   *uuid.UUID
	UserID    *uuid.UUID
}

// AvailabilityResult is the response of GET /rooms/:id/availability
type AvailabilityResult struct {
	IsAvailable bool            `json:"isAvailable"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Nights      int             `json:"nights"`
	Message     string          `json:"message,omitempty"`
}

const dateLayout = "2006-01-02"

// NormalizeDate truncates t to midnight UTC of its calendar day
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02" or RFC3339 and returns midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return NormalizeDate(t), nil
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Nights is the calendar-day difference between checkIn and checkOut,
// rounded up. It is zero or negative for invalid ranges.
func Nights(checkIn, checkOut time.Time) int {
	hours := NormalizeDate(checkOut).Sub(NormalizeDate(checkIn)).Hours()
	return int(math.Ceil(hours / 24))
}
