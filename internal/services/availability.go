package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// Overlaps reports whether the half-open ranges [aIn, aOut) and [bIn, bOut)
// intersect. A stay ending on the day another begins does not overlap it.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// FindConflict returns the first active reservation in existing whose stay
// overlaps [checkIn, checkOut), or nil when the range is free
func FindConflict(existing []models.Reservation, checkIn, checkOut time.Time) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if !r.Status.IsActive() {
			continue
		}
		if Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut) {
			return r
		}
	}
	return nil
}

// ValidateStay normalizes both dates to midnight UTC and checks ordering
func ValidateStay(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	in, out := models.NormalizeDate(checkIn), models.NormalizeDate(checkOut)
	if !in.Before(out) {
		return in, out, ValidationError("Check-out date must be after check-in date")
	}
	return in, out, nil
}

// ValidateGuests checks guestCount against the room's capacity
func ValidateGuests(room *models.Room, guestCount int) error {
	if guestCount < 1 {
		return ValidationError("Guest count must be at least 1")
	}
	if guestCount > room.Capacity {
		return ValidationError("Room capacity is %d guests, requested %d", room.Capacity, guestCount)
	}
	return nil
}

// roomReader is the slice of RoomStore the checker needs
type roomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
}

// activeReader is the slice of ReservationStore and ReservationTx the checker needs
type activeReader interface {
	ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error)
}

// AvailabilityChecker answers whether a room can be booked for a stay
type AvailabilityChecker struct {
	rooms        roomReader
	reservations activeReader
}

// NewAvailabilityChecker creates a new availability checker
func NewAvailabilityChecker(rooms roomReader, reservations activeReader) *AvailabilityChecker {
	return &AvailabilityChecker{rooms: rooms, reservations: reservations}
}

// Check reports availability and the price of the stay. guestCount of zero
// skips the capacity check.
func (c *AvailabilityChecker) Check(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, guestCount int) (*models.AvailabilityResult, error) {
	in, out, err := ValidateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := c.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if room == nil {
		return nil, NotFoundError("Room not found")
	}

	if guestCount > 0 {
		if err := ValidateGuests(room, guestCount); err != nil {
			return nil, err
		}
	}

	return evaluate(ctx, room, c.reservations, in, out)
}

// evaluate runs the availability rules against reader. It is shared by the
// public check and the booking transaction so both apply the same rules.
func evaluate(ctx context.Context, room *models.Room, reader activeReader, in, out time.Time) (*models.AvailabilityResult, error) {
	total, nights, err := ComputePrice(room.Price, in, out)
	if err != nil {
		return nil, err
	}

	result := &models.AvailabilityResult{TotalPrice: total, Nights: nights}

	if room.Status == models.RoomStatusMaintenance {
		result.Message = "Room is under maintenance"
		return result, nil
	}

	existing, err := reader.ActiveForRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	if conflict := FindConflict(existing, in, out); conflict != nil {
		result.Message = fmt.Sprintf("Room is already booked from %s to %s",
			models.FormatDate(conflict.CheckIn), models.FormatDate(conflict.CheckOut))
		return result, nil
	}

	result.IsAvailable = true
	result.Message = "Room is available"
	return result, nil
}
