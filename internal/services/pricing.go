package services

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// ComputePrice returns nightlyRate × nights for the stay [checkIn, checkOut).
// Nights is the calendar-day difference; a stay of zero or fewer nights is
// a ValidationError.
func ComputePrice(nightlyRate decimal.Decimal, checkIn, checkOut time.Time) (decimal.Decimal, int, error) {
	nights := models.Nights(checkIn, checkOut)
	if nights <= 0 {
		return decimal.Zero, 0, ValidationError("Check-out date must be after check-in date")
	}
	if !nightlyRate.IsPositive() {
		return decimal.Zero, 0, ValidationError("Room price must be positive")
	}
	return nightlyRate.Mul(decimal.NewFromInt(int64(nights))), nights, nil
}
