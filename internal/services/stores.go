package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// The stores below are implemented by the repositories in internal/database.
// Reads return (nil, nil) when the row does not exist.

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.UserRole) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HotelStore persists hotels
type HotelStore interface {
	Create(ctx context.Context, hotel *models.Hotel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	GetByManagerID(ctx context.Context, managerID uuid.UUID) (*models.Hotel, error)
	List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error)
	Update(ctx context.Context, hotel *models.Hotel) error
	AssignManager(ctx context.Context, hotelID uuid.UUID, managerID uuid.NullUUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasUnexpiredConfirmed(ctx context.Context, hotelID uuid.UUID, today time.Time) (bool, error)
}

// RoomStore persists rooms. Edits and deletes go through ReservationStore.InTx
// so they hold the room lock.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByNumber(ctx context.Context, hotelID uuid.UUID, number string) (*models.Room, error)
	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error)
	UpcomingBookings(ctx context.Context, roomIDs []uuid.UUID, today time.Time) (map[uuid.UUID][]models.DateRange, error)
}

// ReservationStore persists reservations and their logs. Every write goes
// through InTx.
type ReservationStore interface {
	InTx(ctx context.Context, fn func(tx database.ReservationTx) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error)
	ListLogs(ctx context.Context, reservationID uuid.UUID) ([]models.ReservationLog, error)
	ListExpiredConfirmed(ctx context.Context, today time.Time) ([]uuid.UUID, error)
	RoomIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// today returns midnight UTC of the clock's current day
func (c Clock) today() time.Time {
	if c == nil {
		return models.NormalizeDate(time.Now())
	}
	return models.NormalizeDate(c())
}
