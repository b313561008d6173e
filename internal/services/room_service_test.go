package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomRequest(number string) models.RoomRequest {
	return models.RoomRequest{
		Number:   number,
		Type:     "Suite",
		Capacity: 3,
		Price:    decimal.RequireFromString("250.00"),
	}
}

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	t.Run("manager creates in own hotel", func(t *testing.T) {
		room, err := fx.rooms.Create(ctx, fx.manager, roomRequest("301"))
		require.NoError(t, err)
		assert.Equal(t, fx.hotel.ID, room.HotelID)
		assert.Equal(t, models.RoomStatusAvailable, room.Status)
	})

	t.Run("manager cannot target another hotel", func(t *testing.T) {
		req := roomRequest("302")
		req.HotelID = &fx.otherHotel.ID
		_, err := fx.rooms.Create(ctx, fx.manager, req)
		requireKind(t, err, KindAuthorization)
	})

	t.Run("admin must name the hotel", func(t *testing.T) {
		_, err := fx.rooms.Create(ctx, fx.admin, roomRequest("303"))
		requireKind(t, err, KindValidation)

		req := roomRequest("303")
		req.HotelID = &fx.otherHotel.ID
		room, err := fx.rooms.Create(ctx, fx.admin, req)
		require.NoError(t, err)
		assert.Equal(t, fx.otherHotel.ID, room.HotelID)
	})

	t.Run("duplicate number in hotel", func(t *testing.T) {
		_, err := fx.rooms.Create(ctx, fx.manager, roomRequest("101"))
		requireKind(t, err, KindConflict)

		// Same number in another hotel is fine
		req := roomRequest("101")
		req.HotelID = &fx.otherHotel.ID
		_, err = fx.rooms.Create(ctx, fx.admin, req)
		require.NoError(t, err)
	})

	t.Run("unknown hotel", func(t *testing.T) {
		req := roomRequest("404")
		missing := uuid.New()
		req.HotelID = &missing
		_, err := fx.rooms.Create(ctx, fx.admin, req)
		requireKind(t, err, KindNotFound)
	})

	t.Run("price must be positive", func(t *testing.T) {
		req := roomRequest("305")
		req.Price = decimal.Zero
		_, err := fx.rooms.Create(ctx, fx.manager, req)
		requireKind(t, err, KindValidation)
	})

	t.Run("guests cannot create rooms", func(t *testing.T) {
		_, err := fx.rooms.Create(ctx, fx.guest, roomRequest("306"))
		requireKind(t, err, KindAuthorization)
	})
}

func TestUpdateRoomMaintenance(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	reservation := fx.book(t, fx.guest, fx.room, "2024-04-01", "2024-04-05", 1)

	req := roomRequest("101")
	req.Status = models.RoomStatusMaintenance
	_, err := fx.rooms.Update(ctx, fx.manager, fx.room.ID, req)
	requireKind(t, err, KindConflict)

	_, err = fx.reservations.Cancel(ctx, fx.guest, reservation.ID)
	require.NoError(t, err)

	room, err := fx.rooms.Update(ctx, fx.manager, fx.room.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusMaintenance, room.Status)
	assert.Equal(t, 3, room.Capacity)

	// Leaving maintenance recomputes the status
	req.Status = models.RoomStatusAvailable
	room, err = fx.rooms.Update(ctx, fx.manager, fx.room.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
	assert.Equal(t, models.RoomStatusAvailable, fx.roomStatus(t, fx.room.ID))
}

func TestUpdateRoomStatusRules(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	req := roomRequest("101")
	req.Status = models.RoomStatusOccupied
	_, err := fx.rooms.Update(ctx, fx.admin, fx.room.ID, req)
	requireKind(t, err, KindValidation)

	// Occupancy from a confirmed stay survives an edit
	current := fx.book(t, fx.guest, fx.room, "2024-03-14", "2024-03-17", 1)
	_, err = fx.reservations.UpdateStatus(ctx, fx.manager, current.ID, models.ReservationStatusConfirmed)
	require.NoError(t, err)

	req.Status = models.RoomStatusAvailable
	room, err := fx.rooms.Update(ctx, fx.manager, fx.room.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)

	second := fx.addRoom(t, fx.hotel, "102", 2, "100")
	_, err = fx.rooms.Update(ctx, fx.admin, second.ID, roomRequest("101"))
	requireKind(t, err, KindConflict)

	_, err = fx.rooms.Update(ctx, fx.otherManager, fx.room.ID, roomRequest("101"))
	requireKind(t, err, KindAuthorization)

	_, err = fx.rooms.Update(ctx, fx.admin, uuid.New(), roomRequest("999"))
	requireKind(t, err, KindNotFound)
}

func TestDeleteRoom(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	reservation := fx.book(t, fx.guest, fx.room, "2024-04-01", "2024-04-05", 1)

	err := fx.rooms.Delete(ctx, fx.manager, fx.room.ID)
	requireKind(t, err, KindConflict)

	err = fx.rooms.Delete(ctx, fx.otherManager, fx.room.ID)
	requireKind(t, err, KindAuthorization)

	// A cancelled stay is still history
	_, err = fx.reservations.Cancel(ctx, fx.guest, reservation.ID)
	require.NoError(t, err)
	err = fx.rooms.Delete(ctx, fx.manager, fx.room.ID)
	requireKind(t, err, KindConflict)
	assert.Contains(t, fx.store.reservations, reservation.ID)

	unused := fx.addRoom(t, fx.hotel, "102", 2, "120")
	require.NoError(t, fx.rooms.Delete(ctx, fx.manager, unused.ID))

	_, err = fx.rooms.Get(ctx, unused.ID)
	requireKind(t, err, KindNotFound)

	err = fx.rooms.Delete(ctx, fx.manager, unused.ID)
	requireKind(t, err, KindNotFound)
}

// racingRooms runs race once, right after the first room read, to slot a
// concurrent write between a room edit's read and its transaction
type racingRooms struct {
	RoomStore
	race func()
}

func (r *racingRooms) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := r.RoomStore.GetByID(ctx, id)
	if r.race != nil {
		race := r.race
		r.race = nil
		race()
	}
	return room, err
}

func TestUpdateRoomConcurrentWithReservations(t *testing.T) {
	ctx := context.Background()

	newRacingService := func(fx *fixture, race func()) *RoomService {
		svc := NewRoomService(&racingRooms{RoomStore: memRooms{fx.store}, race: race}, memReservations{fx.store}, fx.gate, testLogger())
		svc.clock = func() time.Time { return fx.now }
		return svc
	}

	t.Run("edit keeps occupancy confirmed after the read", func(t *testing.T) {
		fx := newFixture(t)
		stay := fx.book(t, fx.guest, fx.room, "2024-03-14", "2024-03-17", 1)

		svc := newRacingService(fx, func() {
			_, err := fx.reservations.UpdateStatus(ctx, fx.manager, stay.ID, models.ReservationStatusConfirmed)
			require.NoError(t, err)
		})

		room, err := svc.Update(ctx, fx.manager, fx.room.ID, roomRequest("101"))
		require.NoError(t, err)
		assert.Equal(t, 3, room.Capacity)
		assert.Equal(t, models.RoomStatusOccupied, room.Status)
		assert.Equal(t, models.RoomStatusOccupied, fx.roomStatus(t, fx.room.ID))
	})

	t.Run("maintenance rechecks stays booked after the read", func(t *testing.T) {
		fx := newFixture(t)

		svc := newRacingService(fx, func() {
			fx.book(t, fx.guest, fx.room, "2024-04-01", "2024-04-03", 1)
		})

		req := roomRequest("101")
		req.Status = models.RoomStatusMaintenance
		_, err := svc.Update(ctx, fx.manager, fx.room.ID, req)
		requireKind(t, err, KindConflict)
		assert.Equal(t, models.RoomStatusAvailable, fx.roomStatus(t, fx.room.ID))
		assert.Equal(t, 2, fx.store.rooms[fx.room.ID].Capacity)
	})

	t.Run("delete rechecks stays booked after the read", func(t *testing.T) {
		fx := newFixture(t)

		svc := newRacingService(fx, func() {
			fx.book(t, fx.guest, fx.room, "2024-04-01", "2024-04-03", 1)
		})

		err := svc.Delete(ctx, fx.manager, fx.room.ID)
		requireKind(t, err, KindConflict)
		assert.Contains(t, fx.store.rooms, fx.room.ID)
	})
}

func TestUpdateRoomSerializationFailure(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	fx.store.commitErr = database.ErrSerialization

	_, err := fx.rooms.Update(ctx, fx.manager, fx.room.ID, roomRequest("101"))
	requireKind(t, err, KindConflict)
	assert.Equal(t, 2, fx.store.rooms[fx.room.ID].Capacity)
}

func TestGetRoomWithBookings(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	past := fx.book(t, fx.guest, fx.room, "2024-03-01", "2024-03-03", 1)
	future := fx.book(t, fx.guest, fx.room, "2024-04-01", "2024-04-05", 1)
	for _, id := range []uuid.UUID{past.ID, future.ID} {
		_, err := fx.reservations.UpdateStatus(ctx, fx.admin, id, models.ReservationStatusConfirmed)
		require.NoError(t, err)
	}

	room, err := fx.rooms.Get(ctx, fx.room.ID)
	require.NoError(t, err)
	require.Len(t, room.Bookings, 1)
	assert.Equal(t, models.DateRange{CheckIn: date(t, "2024-04-01"), CheckOut: date(t, "2024-04-05")}, room.Bookings[0])
}
