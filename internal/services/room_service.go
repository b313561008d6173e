package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// roomTxRunner runs room edits under the room's row lock
type roomTxRunner interface {
	InTx(ctx context.Context, fn func(tx database.ReservationTx) error) error
}

// RoomService manages rooms. Admins manage any hotel's rooms, managers
// only their own hotel's.
type RoomService struct {
	rooms  RoomStore
	txs    roomTxRunner
	gate   *Gate
	logger *logrus.Logger
	clock  Clock
}

// NewRoomService creates a new room service
func NewRoomService(rooms RoomStore, txs roomTxRunner, gate *Gate, logger *logrus.Logger) *RoomService {
	return &RoomService{
		rooms:  rooms,
		txs:    txs,
		gate:   gate,
		logger: logger,
		clock:  time.Now,
	}
}

// Get returns a room with its upcoming confirmed stays
func (s *RoomService) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFoundError("Room not found")
	}

	rooms := []models.Room{*room}
	if err := attachBookings(ctx, s.rooms, rooms, s.clock.today()); err != nil {
		return nil, err
	}
	return &rooms[0], nil
}

// Create adds a room. Managers always create in their own hotel; admins
// name the hotel in the request.
func (s *RoomService) Create(ctx context.Context, actor Actor, req models.RoomRequest) (*models.Room, error) {
	if err := s.gate.Check(ctx, actor, StaffRoles, nil); err != nil {
		return nil, err
	}

	var hotelID uuid.UUID
	switch {
	case actor.Role == models.RoleManager:
		hotel, err := s.gate.ManagedHotel(ctx, actor)
		if err != nil {
			return nil, err
		}
		if req.HotelID != nil && *req.HotelID != hotel.ID {
			return nil, AuthorizationError("You can only add rooms to your own hotel")
		}
		hotelID = hotel.ID
	case req.HotelID != nil:
		hotelID = *req.HotelID
	default:
		return nil, ValidationError("hotel_id is required")
	}

	room := &models.Room{HotelID: hotelID, Status: models.RoomStatusAvailable}
	if err := applyRoomRequest(room, req); err != nil {
		return nil, err
	}
	if room.Status == models.RoomStatusOccupied {
		return nil, ValidationError("A new room cannot start OCCUPIED")
	}

	existing, err := s.rooms.GetByNumber(ctx, hotelID, room.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ConflictError("Room %s already exists in this hotel", room.Number)
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		if errors.Is(err, database.ErrForeignKey) {
			return nil, NotFoundError("Hotel not found")
		}
		return nil, translateStoreError(err, "Room number already exists in this hotel")
	}

	s.logger.WithFields(logrus.Fields{
		"room_id":  room.ID,
		"hotel_id": hotelID,
		"actor_id": actor.UserID,
	}).Info("Room created")
	return room, nil
}

// Update edits a room. A room with active reservations cannot be put into
// MAINTENANCE, and leaving MAINTENANCE recomputes its status from its stays.
// OCCUPIED cannot be set by hand. The edit runs under the room's row lock so
// it never overwrites a status a concurrent confirmation just set.
func (s *RoomService) Update(ctx context.Context, actor Actor, id uuid.UUID, req models.RoomRequest) (*models.Room, error) {
	current, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.HotelID != nil && *req.HotelID != current.HotelID {
		return nil, ValidationError("A room cannot be moved to another hotel")
	}

	edited := *current
	if err := applyRoomRequest(&edited, req); err != nil {
		return nil, err
	}
	if edited.Number != current.Number {
		existing, err := s.rooms.GetByNumber(ctx, current.HotelID, edited.Number)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ConflictError("Room %s already exists in this hotel", edited.Number)
		}
	}

	var room *models.Room
	err = s.txs.InTx(ctx, func(tx database.ReservationTx) error {
		locked, err := tx.LockRoom(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return NotFoundError("Room not found")
		}

		previous := locked.Status
		if err := applyRoomRequest(locked, req); err != nil {
			return err
		}
		next, err := s.statusAfterEdit(ctx, tx, id, previous, req.Status)
		if err != nil {
			return err
		}

		if err := tx.UpdateRoom(ctx, locked); err != nil {
			return err
		}
		if next != previous {
			if err := tx.SetRoomStatus(ctx, id, next); err != nil {
				return err
			}
		}
		locked.Status = next
		room = locked
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, NotFoundError("Room not found")
		case errors.Is(err, database.ErrDuplicate):
			return nil, ConflictError("Room %s already exists in this hotel", edited.Number)
		}
		return nil, translateStoreError(err, "Room was modified concurrently, please retry")
	}

	s.logger.WithFields(logrus.Fields{
		"room_id":  id,
		"status":   room.Status,
		"actor_id": actor.UserID,
	}).Info("Room updated")
	return room, nil
}

// statusAfterEdit returns the status a room edit leaves behind. Only entering
// or leaving MAINTENANCE changes it; otherwise the confirmed stays own it.
// Caller holds the room lock.
func (s *RoomService) statusAfterEdit(ctx context.Context, tx database.ReservationTx, roomID uuid.UUID, current, requested models.RoomStatus) (models.RoomStatus, error) {
	switch {
	case requested == "" || requested == current:
		return current, nil
	case requested == models.RoomStatusOccupied:
		return "", ValidationError("OCCUPIED is set by confirmed reservations")
	case requested == models.RoomStatusMaintenance:
		active, err := tx.CountActive(ctx, roomID, s.clock.today())
		if err != nil {
			return "", err
		}
		if active > 0 {
			return "", ConflictError("Room has %d active reservation(s) and cannot be put into maintenance", active)
		}
		return models.RoomStatusMaintenance, nil
	case current == models.RoomStatusMaintenance:
		covered, err := tx.ConfirmedCovering(ctx, roomID, s.clock.today())
		if err != nil {
			return "", err
		}
		return models.DeriveRoomStatus(models.RoomStatusAvailable, covered), nil
	}
	// AVAILABLE on an OCCUPIED room: the stay wins
	return current, nil
}

// Delete removes a room that has never been booked. Rooms with reservation
// history are kept so the history survives.
func (s *RoomService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	err := s.txs.InTx(ctx, func(tx database.ReservationTx) error {
		room, err := tx.LockRoom(ctx, id)
		if err != nil {
			return err
		}
		if room == nil {
			return NotFoundError("Room not found")
		}

		active, err := tx.CountActive(ctx, id, s.clock.today())
		if err != nil {
			return err
		}
		if active > 0 {
			return ConflictError("Room has %d active reservation(s) and cannot be deleted", active)
		}
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return NotFoundError("Room not found")
		case errors.Is(err, database.ErrForeignKey):
			return ConflictError("Room has reservation history and cannot be deleted")
		}
		return translateStoreError(err, "Room was modified concurrently, please retry")
	}

	s.logger.WithFields(logrus.Fields{
		"room_id":  id,
		"actor_id": actor.UserID,
	}).Info("Room deleted")
	return nil
}

// authorize loads the room and checks the actor may administer it
func (s *RoomService) authorize(ctx context.Context, actor Actor, id uuid.UUID) (*models.Room, error) {
	if err := s.gate.Check(ctx, actor, StaffRoles, nil); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, NotFoundError("Room not found")
	}

	if err := s.gate.Check(ctx, actor, StaffRoles, s.gate.ManagesHotel(actor, room.HotelID)); err != nil {
		return nil, err
	}
	return room, nil
}

func applyRoomRequest(room *models.Room, req models.RoomRequest) error {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return ValidationError("Room number is required")
	}
	if req.Capacity < 1 {
		return ValidationError("Capacity must be at least 1")
	}
	if !req.Price.IsPositive() {
		return ValidationError("Price must be greater than zero")
	}
	if req.Status != "" && !req.Status.IsValid() {
		return ValidationError("Invalid room status %q", req.Status)
	}

	room.Number = number
	room.Type = strings.TrimSpace(req.Type)
	room.Capacity = req.Capacity
	room.Price = req.Price.Round(2)
	room.Description = models.NewNullString(req.Description)
	if req.Status != "" {
		room.Status = req.Status
	}
	return nil
}
