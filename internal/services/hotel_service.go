package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

var maxRating = decimal.NewFromInt(5)

// HotelService manages the hotel catalogue and manager assignment
type HotelService struct {
	hotels HotelStore
	rooms  RoomStore
	users  UserStore
	gate   *Gate
	logger *logrus.Logger
	clock  Clock
}

// NewHotelService creates a new hotel service
func NewHotelService(hotels HotelStore, rooms RoomStore, users UserStore, gate *Gate, logger *logrus.Logger) *HotelService {
	return &HotelService{
		hotels: hotels,
		rooms:  rooms,
		users:  users,
		gate:   gate,
		logger: logger,
		clock:  time.Now,
	}
}

// List returns the public hotel catalogue
func (s *HotelService) List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error) {
	filter.City = strings.TrimSpace(filter.City)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.hotels.List(ctx, filter)
}

// Get returns a hotel with its rooms and their upcoming confirmed stays
func (s *HotelService) Get(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, NotFoundError("Hotel not found")
	}

	rooms, err := s.Rooms(ctx, id)
	if err != nil {
		return nil, err
	}
	hotel.Rooms = rooms
	return hotel, nil
}

// Rooms lists a hotel's rooms with their upcoming confirmed stays
func (s *HotelService) Rooms(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error) {
	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if err := attachBookings(ctx, s.rooms, rooms, s.clock.today()); err != nil {
		return nil, err
	}
	return rooms, nil
}

// Create adds a hotel, optionally with a manager. Admin only.
func (s *HotelService) Create(ctx context.Context, actor Actor, req models.HotelRequest) (*models.Hotel, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}

	hotel := &models.Hotel{}
	if err := applyHotelRequest(hotel, req); err != nil {
		return nil, err
	}
	if req.ManagerID != nil {
		if err := s.checkAssignable(ctx, *req.ManagerID, uuid.Nil); err != nil {
			return nil, err
		}
		hotel.ManagerID = uuid.NullUUID{UUID: *req.ManagerID, Valid: true}
	}

	if err := s.hotels.Create(ctx, hotel); err != nil {
		return nil, translateStoreError(err, "Manager is already assigned to another hotel")
	}

	s.logger.WithFields(logrus.Fields{
		"hotel_id": hotel.ID,
		"actor_id": actor.UserID,
	}).Info("Hotel created")
	return s.Get(ctx, hotel.ID)
}

// Update edits a hotel's details. Admin only; the manager is changed with
// AssignManager.
func (s *HotelService) Update(ctx context.Context, actor Actor, id uuid.UUID, req models.HotelRequest) (*models.Hotel, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}
	return s.update(ctx, id, req)
}

// Delete removes a hotel with its rooms. Rejected while any room still has
// a confirmed stay that has not checked out. Admin only.
func (s *HotelService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return err
	}

	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if hotel == nil {
		return NotFoundError("Hotel not found")
	}

	busy, err := s.hotels.HasUnexpiredConfirmed(ctx, id, s.clock.today())
	if err != nil {
		return err
	}
	if busy {
		return ConflictError("Cannot delete a hotel with confirmed upcoming reservations")
	}

	if err := s.hotels.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return NotFoundError("Hotel not found")
		case errors.Is(err, database.ErrForeignKey):
			return ConflictError("Hotel has reservation history and cannot be deleted")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"hotel_id": id,
		"actor_id": actor.UserID,
	}).Info("Hotel deleted")
	return nil
}

// AssignManager sets or clears a hotel's manager. The user must have the
// MANAGER role and not run another hotel. Admin only.
func (s *HotelService) AssignManager(ctx context.Context, actor Actor, hotelID uuid.UUID, managerID *uuid.UUID) (*models.Hotel, error) {
	if err := s.gate.Check(ctx, actor, adminOnly, nil); err != nil {
		return nil, err
	}

	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, NotFoundError("Hotel not found")
	}

	next := uuid.NullUUID{}
	if managerID != nil {
		if err := s.checkAssignable(ctx, *managerID, hotelID); err != nil {
			return nil, err
		}
		next = uuid.NullUUID{UUID: *managerID, Valid: true}
	}

	if err := s.hotels.AssignManager(ctx, hotelID, next); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("Hotel not found")
		}
		return nil, translateStoreError(err, "Manager is already assigned to another hotel")
	}

	s.logger.WithFields(logrus.Fields{
		"hotel_id":   hotelID,
		"manager_id": next,
		"actor_id":   actor.UserID,
	}).Info("Hotel manager changed")
	return s.Get(ctx, hotelID)
}

// MyHotel returns the manager's hotel with its rooms
func (s *HotelService) MyHotel(ctx context.Context, actor Actor) (*models.Hotel, error) {
	hotel, err := s.gate.ManagedHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, hotel.ID)
}

// UpdateMyHotel lets a manager edit their own hotel's details
func (s *HotelService) UpdateMyHotel(ctx context.Context, actor Actor, req models.HotelRequest) (*models.Hotel, error) {
	hotel, err := s.gate.ManagedHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	req.ManagerID = nil
	return s.update(ctx, hotel.ID, req)
}

func (s *HotelService) update(ctx context.Context, id uuid.UUID, req models.HotelRequest) (*models.Hotel, error) {
	hotel, err := s.hotels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, NotFoundError("Hotel not found")
	}

	if err := applyHotelRequest(hotel, req); err != nil {
		return nil, err
	}
	if err := s.hotels.Update(ctx, hotel); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundError("Hotel not found")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// checkAssignable verifies userID may manage hotelID. exceptHotel is the
// hotel being assigned, which the user may already run.
func (s *HotelService) checkAssignable(ctx context.Context, userID, exceptHotel uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFoundError("Manager not found")
	}
	if user.Role != models.RoleManager {
		return ValidationError("User %s does not have the MANAGER role", user.Email)
	}

	current, err := s.hotels.GetByManagerID(ctx, userID)
	if err != nil {
		return err
	}
	if current != nil && current.ID != exceptHotel {
		return ConflictError("Manager is already assigned to %s", current.Name)
	}
	return nil
}

func applyHotelRequest(hotel *models.Hotel, req models.HotelRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ValidationError("Hotel name is required")
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(maxRating)) {
		return ValidationError("Rating must be between 0 and 5")
	}

	hotel.Name = name
	hotel.Address = strings.TrimSpace(req.Address)
	hotel.City = strings.TrimSpace(req.City)
	hotel.Country = strings.TrimSpace(req.Country)
	hotel.Description = models.NewNullString(req.Description)
	hotel.ImageURL = models.NewNullString(req.ImageURL)
	if req.Rating != nil {
		hotel.Rating = decimal.NullDecimal{Decimal: req.Rating.Round(1), Valid: true}
	}
	return nil
}

// attachBookings fills each room's upcoming confirmed stays
func attachBookings(ctx context.Context, store RoomStore, rooms []models.Room, today time.Time) error {
	if len(rooms) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(rooms))
	for i := range rooms {
		ids[i] = rooms[i].ID
	}

	bookings, err := store.UpcomingBookings(ctx, ids, today)
	if err != nil {
		return err
	}
	for i := range rooms {
		rooms[i].Bookings = bookings[rooms[i].ID]
	}
	return nil
}
