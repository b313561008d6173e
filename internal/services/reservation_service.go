package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// CreateReservationInput holds the fields of a new booking
type CreateReservationInput struct {
	RoomID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	GuestCount      int
	SpecialRequests string
}

// ReservationService runs the reservation lifecycle: booking, status
// transitions, deletion and room status synchronization
type ReservationService struct {
	store    ReservationStore
	checker  *AvailabilityChecker
	gate     *Gate
	notifier Notifier
	logger   *logrus.Logger
	clock    Clock
}

// NewReservationService creates a new reservation service
func NewReservationService(
	store ReservationStore,
	rooms RoomStore,
	gate *Gate,
	notifier Notifier,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		store:    store,
		checker:  NewAvailabilityChecker(rooms, store),
		gate:     gate,
		notifier: notifier,
		logger:   logger,
		clock:    time.Now,
	}
}

// CheckAvailability answers the public availability query for a room
func (s *ReservationService) CheckAvailability(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, guestCount int) (*models.AvailabilityResult, error) {
	return s.checker.Check(ctx, roomID, checkIn, checkOut, guestCount)
}

// Create books a room for the actor. The availability check and the insert
// run in one serializable transaction holding the room's row lock; a
// constraint or serialization failure on commit is reported as a conflict.
func (s *ReservationService) Create(ctx context.Context, actor Actor, input CreateReservationInput) (*models.Reservation, error) {
	if err := s.gate.Check(ctx, actor, AllRoles, nil); err != nil {
		return nil, err
	}

	checkIn, checkOut, err := ValidateStay(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}
	if input.GuestCount < 1 {
		return nil, ValidationError("Guest count must be at least 1")
	}

	reservation := &models.Reservation{
		UserID:          actor.UserID,
		RoomID:          input.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestCount:      input.GuestCount,
		Status:          models.ReservationStatusPending,
		SpecialRequests: models.NewNullString(input.SpecialRequests),
	}

	err = s.store.InTx(ctx, func(tx database.ReservationTx) error {
		room, err := tx.LockRoom(ctx, input.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return NotFoundError("Room not found")
		}
		if room.Status == models.RoomStatusMaintenance {
			return ValidationError("Room is under maintenance and cannot be booked")
		}
		if err := ValidateGuests(room, input.GuestCount); err != nil {
			return err
		}

		result, err := evaluate(ctx, room, tx, checkIn, checkOut)
		if err != nil {
			return err
		}
		if !result.IsAvailable {
			return ConflictError("Room is not available for the selected dates: %s", strings.ToLower(result.Message))
		}
		reservation.TotalPrice = result.TotalPrice

		if err := tx.Insert(ctx, reservation); err != nil {
			return err
		}
		return tx.AppendLog(ctx, &models.ReservationLog{
			ReservationID: reservation.ID,
			Action:        models.ReservationLogCreate,
			NewStatus:     models.StatusOf(reservation.Status),
			ActorID:       uuid.NullUUID{UUID: actor.UserID, Valid: true},
		})
	})
	if err != nil {
		return nil, translateStoreError(err, "Room is no longer available for the selected dates")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"room_id":        reservation.RoomID,
		"user_id":        actor.UserID,
		"check_in":       models.FormatDate(checkIn),
		"check_out":      models.FormatDate(checkOut),
	}).Info("Reservation created")

	created := s.reload(ctx, reservation)
	s.notifier.ReservationCreated(ctx, created)
	return created, nil
}

// UpdateStatus moves a reservation to status. Admins may move any
// reservation, managers those in their hotel, and guests may only cancel
// their own pending reservations. The status write, the log entry and the
// room status resync commit together.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status models.ReservationStatus) (*models.Reservation, error) {
	if !status.IsValid() {
		return nil, ValidationError("Invalid reservation status %q", status)
	}

	var updated *models.Reservation
	err := s.store.InTx(ctx, func(tx database.ReservationTx) error {
		reservation, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if reservation == nil {
			return NotFoundError("Reservation not found")
		}

		if err := s.gate.Check(ctx, actor, AllRoles, s.gate.CanAccessReservation(actor, reservation)); err != nil {
			return err
		}
		if !reservation.Status.CanTransitionTo(status) {
			return ConflictError("Cannot change reservation status from %s to %s", reservation.Status, status)
		}
		if actor.Role == models.RoleUser &&
			!(reservation.Status == models.ReservationStatusPending && status == models.ReservationStatusCancelled) {
			return AuthorizationError("Guests may only cancel pending reservations")
		}

		if err := s.transition(ctx, tx, reservation, status, uuid.NullUUID{UUID: actor.UserID, Valid: true}); err != nil {
			return err
		}
		updated = reservation
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, "Reservation was modified concurrently, please retry")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"actor_id":       actor.UserID,
		"actor_role":     actor.Role,
		"status":         status,
	}).Info("Reservation status updated")

	if status == models.ReservationStatusCancelled {
		s.notifier.ReservationCancelled(ctx, updated)
	}
	return updated, nil
}

// Cancel is UpdateStatus to CANCELLED
func (s *ReservationService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*models.Reservation, error) {
	return s.UpdateStatus(ctx, actor, id, models.ReservationStatusCancelled)
}

// transition writes the new status, appends the log entry and resyncs the
// room. It must run inside tx.
func (s *ReservationService) transition(ctx context.Context, tx database.ReservationTx, reservation *models.Reservation, status models.ReservationStatus, actorID uuid.NullUUID) error {
	old := reservation.Status
	if err := tx.SetStatus(ctx, reservation.ID, status); err != nil {
		return err
	}
	if err := tx.AppendLog(ctx, &models.ReservationLog{
		ReservationID: reservation.ID,
		Action:        models.ReservationLogStatusChange,
		OldStatus:     models.StatusOf(old),
		NewStatus:     models.StatusOf(status),
		ActorID:       actorID,
	}); err != nil {
		return err
	}
	if _, err := syncRoomStatus(ctx, tx, reservation.RoomID, s.clock.today()); err != nil {
		return err
	}

	reservation.Status = status
	reservation.UpdatedAt = s.clock()
	return nil
}

// List returns the reservations visible to the actor: all for admins, the
// managed hotel's for managers and their own for guests
func (s *ReservationService) List(ctx context.Context, actor Actor, filter models.ReservationFilter) ([]models.Reservation, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ValidationError("Invalid reservation status %q", filter.Status)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, ValidationError("endDate must not be before startDate")
	}

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleManager:
		hotel, err := s.gate.ManagedHotel(ctx, actor)
		if err != nil {
			return nil, err
		}
		if filter.HotelID != nil && *filter.HotelID != hotel.ID {
			return nil, AuthorizationError("You can only view reservations of your own hotel")
		}
		filter.HotelID = &hotel.ID
	case models.RoleUser:
		filter.UserID = &actor.UserID
	default:
		return nil, AuthorizationError("Insufficient permissions")
	}

	return s.store.List(ctx, filter)
}

// Get returns one reservation if the actor may see it
func (s *ReservationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, NotFoundError("Reservation not found")
	}
	if err := s.gate.Check(ctx, actor, AllRoles, s.gate.CanAccessReservation(actor, reservation)); err != nil {
		return nil, err
	}
	return reservation, nil
}

// Logs returns a reservation's history. Admins can read the history of a
// deleted reservation; everyone else needs access to the live reservation.
func (s *ReservationService) Logs(ctx context.Context, actor Actor, id uuid.UUID) ([]models.ReservationLog, error) {
	reservation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reservation == nil {
		if !actor.IsAdmin() {
			return nil, NotFoundError("Reservation not found")
		}
		logs, err := s.store.ListLogs(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(logs) == 0 {
			return nil, NotFoundError("Reservation not found")
		}
		return logs, nil
	}

	if err := s.gate.Check(ctx, actor, AllRoles, s.gate.CanAccessReservation(actor, reservation)); err != nil {
		return nil, err
	}
	return s.store.ListLogs(ctx, id)
}

// Delete removes a PENDING or CANCELLED reservation. CONFIRMED and COMPLETED
// reservations are kept for their history.
func (s *ReservationService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx database.ReservationTx) error {
		reservation, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if reservation == nil {
			return NotFoundError("Reservation not found")
		}
		if err := s.gate.Check(ctx, actor, AllRoles, s.gate.CanAccessReservation(actor, reservation)); err != nil {
			return err
		}
		if reservation.Status != models.ReservationStatusPending && reservation.Status != models.ReservationStatusCancelled {
			return ConflictError("Only pending or cancelled reservations can be deleted, this one is %s", reservation.Status)
		}

		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		return tx.AppendLog(ctx, &models.ReservationLog{
			ReservationID: id,
			Action:        models.ReservationLogDelete,
			OldStatus:     models.StatusOf(reservation.Status),
			ActorID:       uuid.NullUUID{UUID: actor.UserID, Valid: true},
		})
	})
	if err != nil {
		return translateStoreError(err, "Reservation was modified concurrently, please retry")
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"actor_id":       actor.UserID,
	}).Info("Reservation deleted")
	return nil
}

// SyncRoomStatus recomputes one room's status from its confirmed stays
func (s *ReservationService) SyncRoomStatus(ctx context.Context, roomID uuid.UUID) (models.RoomStatus, error) {
	var status models.RoomStatus
	err := s.store.InTx(ctx, func(tx database.ReservationTx) error {
		var err error
		status, err = syncRoomStatus(ctx, tx, roomID, s.clock.today())
		return err
	})
	if err != nil {
		return "", translateStoreError(err, "Room was modified concurrently, please retry")
	}
	return status, nil
}

// CompleteExpired marks CONFIRMED reservations that have checked out as
// COMPLETED and then resyncs every room. Returns how many reservations
// were completed. Failures on single items are logged and skipped.
func (s *ReservationService) CompleteExpired(ctx context.Context) (int, error) {
	today := s.clock.today()

	ids, err := s.store.ListExpiredConfirmed(ctx, today)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range ids {
		done := false
		err := s.store.InTx(ctx, func(tx database.ReservationTx) error {
			reservation, err := tx.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			// Re-checked under lock; it may have changed since the scan
			if reservation == nil || reservation.Status != models.ReservationStatusConfirmed ||
				reservation.CheckOut.After(today) {
				return nil
			}
			if err := s.transition(ctx, tx, reservation, models.ReservationStatusCompleted, uuid.NullUUID{}); err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			s.logger.WithError(err).WithField("reservation_id", id).Error("Failed to complete reservation")
			continue
		}
		if done {
			completed++
		}
	}

	roomIDs, err := s.store.RoomIDs(ctx)
	if err != nil {
		return completed, err
	}
	for _, roomID := range roomIDs {
		if _, err := s.SyncRoomStatus(ctx, roomID); err != nil {
			s.logger.WithError(err).WithField("room_id", roomID).Error("Failed to sync room status")
		}
	}

	return completed, nil
}

// reload fetches the reservation with its joined fields, falling back to
// the in-memory copy if the read fails
func (s *ReservationService) reload(ctx context.Context, reservation *models.Reservation) *models.Reservation {
	full, err := s.store.GetByID(ctx, reservation.ID)
	if err != nil || full == nil {
		s.logger.WithError(err).WithField("reservation_id", reservation.ID).Warn("Failed to reload reservation")
		return reservation
	}
	return full
}

// syncRoomStatus is the only place reservations change a room's status.
// MAINTENANCE is left alone; otherwise the room is OCCUPIED iff a CONFIRMED
// stay covers day.
func syncRoomStatus(ctx context.Context, tx database.ReservationTx, roomID uuid.UUID, day time.Time) (models.RoomStatus, error) {
	room, err := tx.LockRoom(ctx, roomID)
	if err != nil {
		return "", err
	}
	if room == nil {
		return "", NotFoundError("Room not found")
	}

	covered, err := tx.ConfirmedCovering(ctx, roomID, day)
	if err != nil {
		return "", err
	}

	next := models.DeriveRoomStatus(room.Status, covered)
	if next != room.Status {
		if err := tx.SetRoomStatus(ctx, roomID, next); err != nil {
			return "", fmt.Errorf("failed to sync room status: %w", err)
		}
	}
	return next, nil
}
