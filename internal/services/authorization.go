package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   models.UserRole
}

// IsAdmin reports whether the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// OwnershipPredicate decides whether an actor owns the target of an operation
type OwnershipPredicate func(ctx context.Context) (bool, error)

// AllRoles admits every role, used with Check when only ownership matters
var AllRoles = []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleUser}

// StaffRoles are the roles that may administer rooms
var StaffRoles = []models.UserRole{models.RoleAdmin, models.RoleManager}

// managerLookup resolves the hotel a manager runs
type managerLookup interface {
	GetByManagerID(ctx context.Context, managerID uuid.UUID) (*models.Hotel, error)
}

// Gate centralizes role and ownership checks. Every mutating operation goes
// through Check before touching lifecycle logic.
type Gate struct {
	hotels managerLookup
}

// NewGate creates a new authorization gate
func NewGate(hotels managerLookup) *Gate {
	return &Gate{hotels: hotels}
}

// Check requires actor.Role to be one of roles and, unless the actor is an
// admin, owns to hold. A nil predicate means the role check alone decides.
func (g *Gate) Check(ctx context.Context, actor Actor, roles []models.UserRole, owns OwnershipPredicate) error {
	if !hasRole(roles, actor.Role) {
		return AuthorizationError("Insufficient permissions")
	}
	if actor.IsAdmin() || owns == nil {
		return nil
	}

	ok, err := owns(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return AuthorizationError("You do not have access to this resource")
	}
	return nil
}

// ManagedHotel returns the hotel the actor manages, or a NotFoundError when
// no hotel is assigned to them
func (g *Gate) ManagedHotel(ctx context.Context, actor Actor) (*models.Hotel, error) {
	if actor.Role != models.RoleManager {
		return nil, AuthorizationError("Only managers have an assigned hotel")
	}
	hotel, err := g.hotels.GetByManagerID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve managed hotel: %w", err)
	}
	if hotel == nil {
		return nil, NotFoundError("No hotel assigned to this manager")
	}
	return hotel, nil
}

// ManagesHotel holds when the actor is the assigned manager of hotelID
func (g *Gate) ManagesHotel(actor Actor, hotelID uuid.UUID) OwnershipPredicate {
	return func(ctx context.Context) (bool, error) {
		if actor.Role != models.RoleManager {
			return false, nil
		}
		hotel, err := g.hotels.GetByManagerID(ctx, actor.UserID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve managed hotel: %w", err)
		}
		return hotel != nil && hotel.ID == hotelID, nil
	}
}

// OwnsReservation holds when the actor booked the reservation
func OwnsReservation(actor Actor, reservation *models.Reservation) OwnershipPredicate {
	return func(ctx context.Context) (bool, error) {
		return reservation.UserID == actor.UserID, nil
	}
}

// CanAccessReservation is the reservation visibility rule: managers reach
// reservations in their hotel and users reach their own
func (g *Gate) CanAccessReservation(actor Actor, reservation *models.Reservation) OwnershipPredicate {
	switch actor.Role {
	case models.RoleManager:
		return g.ManagesHotel(actor, reservation.HotelID)
	case models.RoleUser:
		return OwnsReservation(actor, reservation)
	}
	return func(ctx context.Context) (bool, error) { return false, nil }
}

func hasRole(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
