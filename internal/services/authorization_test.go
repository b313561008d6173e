package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCheck(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	never := func(ctx context.Context) (bool, error) { return false, nil }
	always := func(ctx context.Context) (bool, error) { return true, nil }

	t.Run("role outside the list", func(t *testing.T) {
		err := fx.gate.Check(ctx, fx.guest, StaffRoles, nil)
		requireKind(t, err, KindAuthorization)
		assert.Equal(t, "Insufficient permissions", err.Error())
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		assert.NoError(t, fx.gate.Check(ctx, fx.admin, AllRoles, never))
	})

	t.Run("nil predicate passes on role alone", func(t *testing.T) {
		assert.NoError(t, fx.gate.Check(ctx, fx.guest, AllRoles, nil))
	})

	t.Run("predicate decides for non-admins", func(t *testing.T) {
		assert.NoError(t, fx.gate.Check(ctx, fx.manager, AllRoles, always))
		err := fx.gate.Check(ctx, fx.manager, AllRoles, never)
		requireKind(t, err, KindAuthorization)
	})

	t.Run("predicate error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		err := fx.gate.Check(ctx, fx.manager, AllRoles, func(ctx context.Context) (bool, error) { return false, boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := fx.gate.Check(ctx, Actor{UserID: uuid.New(), Role: "GUEST"}, AllRoles, nil)
		requireKind(t, err, KindAuthorization)
	})
}

func TestManagesHotel(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	ok, err := fx.gate.ManagesHotel(fx.manager, fx.hotel.ID)(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = fx.gate.ManagesHotel(fx.manager, fx.otherHotel.ID)(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = fx.gate.ManagesHotel(fx.guest, fx.hotel.ID)(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagedHotel(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)

	hotel, err := fx.gate.ManagedHotel(ctx, fx.manager)
	require.NoError(t, err)
	assert.Equal(t, fx.hotel.ID, hotel.ID)

	_, err = fx.gate.ManagedHotel(ctx, fx.guest)
	requireKind(t, err, KindAuthorization)

	spare := fx.addUser(t, "spare@staybook.test", models.RoleManager)
	_, err = fx.gate.ManagedHotel(ctx, spare)
	requireKind(t, err, KindNotFound)
	assert.Equal(t, "No hotel assigned to this manager", err.Error())
}

func TestCanAccessReservation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t)
	reservation := &models.Reservation{ID: uuid.New(), UserID: fx.guest.UserID, HotelID: fx.hotel.ID}

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"owner", fx.guest, true},
		{"other guest", fx.otherGuest, false},
		{"hotel manager", fx.manager, true},
		{"foreign manager", fx.otherManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := fx.gate.CanAccessReservation(tt.actor, reservation)(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	assert.NoError(t, fx.gate.Check(ctx, fx.admin, AllRoles, fx.gate.CanAccessReservation(fx.admin, reservation)))
}

func TestDomainErrorMatching(t *testing.T) {
	err := ConflictError("Room %s is taken", "101")
	assert.Equal(t, "Room 101 is taken", err.Error())
	assert.True(t, errors.Is(err, &DomainError{Kind: KindConflict}))
	assert.False(t, errors.Is(err, &DomainError{Kind: KindNotFound}))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}
