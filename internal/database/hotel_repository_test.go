package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hotelRowColumns = []string{
	"id", "name", "address", "city", "country", "description", "image_url", "rating", "manager_id",
	"created_at", "updated_at", "manager_email", "manager_first_name", "manager_last_name",
}

func TestHotelRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	hotelID := uuid.New()
	managerID := uuid.New()
	now := time.Now()

	t.Run("With Manager", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectQuery(`LEFT JOIN users u ON u.id = h.manager_id\s+WHERE h.id = \$1`).
			WithArgs(hotelID).
			WillReturnRows(sqlmock.NewRows(hotelRowColumns).AddRow(
				hotelID.String(), "Harbour View", "1 Quay St", "Porto", "Portugal", "Sea views", nil, "4.5",
				managerID.String(), now, now, "manager@example.com", "Grace", "Hopper"))

		hotel, err := repo.GetByID(ctx, hotelID)
		require.NoError(t, err)
		require.NotNil(t, hotel)
		assert.Equal(t, "Harbour View", hotel.Name)
		assert.Equal(t, "4.5", hotel.Rating.Decimal.String())
		assert.True(t, hotel.IsManagedBy(managerID))
		require.NotNil(t, hotel.Manager)
		assert.Equal(t, "manager@example.com", hotel.Manager.Email)
		assert.False(t, hotel.ImageURL.Valid)
	})

	t.Run("Without Manager", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectQuery(`WHERE h.id = \$1`).
			WithArgs(hotelID).
			WillReturnRows(sqlmock.NewRows(hotelRowColumns).AddRow(
				hotelID.String(), "Mountain Lodge", "2 Pass Rd", "Zermatt", "Switzerland", nil, nil, nil,
				nil, now, now, nil, nil, nil))

		hotel, err := repo.GetByID(ctx, hotelID)
		require.NoError(t, err)
		assert.Nil(t, hotel.Manager)
		assert.False(t, hotel.Rating.Valid)
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectQuery(`WHERE h.manager_id = \$1`).
			WithArgs(managerID).
			WillReturnRows(sqlmock.NewRows(hotelRowColumns))

		hotel, err := repo.GetByManagerID(ctx, managerID)
		assert.NoError(t, err)
		assert.Nil(t, hotel)
	})
}

func TestHotelRepositoryList(t *testing.T) {
	ctx := context.Background()

	t.Run("No Filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectQuery(`LEFT JOIN users u ON u.id = h.manager_id\s+ORDER BY h.name`).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(hotelRowColumns))

		hotels, err := repo.List(ctx, models.HotelFilter{})
		require.NoError(t, err)
		assert.NotNil(t, hotels)
		assert.Empty(t, hotels)
	})

	t.Run("City And Search", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)
		now := time.Now()

		mock.ExpectQuery(`WHERE LOWER\(h.city\) = LOWER\(\$1\) AND h.name ILIKE \$2 ORDER BY h.name`).
			WithArgs("Porto", "%harbour%").
			WillReturnRows(sqlmock.NewRows(hotelRowColumns).AddRow(
				uuid.New().String(), "Harbour View", "1 Quay St", "Porto", "Portugal", nil, nil, nil,
				nil, now, now, nil, nil, nil))

		hotels, err := repo.List(ctx, models.HotelFilter{City: "Porto", Search: "harbour"})
		require.NoError(t, err)
		require.Len(t, hotels, 1)
		assert.Equal(t, "Porto", hotels[0].City)
	})
}

func TestHotelRepositoryAssignManager(t *testing.T) {
	ctx := context.Background()
	hotelID := uuid.New()
	managerID := uuid.New()

	t.Run("Assign", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectExec(`UPDATE hotels SET manager_id = \$2`).
			WithArgs(hotelID, managerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AssignManager(ctx, hotelID, uuid.NullUUID{UUID: managerID, Valid: true})
		assert.NoError(t, err)
	})

	t.Run("Clear", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectExec(`UPDATE hotels SET manager_id = \$2`).
			WithArgs(hotelID, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AssignManager(ctx, hotelID, uuid.NullUUID{}))
	})

	t.Run("Manager Runs Another Hotel", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectExec(`UPDATE hotels SET manager_id = \$2`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "hotels_manager_id_key"})

		err := repo.AssignManager(ctx, hotelID, uuid.NullUUID{UUID: managerID, Valid: true})
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestHotelRepositoryWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		hotel := &models.Hotel{Name: "Harbour View", Address: "1 Quay St", City: "Porto", Country: "Portugal"}
		mock.ExpectExec(`INSERT INTO hotels`).
			WithArgs(sqlmock.AnyArg(), "Harbour View", "1 Quay St", "Porto", "Portugal", nil, nil, nil, nil,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, hotel))
		assert.NotEqual(t, uuid.Nil, hotel.ID)
	})

	t.Run("Update Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectExec(`UPDATE hotels`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &models.Hotel{ID: uuid.New()})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)
		id := uuid.New()

		mock.ExpectExec(`DELETE FROM hotels WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, id))
	})
}

func TestHotelRepositoryHasUnexpiredConfirmed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHotelRepository(db)
	hotelID := uuid.New()
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`res.status = 'CONFIRMED' AND res.check_out > \$2::date`).
		WithArgs(hotelID, "2024-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasUnexpiredConfirmed(context.Background(), hotelID, today)
	require.NoError(t, err)
	assert.True(t, exists)
}
