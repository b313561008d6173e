package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

const hotelSelect = `
	SELECT h.id, h.name, h.address, h.city, h.country, h.description, h.image_url,
	       h.rating, h.manager_id, h.created_at, h.updated_at,
	       u.email AS manager_email, u.first_name AS manager_first_name,
	       u.last_name AS manager_last_name
	FROM hotels h
	LEFT JOIN users u ON u.id = h.manager_id
`

// hotelRow carries the joined manager columns alongside the hotel
type hotelRow struct {
	models.Hotel
	ManagerEmail     models.NullString `db:"manager_email"`
	ManagerFirstName models.NullString `db:"manager_first_name"`
	ManagerLastName  models.NullString `db:"manager_last_name"`
}

func (row *hotelRow) toHotel() *models.Hotel {
	hotel := row.Hotel
	if hotel.ManagerID.Valid {
		hotel.Manager = &models.UserSummary{
			ID:        hotel.ManagerID.UUID,
			Email:     row.ManagerEmail.String,
			FirstName: row.ManagerFirstName.String,
			LastName:  row.ManagerLastName.String,
		}
	}
	return &hotel
}

// HotelRepository handles hotel database operations
type HotelRepository struct {
	db DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create inserts a new hotel
func (r *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	if hotel.ID == uuid.Nil {
		hotel.ID = uuid.New()
	}
	now := time.Now()
	hotel.CreatedAt = now
	hotel.UpdatedAt = now

	query := `
		INSERT INTO hotels (
			id, name, address, city, country, description, image_url, rating,
			manager_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Address,
		hotel.City,
		hotel.Country,
		hotel.Description,
		hotel.ImageURL,
		hotel.Rating,
		hotel.ManagerID,
		hotel.CreatedAt,
		hotel.UpdatedAt,
	)
	if err != nil {
		return classify("failed to create hotel", err)
	}
	return nil
}

// GetByID retrieves a hotel with its manager, returning nil when absent
func (r *HotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	return r.getOne(ctx, hotelSelect+` WHERE h.id = $1`, id)
}

// GetByManagerID retrieves the hotel run by managerID, returning nil when none
func (r *HotelRepository) GetByManagerID(ctx context.Context, managerID uuid.UUID) (*models.Hotel, error) {
	return r.getOne(ctx, hotelSelect+` WHERE h.manager_id = $1`, managerID)
}

func (r *HotelRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Hotel, error) {
	var row hotelRow
	err := r.db.GetContext(ctx, &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return row.toHotel(), nil
}

// List returns hotels ordered by name
func (r *HotelRepository) List(ctx context.Context, filter models.HotelFilter) ([]models.Hotel, error) {
	var conditions []string
	var args []interface{}

	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("LOWER(h.city) = LOWER($%d)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("h.name ILIKE $%d", len(args)))
	}

	query := hotelSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY h.name"

	var rows []hotelRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	hotels := make([]models.Hotel, 0, len(rows))
	for i := range rows {
		hotels = append(hotels, *rows[i].toHotel())
	}
	return hotels, nil
}

// Update saves the editable hotel fields. The manager is changed through
// AssignManager only.
func (r *HotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	hotel.UpdatedAt = time.Now()

	query := `
		UPDATE hotels
		SET name = $2, address = $3, city = $4, country = $5, description = $6,
		    image_url = $7, rating = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		hotel.ID,
		hotel.Name,
		hotel.Address,
		hotel.City,
		hotel.Country,
		hotel.Description,
		hotel.ImageURL,
		hotel.Rating,
		hotel.UpdatedAt,
	)
	if err != nil {
		return classify("failed to update hotel", err)
	}
	return expectOneRow(result, "hotel")
}

// AssignManager sets or clears (invalid managerID) the hotel's manager.
// hotels.manager_id is UNIQUE, so a manager already running another hotel
// surfaces as ErrDuplicate.
func (r *HotelRepository) AssignManager(ctx context.Context, hotelID uuid.UUID, managerID uuid.NullUUID) error {
	query := `UPDATE hotels SET manager_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, hotelID, managerID)
	if err != nil {
		return classify("failed to assign hotel manager", err)
	}
	return expectOneRow(result, "hotel")
}

// Delete removes a hotel together with its rooms and their reservations
func (r *HotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return classify("failed to delete hotel", err)
	}
	return expectOneRow(result, "hotel")
}

// HasUnexpiredConfirmed reports whether any room of the hotel has a
// CONFIRMED reservation that has not checked out by today
func (r *HotelRepository) HasUnexpiredConfirmed(ctx context.Context, hotelID uuid.UUID, today time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations res
			JOIN rooms rm ON rm.id = res.room_id
			WHERE rm.hotel_id = $1 AND res.status = 'CONFIRMED' AND res.check_out > $2::date
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, hotelID, models.FormatDate(today)); err != nil {
		return false, fmt.Errorf("failed to check hotel reservations: %w", err)
	}
	return exists, nil
}
