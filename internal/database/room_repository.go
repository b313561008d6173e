package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

const roomColumns = `id, hotel_id, number, type, capacity, price, description, status, created_at, updated_at`

// RoomRepository handles room database operations
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room. A duplicate number within the hotel returns ErrDuplicate.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `
		INSERT INTO rooms (
			id, hotel_id, number, type, capacity, price, description, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.HotelID,
		room.Number,
		room.Type,
		room.Capacity,
		room.Price,
		room.Description,
		room.Status,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		return classify("failed to create room", err)
	}
	return nil
}

// GetByID retrieves a room, returning nil when absent
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	err := r.db.GetContext(ctx, &room, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// GetByNumber retrieves a room by its number within a hotel, returning nil when absent
func (r *RoomRepository) GetByNumber(ctx context.Context, hotelID uuid.UUID, number string) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 AND number = $2`

	err := r.db.GetContext(ctx, &room, query, hotelID, number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by number: %w", err)
	}
	return &room, nil
}

// ListByHotel returns the hotel's rooms ordered by number
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error) {
	rooms := []models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = $1 ORDER BY number`

	if err := r.db.SelectContext(ctx, &rooms, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// UpcomingBookings returns the CONFIRMED stays that have not ended by today,
// keyed by room
func (r *RoomRepository) UpcomingBookings(ctx context.Context, roomIDs []uuid.UUID, today time.Time) (map[uuid.UUID][]models.DateRange, error) {
	result := make(map[uuid.UUID][]models.DateRange, len(roomIDs))
	if len(roomIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		ids[i] = id.String()
	}

	var rows []struct {
		RoomID uuid.UUID `db:"room_id"`
		models.DateRange
	}
	query := `
		SELECT room_id, check_in, check_out FROM reservations
		WHERE room_id = ANY($1::uuid[]) AND status = 'CONFIRMED' AND check_out > $2::date
		ORDER BY check_in
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids), models.FormatDate(today)); err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}

	for _, row := range rows {
		result[row.RoomID] = append(result[row.RoomID], row.DateRange)
	}
	return result, nil
}
