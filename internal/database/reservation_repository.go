package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/staybook/hotel-reservation-backend/internal/models"
)

const reservationSelect = `
	SELECT r.id, r.user_id, r.room_id, r.check_in, r.check_out, r.guest_count,
	       r.total_price, r.status, r.special_requests, r.created_at, r.updated_at,
	       rm.hotel_id, h.name AS hotel_name, rm.number AS room_number,
	       u.email AS guest_email, (u.first_name || ' ' || u.last_name) AS guest_name
	FROM reservations r
	JOIN rooms rm ON rm.id = r.room_id
	JOIN hotels h ON h.id = rm.hotel_id
	JOIN users u ON u.id = r.user_id
`

const reservationLogColumns = `id, reservation_id, action, old_status, new_status, actor_id, created_at`

// ReservationTx is the set of reads and writes that must happen atomically
// when a reservation is booked or changes status, or when a room is edited
// under its row lock
type ReservationTx interface {
	// LockRoom reads the room and holds a row lock on it until commit.
	// Returns nil when the room does not exist.
	LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error)
	Insert(ctx context.Context, reservation *models.Reservation) error
	// GetForUpdate reads the reservation and locks its row. Returns nil when absent.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	AppendLog(ctx context.Context, entry *models.ReservationLog) error
	ConfirmedCovering(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error)
	SetRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error
	// CountActive counts the PENDING and CONFIRMED reservations on the room
	// that have not checked out by today
	CountActive(ctx context.Context, roomID uuid.UUID, today time.Time) (int, error)
	// UpdateRoom saves the editable room fields. Status is written only
	// through SetRoomStatus.
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
}

// ReservationRepository handles reservation and reservation log operations
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// InTx runs fn inside a SERIALIZABLE transaction. The transaction commits
// when fn returns nil and rolls back otherwise. Driver errors are classified
// so exclusion and serialization failures come back as ErrOverlap and
// ErrSerialization.
func (r *ReservationRepository) InTx(ctx context.Context, fn func(tx ReservationTx) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&reservationTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("failed to commit transaction", err)
	}
	return nil
}

// GetByID retrieves a reservation with its joined room and hotel fields,
// returning nil when absent
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.GetContext(ctx, &reservation, reservationSelect+` WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

// List returns reservations matching filter, newest check-in first
func (r *ReservationRepository) List(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, models.FormatDate(*filter.StartDate))
		conditions = append(conditions, fmt.Sprintf("r.check_out > $%d::date", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, models.FormatDate(*filter.EndDate))
		conditions = append(conditions, fmt.Sprintf("r.check_in < $%d::date", len(args)))
	}
	if filter.HotelID != nil {
		args = append(args, *filter.HotelID)
		conditions = append(conditions, fmt.Sprintf("rm.hotel_id = $%d", len(args)))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("r.user_id = $%d", len(args)))
	}

	query := reservationSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.check_in DESC, r.created_at DESC"

	reservations := []models.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ActiveForRoom returns the PENDING and CONFIRMED reservations of a room
func (r *ReservationRepository) ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	return activeForRoom(ctx, r.db, roomID)
}

// ListLogs returns a reservation's history, oldest first
func (r *ReservationRepository) ListLogs(ctx context.Context, reservationID uuid.UUID) ([]models.ReservationLog, error) {
	logs := []models.ReservationLog{}
	query := `SELECT ` + reservationLogColumns + ` FROM reservation_logs
		WHERE reservation_id = $1 ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &logs, query, reservationID); err != nil {
		return nil, fmt.Errorf("failed to list reservation logs: %w", err)
	}
	return logs, nil
}

// ListExpiredConfirmed returns the IDs of CONFIRMED reservations that have
// checked out on or before today
func (r *ReservationRepository) ListExpiredConfirmed(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := `SELECT id FROM reservations WHERE status = 'CONFIRMED' AND check_out <= $1::date ORDER BY check_out`

	if err := r.db.SelectContext(ctx, &ids, query, models.FormatDate(today)); err != nil {
		return nil, fmt.Errorf("failed to list expired reservations: %w", err)
	}
	return ids, nil
}

// RoomIDs returns every room ID, used by the nightly status resync
func (r *ReservationRepository) RoomIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM rooms ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list room ids: %w", err)
	}
	return ids, nil
}

// queryer is satisfied by both the pool and a transaction
type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func activeForRoom(ctx context.Context, q queryer, roomID uuid.UUID) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	query := reservationSelect + ` WHERE r.room_id = $1 AND r.status IN ('PENDING', 'CONFIRMED') ORDER BY r.check_in`

	if err := q.SelectContext(ctx, &reservations, query, roomID); err != nil {
		return nil, classify("failed to list active reservations", err)
	}
	return reservations, nil
}

// reservationTx implements ReservationTx on a sqlx transaction
type reservationTx struct {
	tx *sqlx.Tx
}

func (t *reservationTx) LockRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`

	err := t.tx.GetContext(ctx, &room, query, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("failed to lock room", err)
	}
	return &room, nil
}

func (t *reservationTx) ActiveForRoom(ctx context.Context, roomID uuid.UUID) ([]models.Reservation, error) {
	return activeForRoom(ctx, t.tx, roomID)
}

func (t *reservationTx) Insert(ctx context.Context, reservation *models.Reservation) error {
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	now := time.Now()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	query := `
		INSERT INTO reservations (
			id, user_id, room_id, check_in, check_out, guest_count, total_price,
			status, special_requests, created_at, updated_at
		) VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, $10, $11)
	`

	_, err := t.tx.ExecContext(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.RoomID,
		models.FormatDate(reservation.CheckIn),
		models.FormatDate(reservation.CheckOut),
		reservation.GuestCount,
		reservation.TotalPrice,
		reservation.Status,
		reservation.SpecialRequests,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return classify("failed to create reservation", err)
	}
	return nil
}

func (t *reservationTx) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := t.tx.GetContext(ctx, &reservation, reservationSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("failed to lock reservation", err)
	}
	return &reservation, nil
}

func (t *reservationTx) SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return classify("failed to update reservation status", err)
	}
	return expectOneRow(result, "reservation")
}

func (t *reservationTx) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return classify("failed to delete reservation", err)
	}
	return expectOneRow(result, "reservation")
}

func (t *reservationTx) AppendLog(ctx context.Context, entry *models.ReservationLog) error {
	query := `
		INSERT INTO reservation_logs (reservation_id, action, old_status, new_status, actor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := t.tx.QueryRowxContext(ctx, query,
		entry.ReservationID,
		entry.Action,
		entry.OldStatus,
		entry.NewStatus,
		entry.ActorID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return classify("failed to append reservation log", err)
	}
	return nil
}

func (t *reservationTx) ConfirmedCovering(ctx context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	var covered bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE room_id = $1 AND status = 'CONFIRMED'
			  AND check_in <= $2::date AND check_out > $2::date
		)
	`
	if err := t.tx.GetContext(ctx, &covered, query, roomID, models.FormatDate(day)); err != nil {
		return false, classify("failed to check room occupancy", err)
	}
	return covered, nil
}

func (t *reservationTx) SetRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`, roomID, status)
	if err != nil {
		return classify("failed to update room status", err)
	}
	return expectOneRow(result, "room")
}

func (t *reservationTx) CountActive(ctx context.Context, roomID uuid.UUID, today time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM reservations
		WHERE room_id = $1 AND status IN ('PENDING', 'CONFIRMED') AND check_out > $2::date
	`
	if err := t.tx.GetContext(ctx, &count, query, roomID, models.FormatDate(today)); err != nil {
		return 0, classify("failed to count active reservations", err)
	}
	return count, nil
}

func (t *reservationTx) UpdateRoom(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now()

	query := `
		UPDATE rooms
		SET number = $2, type = $3, capacity = $4, price = $5, description = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query,
		room.ID,
		room.Number,
		room.Type,
		room.Capacity,
		room.Price,
		room.Description,
		room.UpdatedAt,
	)
	if err != nil {
		return classify("failed to update room", err)
	}
	return expectOneRow(result, "room")
}

func (t *reservationTx) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	result, err := t.tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return classify("failed to delete room", err)
	}
	return expectOneRow(result, "room")
}
