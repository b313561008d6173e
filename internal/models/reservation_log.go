package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationLogAction identifies what happened to a reservation
type ReservationLogAction string

const (
	ReservationLogCreate       ReservationLogAction = "CREATE"
	ReservationLogStatusChange ReservationLogAction = "STATUS_CHANGE"
	ReservationLogDelete       ReservationLogAction = "DELETE"
)

// ReservationLog is one append-only entry in a reservation's history.
// ActorID is null for transitions made by background jobs.
type ReservationLog struct {
	ID            int64                 `json:"id" db:"id"`
	ReservationID uuid.UUID             `json:"reservation_id" db:"reservation_id"`
	Action        ReservationLogAction  `json:"action" db:"action"`
	OldStatus     NullReservationStatus `json:"old_status" db:"old_status"`
	NewStatus     NullReservationStatus `json:"new_status" db:"new_status"`
	ActorID       uuid.NullUUID         `json:"actor_id" db:"actor_id"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
}

// NullReservationStatus is a nullable status column
type NullReservationStatus struct {
	NullString
}

// StatusOf wraps s for a nullable status column
func StatusOf(s ReservationStatus) NullReservationStatus {
	return NullReservationStatus{NewNullString(string(s))}
}

// Status returns the wrapped status, or "" when null
func (n NullReservationStatus) Status() ReservationStatus {
	if !n.Valid {
		return ""
	}
	return ReservationStatus(n.String)
}
