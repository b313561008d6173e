package models

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// NewNullString returns a valid NullString for non-blank input
func NewNullString(s string) NullString {
	s = strings.TrimSpace(s)
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// UserRole is the coarse-grained role carried in the access token
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleUser    UserRole = "USER"
)

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose in JSON
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Phone        NullString `json:"phone,omitempty" db:"phone"`
	Role         UserRole   `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Populated for managers on /auth/me and admin listings
	ManagedHotel *HotelSummary `json:"managed_hotel,omitempty" db:"-"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary is the public projection of a user embedded in other payloads
type UserSummary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
}

// AuditLog represents a security audit log entry
type AuditLog struct {
	ID         int64         `json:"id" db:"id"`
	UserID     uuid.NullUUID `json:"user_id,omitempty" db:"user_id"`
	Action     string        `json:"action" db:"action"`
	EntityType NullString    `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   uuid.NullUUID `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  NullString    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString    `json:"user_agent,omitempty" db:"user_agent"`
	Details    NullString    `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,trimmed_email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,phone"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,trimmed_email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the body of POST /auth/refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/me. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName        *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone           *string `json:"phone" binding:"omitempty,phone"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"omitempty,min=8,max=72"`
}

// CreateUserRequest is the body of POST /admin/users
type CreateUserRequest struct {
	Email     string   `json:"email" binding:"required,trimmed_email,max=255"`
	Password  string   `json:"password" binding:"required,min=8,max=72"`
	FirstName string   `json:"first_name" binding:"required,max=100"`
	LastName  string   `json:"last_name" binding:"required,max=100"`
	Phone     string   `json:"phone" binding:"omitempty,phone"`
	Role      UserRole `json:"role" binding:"required,user_role"`
}

// UpdateUserRequest is the body of PUT /admin/users/:id. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string   `json:"email" binding:"omitempty,trimmed_email,max=255"`
	Password  *string   `json:"password" binding:"omitempty,min=8,max=72"`
	FirstName *string   `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string   `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone     *string   `json:"phone" binding:"omitempty,phone"`
	Role      *UserRole `json:"role" binding:"omitempty,user_role"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	User         *User  `json:"user"`
}
