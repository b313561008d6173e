package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/utils"
)

// Audit actions
const (
	AuditRegister      = "register"
	AuditLogin         = "login"
	AuditLoginFailed   = "login_failed"
	AuditTokenRefresh  = "token_refresh"
	AuditUserCreated   = "user_created"
	AuditUserDeleted   = "user_deleted"
	AuditManagerChange = "hotel_manager_assigned"
)

// AuditService handles audit logging for security events
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service. When disabled every call is
// a no-op.
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     *uuid.UUID // nil for events before authentication
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{}
}

// LogRegister records a self-registration
func (s *AuditService) LogRegister(ctx context.Context, user *models.User, ipAddress, userAgent string) error {
	return s.Log(ctx, AuditEvent{
		UserID:     &user.ID,
		Action:     AuditRegister,
		EntityType: "user",
		EntityID:   &user.ID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"email":       user.Email,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogLogin records a successful or failed login attempt. userID is nil when
// the email matched no account.
func (s *AuditService) LogLogin(ctx context.Context, userID *uuid.UUID, email string, success bool, ipAddress, userAgent, reason string) error {
	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": utils.ParseUserAgent(userAgent),
	}
	action := AuditLogin
	if !success {
		action = AuditLoginFailed
		details["reason"] = reason
	}

	return s.Log(ctx, AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// Log writes one event to audit_logs
func (s *AuditService) Log(ctx context.Context, event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = s.db.ExecContext(ctx, query,
		nullableUUID(event.UserID),
		event.Action,
		models.NewNullString(event.EntityType),
		nullableUUID(event.EntityID),
		models.NewNullString(event.IPAddress),
		models.NewNullString(event.UserAgent),
		string(details),
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// RecentEvents returns the user's latest audit entries, newest first
func (s *AuditService) RecentEvents(ctx context.Context, userID uuid.UUID, limit int) ([]models.AuditLog, error) {
	events := []models.AuditLog{}
	query := `
		SELECT id, user_id, action, entity_type, entity_id, ip_address, user_agent, details::text AS details, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := s.db.SelectContext(ctx, &events, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	return events, nil
}

func nullableUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
