package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
	"github.com/staybook/hotel-reservation-backend/internal/utils"
)

// auditor records security events without failing the request
type auditor struct {
	service *services.AuditService
	logger  *logrus.Logger
}

// logAuditError logs audit service errors without failing the request
func (a auditor) logAuditError(operation string, err error) {
	if err != nil {
		a.logger.WithError(err).WithField("operation", operation).Error("Audit logging failed")
	}
}

func (a auditor) safeLogRegister(c *gin.Context, user *models.User) {
	err := a.service.LogRegister(c.Request.Context(), user, utils.GetRealIP(c), utils.GetUserAgent(c))
	a.logAuditError("LogRegister", err)
}

func (a auditor) safeLogLogin(c *gin.Context, userID *uuid.UUID, email string, success bool, reason string) {
	err := a.service.LogLogin(c.Request.Context(), userID, email, success, utils.GetRealIP(c), utils.GetUserAgent(c), reason)
	a.logAuditError("LogLogin", err)
}

// safeLog records an action taken by actor on an entity
func (a auditor) safeLog(c *gin.Context, actor *uuid.UUID, action, entityType string, entityID *uuid.UUID, details map[string]interface{}) {
	err := a.service.Log(c.Request.Context(), services.AuditEvent{
		UserID:     actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  utils.GetRealIP(c),
		UserAgent:  utils.GetUserAgent(c),
		Details:    details,
	})
	a.logAuditError(action, err)
}
