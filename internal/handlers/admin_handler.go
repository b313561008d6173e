package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// AdminHandler handles user administration and background job control
type AdminHandler struct {
	users *services.UserService
	jobs  *services.CronService
	audit auditor
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	users *services.UserService,
	jobs *services.CronService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		users: users,
		jobs:  jobs,
		audit: auditor{service: auditService, logger: logger},
	}
}

// ListUsers handles GET /api/v1/admin/users
// Query: role
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	users, err := h.users.ListUsers(c.Request.Context(), actor, models.UserRole(c.Query("role")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// CreateUser handles POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.safeLog(c, &actor.UserID, services.AuditUserCreated, "user", &user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}

	h.audit.safeLog(c, &actor.UserID, services.AuditUserDeleted, "user", &id, nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}

// RunReservationJob handles POST /api/v1/admin/jobs/reservations
// Completes expired stays immediately instead of waiting for the schedule.
func (h *AdminHandler) RunReservationJob(c *gin.Context) {
	if _, ok := currentActor(c); !ok {
		return
	}

	result := h.jobs.RunNow(c.Request.Context())
	if !result.Successful {
		_ = c.Error(errors.New(result.Error))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Reservation job failed, see server logs",
			Code:    "JOB_FAILED",
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetJobStatus handles GET /api/v1/admin/jobs
func (h *AdminHandler) GetJobStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobs.Status())
}
