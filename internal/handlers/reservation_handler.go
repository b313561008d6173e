package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// ReservationHandler handles reservation HTTP requests. Role scoping and
// ownership are decided by the service.
type ReservationHandler struct {
	reservations *services.ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservations *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// CreateReservation handles POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		respondError(c, services.ValidationError("roomId must be a valid UUID"))
		return
	}
	checkIn, err := models.ParseDate(req.CheckIn)
	if err != nil {
		respondError(c, services.ValidationError("checkIn: %v", err))
		return
	}
	checkOut, err := models.ParseDate(req.CheckOut)
	if err != nil {
		respondError(c, services.ValidationError("checkOut: %v", err))
		return
	}

	reservation, err := h.reservations.Create(c.Request.Context(), actor, services.CreateReservationInput{
		RoomID:          roomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestCount:      req.GuestCount,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// ListReservations handles GET /api/v1/reservations
// Query: status, startDate, endDate, hotelId
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	filter, err := reservationFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	reservations, err := h.reservations.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        len(reservations),
	})
}

func reservationFilterFromQuery(c *gin.Context) (models.ReservationFilter, error) {
	var filter models.ReservationFilter

	if raw := c.Query("status"); raw != "" {
		status := models.ReservationStatus(raw)
		if !status.IsValid() {
			return filter, services.ValidationError("Invalid status %q", raw)
		}
		filter.Status = status
	}

	dates := []struct {
		param string
		dest  **time.Time
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	}
	for _, d := range dates {
		raw := c.Query(d.param)
		if raw == "" {
			continue
		}
		parsed, err := models.ParseDate(raw)
		if err != nil {
			return filter, services.ValidationError("%s: %v", d.param, err)
		}
		*d.dest = &parsed
	}

	if raw := c.Query("hotelId"); raw != "" {
		hotelID, err := uuid.Parse(raw)
		if err != nil {
			return filter, services.ValidationError("hotelId must be a valid UUID")
		}
		filter.HotelID = &hotelID
	}

	return filter, nil
}

// GetReservation handles GET /api/v1/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservations.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// GetReservationLogs handles GET /api/v1/reservations/:id/logs
func (h *ReservationHandler) GetReservationLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.reservations.Logs(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}

// UpdateReservationStatus handles PATCH /api/v1/reservations/:id/status
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reservation, err := h.reservations.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservations.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// DeleteReservation handles DELETE /api/v1/reservations/:id
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Reservation deleted"})
}
