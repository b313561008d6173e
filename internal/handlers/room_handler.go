package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// RoomHandler handles room HTTP requests
type RoomHandler struct {
	rooms        *services.RoomService
	reservations *services.ReservationService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *services.RoomService, reservations *services.ReservationService) *RoomHandler {
	return &RoomHandler{
		rooms:        rooms,
		reservations: reservations,
	}
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// CheckAvailability handles GET /api/v1/rooms/:id/availability
// Query: checkIn, checkOut (YYYY-MM-DD), guestCount (optional)
func (h *RoomHandler) CheckAvailability(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rawIn, rawOut := c.Query("checkIn"), c.Query("checkOut")
	if rawIn == "" || rawOut == "" {
		respondError(c, services.ValidationError("checkIn and checkOut are required"))
		return
	}
	checkIn, err := models.ParseDate(rawIn)
	if err != nil {
		respondError(c, services.ValidationError("checkIn: %v", err))
		return
	}
	checkOut, err := models.ParseDate(rawOut)
	if err != nil {
		respondError(c, services.ValidationError("checkOut: %v", err))
		return
	}

	guestCount := 0
	if raw := c.Query("guestCount"); raw != "" {
		guestCount, err = strconv.Atoi(raw)
		if err != nil || guestCount < 1 {
			respondError(c, services.ValidationError("guestCount must be a positive integer"))
			return
		}
	}

	result, err := h.reservations.CheckAvailability(c.Request.Context(), id, checkIn, checkOut, guestCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := h.rooms.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	room, err := h.rooms.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.rooms.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Room deleted"})
}
