package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// HotelHandler handles the public catalogue, hotel administration and the
// manager's own hotel
type HotelHandler struct {
	hotels *services.HotelService
	audit  auditor
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotels *services.HotelService, auditService *services.AuditService, logger *logrus.Logger) *HotelHandler {
	return &HotelHandler{
		hotels: hotels,
		audit:  auditor{service: auditService, logger: logger},
	}
}

// ListHotels handles GET /api/v1/hotels
// Query: city, search
func (h *HotelHandler) ListHotels(c *gin.Context) {
	hotels, err := h.hotels.List(c.Request.Context(), models.HotelFilter{
		City:   c.Query("city"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hotels": hotels,
		"total":  len(hotels),
	})
}

// GetHotel handles GET /api/v1/hotels/:id
func (h *HotelHandler) GetHotel(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	hotel, err := h.hotels.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// GetHotelRooms handles GET /api/v1/hotels/:id/rooms
func (h *HotelHandler) GetHotelRooms(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	rooms, err := h.hotels.Rooms(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// CreateHotel handles POST /api/v1/admin/hotels
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hotel, err := h.hotels.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	if hotel.ManagerID.Valid {
		h.audit.safeLog(c, &actor.UserID, services.AuditManagerChange, "hotel", &hotel.ID, map[string]interface{}{
			"manager_id": hotel.ManagerID.UUID,
		})
	}
	c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel handles PUT /api/v1/admin/hotels/:id
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hotel, err := h.hotels.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel handles DELETE /api/v1/admin/hotels/:id
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.hotels.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Hotel deleted"})
}

// AssignManager handles PUT /api/v1/admin/hotels/:id/manager
// A null manager_id removes the current manager.
func (h *HotelHandler) AssignManager(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hotel, err := h.hotels.AssignManager(c.Request.Context(), actor, id, req.ManagerID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.safeLog(c, &actor.UserID, services.AuditManagerChange, "hotel", &hotel.ID, map[string]interface{}{
		"manager_id": req.ManagerID,
	})
	c.JSON(http.StatusOK, hotel)
}

// GetMyHotel handles GET /api/v1/manager/hotel
func (h *HotelHandler) GetMyHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	hotel, err := h.hotels.MyHotel(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

// UpdateMyHotel handles PUT /api/v1/manager/hotel
func (h *HotelHandler) UpdateMyHotel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req models.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hotel, err := h.hotels.UpdateMyHotel(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}
