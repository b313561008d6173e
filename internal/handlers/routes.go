package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/staybook/hotel-reservation-backend/internal/middleware"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/pkg/jwt"
)

// Routes bundles the handlers mounted under /api/v1
type Routes struct {
	Auth         *AuthHandler
	Hotels       *HotelHandler
	Rooms        *RoomHandler
	Reservations *ReservationHandler
	Admin        *AdminHandler

	JWT         *jwt.Service
	AuthLimiter *middleware.IPRateLimiter // nil disables rate limiting on /auth
}

// Register mounts every route on v1
func (r Routes) Register(v1 *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(r.JWT)

	// Authentication routes
	auth := v1.Group("/auth")
	if r.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(r.AuthLimiter))
	}
	{
		auth.POST("/register", r.Auth.Register)
		auth.POST("/login", r.Auth.Login)
		auth.POST("/refresh", r.Auth.RefreshToken)

		protected := auth.Group("")
		protected.Use(authRequired)
		{
			protected.GET("/me", r.Auth.GetProfile)
			protected.PUT("/me", r.Auth.UpdateProfile)
		}
	}

	// Public catalogue
	hotels := v1.Group("/hotels")
	{
		hotels.GET("", r.Hotels.ListHotels)
		hotels.GET("/:id", r.Hotels.GetHotel)
		hotels.GET("/:id/rooms", r.Hotels.GetHotelRooms)
	}

	rooms := v1.Group("/rooms")
	{
		rooms.GET("/:id", r.Rooms.GetRoom)
		rooms.GET("/:id/availability", r.Rooms.CheckAvailability)

		staff := rooms.Group("")
		staff.Use(authRequired, middleware.RequireRole(models.RoleAdmin, models.RoleManager))
		{
			staff.POST("", r.Rooms.CreateRoom)
			staff.PUT("/:id", r.Rooms.UpdateRoom)
			staff.DELETE("/:id", r.Rooms.DeleteRoom)
		}
	}

	reservations := v1.Group("/reservations")
	reservations.Use(authRequired)
	{
		reservations.POST("", r.Reservations.CreateReservation)
		reservations.GET("", r.Reservations.ListReservations)
		reservations.GET("/:id", r.Reservations.GetReservation)
		reservations.GET("/:id/logs", r.Reservations.GetReservationLogs)
		reservations.PATCH("/:id/status", r.Reservations.UpdateReservationStatus)
		reservations.POST("/:id/cancel", r.Reservations.CancelReservation)
		reservations.DELETE("/:id", r.Reservations.DeleteReservation)
	}

	manager := v1.Group("/manager")
	manager.Use(authRequired, middleware.RequireRole(models.RoleManager))
	{
		manager.GET("/hotel", r.Hotels.GetMyHotel)
		manager.PUT("/hotel", r.Hotels.UpdateMyHotel)
	}

	admin := v1.Group("/admin")
	admin.Use(authRequired, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", r.Admin.ListUsers)
		admin.POST("/users", r.Admin.CreateUser)
		admin.PUT("/users/:id", r.Admin.UpdateUser)
		admin.DELETE("/users/:id", r.Admin.DeleteUser)

		admin.POST("/hotels", r.Hotels.CreateHotel)
		admin.PUT("/hotels/:id", r.Hotels.UpdateHotel)
		admin.DELETE("/hotels/:id", r.Hotels.DeleteHotel)
		admin.PUT("/hotels/:id/manager", r.Hotels.AssignManager)

		admin.GET("/jobs", r.Admin.GetJobStatus)
		admin.POST("/jobs/reservations", r.Admin.RunReservationJob)
	}
}
