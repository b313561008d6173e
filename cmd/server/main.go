package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/config"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/handlers"
	"github.com/staybook/hotel-reservation-backend/internal/middleware"
	"github.com/staybook/hotel-reservation-backend/internal/services"
	"github.com/staybook/hotel-reservation-backend/internal/utils"
	"github.com/staybook/hotel-reservation-backend/pkg/jwt"
	"github.com/staybook/hotel-reservation-backend/pkg/mailer"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Server)
	logger.Info("Starting StayBook Hotel Reservation Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := database.Migrate(migrateCtx, db)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatalf("Failed to register request validators: %v", err)
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	hotelRepository := database.NewHotelRepository(db)
	roomRepository := database.NewRoomRepository(db)
	reservationRepository := database.NewReservationRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	var sender mailer.Sender
	if cfg.SMTP.Enabled {
		logger.Infof("Email delivery via SMTP %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
		sender = mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Warn("SMTP disabled, notification emails are logged only")
		sender = mailer.NewLogSender(logger)
	}
	notifier := services.NewNotificationService(sender, logger)

	gate := services.NewGate(hotelRepository)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)
	userService := services.NewUserService(userRepository, hotelRepository, gate, jwtService, notifier, logger, cfg.Security.BcryptCost)
	hotelService := services.NewHotelService(hotelRepository, roomRepository, userRepository, gate, logger)
	reservationService := services.NewReservationService(reservationRepository, roomRepository, gate, notifier, logger)
	roomService := services.NewRoomService(roomRepository, reservationRepository, gate, logger)

	// Reservation housekeeping
	location, err := time.LoadLocation(cfg.Jobs.ReservationTimeZone)
	if err != nil {
		logger.Fatalf("Invalid JOBS_TIMEZONE %q: %v", cfg.Jobs.ReservationTimeZone, err)
	}
	cronService := services.NewCronService(reservationService, cfg.Jobs.ReservationSchedule, location, logger)
	if cfg.Jobs.Enabled {
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
		logger.Infof("Cron service started, reservation job runs on %q (%s)", cfg.Jobs.ReservationSchedule, location)
	} else {
		logger.Warn("Scheduled jobs disabled")
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	handlers.Routes{
		Auth:         handlers.NewAuthHandler(userService, auditService, logger),
		Hotels:       handlers.NewHotelHandler(hotelService, auditService, logger),
		Rooms:        handlers.NewRoomHandler(roomService, reservationService),
		Reservations: handlers.NewReservationHandler(reservationService),
		Admin:        handlers.NewAdminHandler(userService, cronService, auditService, logger),
		JWT:          jwtService,
		AuthLimiter:  middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
	}.Register(router.Group("/api/v1"))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": utils.GetUserAgent(c),
			"has_auth":   c.GetHeader("Authorization") != "",
		}

		// Add user context if available
		if userID, exists := c.Get("user_id"); exists {
			fields["user_id"] = userID
		}
		if role, exists := c.Get("role"); exists {
			fields["role"] = role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
