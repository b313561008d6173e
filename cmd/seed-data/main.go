package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staybook/hotel-reservation-backend/internal/config"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/internal/services"
	"github.com/staybook/hotel-reservation-backend/pkg/jwt"
	"github.com/staybook/hotel-reservation-backend/pkg/mailer"
)

type seedRoom struct {
	number   string
	kind     string
	capacity int
	price    string
}

type seedHotel struct {
	request models.HotelRequest
	managed bool
	rooms   []seedRoom
}

var seedHotels = []seedHotel{
	{
		request: models.HotelRequest{
			Name:        "Harbour View",
			Address:     "Rua do Cais 12",
			City:        "Porto",
			Country:     "Portugal",
			Description: "Riverside rooms a short walk from the old town",
		},
		managed: true,
		rooms: []seedRoom{
			{"101", "SINGLE", 1, "89.00"},
			{"102", "DOUBLE", 2, "129.00"},
			{"201", "DOUBLE", 2, "139.00"},
			{"301", "SUITE", 4, "249.00"},
		},
	},
	{
		request: models.HotelRequest{
			Name:    "Old Town Inn",
			Address: "Calle Mayor 3",
			City:    "Madrid",
			Country: "Spain",
		},
		rooms: []seedRoom{
			{"1", "DOUBLE", 2, "110.00"},
			{"2", "FAMILY", 5, "180.00"},
		},
	},
}

// Seeds one account per role plus two hotels and their rooms through the service
// layer so every row passes the same rules as API traffic.
func main() {
	password := flag.String("password", "changeme123", "Password for the seeded accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Server)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	users := database.NewUserRepository(db)
	hotels := database.NewHotelRepository(db)
	rooms := database.NewRoomRepository(db)
	reservations := database.NewReservationRepository(db)

	gate := services.NewGate(hotels)
	notifier := services.NewNotificationService(mailer.NewLogSender(logger), logger)
	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	userService := services.NewUserService(users, hotels, gate, tokens, notifier, logger, cfg.Security.BcryptCost)
	hotelService := services.NewHotelService(hotels, rooms, users, gate, logger)
	reservationService := services.NewReservationService(reservations, rooms, gate, notifier, logger)
	roomService := services.NewRoomService(rooms, reservations, gate, logger)

	// Bootstrap actor: no admin exists yet to act on its own behalf
	root := services.Actor{UserID: uuid.Nil, Role: models.RoleAdmin}

	admin, err := userService.CreateUser(ctx, root, models.CreateUserRequest{
		Email:     "admin@staybook.local",
		Password:  *password,
		FirstName: "Site",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	})
	if err != nil {
		logger.Fatalf("Failed to create admin: %v", err)
	}
	actor := services.Actor{UserID: admin.ID, Role: models.RoleAdmin}

	manager, err := userService.CreateUser(ctx, actor, models.CreateUserRequest{
		Email:     "manager@staybook.local",
		Password:  *password,
		FirstName: "Front",
		LastName:  "Desk",
		Phone:     "+351 21 000 0000",
		Role:      models.RoleManager,
	})
	if err != nil {
		logger.Fatalf("Failed to create manager: %v", err)
	}

	guest, err := userService.CreateUser(ctx, actor, models.CreateUserRequest{
		Email:     "guest@staybook.local",
		Password:  *password,
		FirstName: "Sample",
		LastName:  "Guest",
		Role:      models.RoleUser,
	})
	if err != nil {
		logger.Fatalf("Failed to create guest: %v", err)
	}

	rating := decimal.RequireFromString("4.5")
	var sampleRoom *models.Room
	for _, h := range seedHotels {
		req := h.request
		req.Rating = &rating
		if h.managed {
			req.ManagerID = &manager.ID
		}
		hotel, err := hotelService.Create(ctx, actor, req)
		if err != nil {
			logger.Fatalf("Failed to create hotel %s: %v", req.Name, err)
		}

		for _, r := range h.rooms {
			room, err := roomService.Create(ctx, actor, models.RoomRequest{
				HotelID:  &hotel.ID,
				Number:   r.number,
				Type:     r.kind,
				Capacity: r.capacity,
				Price:    decimal.RequireFromString(r.price),
			})
			if err != nil {
				logger.Fatalf("Failed to create room %s/%s: %v", hotel.Name, r.number, err)
			}
			if sampleRoom == nil {
				sampleRoom = room
			}
		}
		fmt.Printf("Seeded hotel %q (%s) with %d rooms\n", hotel.Name, hotel.ID, len(h.rooms))
	}

	if sampleRoom != nil {
		checkIn := models.NormalizeDate(time.Now()).AddDate(0, 0, 7)
		reservation, err := reservationService.Create(ctx, services.Actor{UserID: guest.ID, Role: models.RoleUser}, services.CreateReservationInput{
			RoomID:     sampleRoom.ID,
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 3),
			GuestCount: 1,
		})
		if err != nil {
			logger.Fatalf("Failed to create sample reservation: %v", err)
		}
		fmt.Printf("Seeded PENDING reservation %s for room %s\n", reservation.ID, sampleRoom.Number)
	}

	fmt.Printf("Admin:   %s\n", admin.Email)
	fmt.Printf("Manager: %s\n", manager.Email)
	fmt.Printf("Guest:   %s\n", guest.Email)
}
