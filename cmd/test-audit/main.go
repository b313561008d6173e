package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/staybook/hotel-reservation-backend/internal/config"
	"github.com/staybook/hotel-reservation-backend/internal/database"
	"github.com/staybook/hotel-reservation-backend/internal/services"
)

// Writes a login and a manager change against the configured database and
// reads them back. Useful after a migration or a JSONB column change.
func main() {
	fmt.Println("=== Audit Logging Check ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	fmt.Println("Database connected")

	ctx := context.Background()
	auditService := services.NewAuditService(db, true)
	userID := uuid.New()
	hotelID := uuid.New()

	fmt.Println("\nTEST 1: Logging login event...")
	err = auditService.LogLogin(ctx, &userID, "audit-check@staybook.local", true,
		"203.0.113.45", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", "")
	report("Login logged", err)

	fmt.Println("\nTEST 2: Logging manager change...")
	err = auditService.Log(ctx, services.AuditEvent{
		UserID:     &userID,
		Action:     services.AuditManagerChange,
		EntityType: "hotel",
		EntityID:   &hotelID,
		IPAddress:  "203.0.113.45",
		Details:    map[string]interface{}{"manager_id": nil},
	})
	report("Manager change logged", err)

	fmt.Println("\nTEST 3: Reading back recent events...")
	events, err := auditService.RecentEvents(ctx, userID, 5)
	if err != nil {
		log.Fatalf("FAILED: %v", err)
	}
	fmt.Println("----------------------------------------------")
	for _, e := range events {
		fmt.Printf("- %s | %s | %s | %s\n", e.Action, e.EntityType.String, e.IPAddress.String, e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("----------------------------------------------")
	if len(events) != 2 {
		log.Fatalf("FAILED: expected 2 events, found %d", len(events))
	}

	fmt.Println("\n=== Check Complete ===")
}

func report(what string, err error) {
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		return
	}
	fmt.Printf("SUCCESS: %s\n", what)
}
