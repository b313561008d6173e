package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/staybook/hotel-reservation-backend/internal/config"
	"github.com/staybook/hotel-reservation-backend/internal/database"
)

// Children first so the counts read naturally; TRUNCATE ... CASCADE does
// not depend on the order.
var tables = []string{
	"reservation_logs",
	"reservations",
	"rooms",
	"hotels",
	"audit_logs",
	"users",
}

func main() {
	var dbURLFlag string
	var keepUsers bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&keepUsers, "keep-users", false, "Clear bookings and catalogue but keep accounts and audit logs")
	flag.Parse()

	// Optional .env in the working directory keeps secrets off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	targets := tables
	if keepUsers {
		targets = tables[:4]
	}

	ctx := context.Background()
	fmt.Println("Connected to database. Truncating tables...")

	query := "TRUNCATE TABLE "
	for i, t := range targets {
		if i > 0 {
			query += ", "
		}
		query += t
	}
	query += " RESTART IDENTITY CASCADE"

	if _, err := db.ExecContext(ctx, query); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}
	fmt.Println("Data cleared successfully (tables truncated, identities reset).")

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", t)); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
