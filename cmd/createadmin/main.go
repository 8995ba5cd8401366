package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/rescueplate/backend/internal/bootstrap"
	"github.com/rescueplate/backend/pkg/database"
)

// Seeds an admin account. Registration only offers the donor and recipient
// roles, so production admins are created with this tool.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("missing -password")
	}

	_ = godotenv.Load()

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedAdminUser(db, *username, *password); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
}
