package main

import (
	"log"

	"github.com/rescueplate/backend/internal/bootstrap"
	"github.com/rescueplate/backend/internal/config"
	"github.com/rescueplate/backend/internal/server"
	"github.com/rescueplate/backend/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db, "admin", "adminpass"); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := database.ConnectRedis()

	srv := server.NewServer(cfg, db, redisClient)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
