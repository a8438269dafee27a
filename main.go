package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"bananaphone/m/internal/api"
	"bananaphone/m/internal/config"
	"bananaphone/m/internal/database"
	"bananaphone/m/internal/migrations"
	"bananaphone/m/internal/seed"
	"bananaphone/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.Run(db)
	seed.EnsureAdmin(db, cfg.AdminUser, cfg.AdminPassword)

	st := store.New(db, cfg.ResetTimeout)
	handler := api.New(db, st, cfg.Secret)

	log.Printf("Banana Phone Estate Services server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
