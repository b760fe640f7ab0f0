package main

import (
	"flag"
	"log"

	"bookstore-marketplace/internal/config"
	"bookstore-marketplace/internal/infrastructure/database"

	"github.com/joho/godotenv"
)

// Usage: go run ./cmd/migrate [up|down|status]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	flag.Parse()
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	migrator, err := database.NewMigrator(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("❌ Failed to init migrator: %v", err)
	}
	defer migrator.Close()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "status":
		err = migrator.Status()
	default:
		log.Fatalf("unknown command %q (expected up, down or status)", command)
	}

	if err != nil {
		log.Fatalf("❌ Migration %s failed: %v", command, err)
	}
	log.Printf("✅ Migration %s done", command)
}
