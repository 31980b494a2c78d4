package main

import (
	"flag"
	"log"

	"foodgram-backend/cmd/config"
	migration "foodgram-backend/cmd/database/migrate"
	"foodgram-backend/cmd/database/seed"
	"foodgram-backend/internal/utils"
)

func main() {
	runSeed := flag.Bool("seed", false, "seed default tags and the ingredient catalog, then exit")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if *runSeed {
		if err := seed.Seed(db); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	if err := app.Listen(":8000"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
