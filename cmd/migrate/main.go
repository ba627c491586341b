package main

import (
	"log"

	"github.com/CyrusMaboshe/SANCTA-MARIA/app/config"
	"github.com/CyrusMaboshe/SANCTA-MARIA/app/database"
)

func main() {
	log.Println("Starting migration...")

	config.Load()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migration completed successfully!")
}
