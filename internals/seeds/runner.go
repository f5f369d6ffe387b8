package seeds

import (
	"log"

	"gorm.io/gorm"

	users "elearning_backend/internals/seeds/users/auth"
)

// RunAllSeeds: idempotent, aman dijalankan berulang (RUN_SEEDS=true).
func RunAllSeeds(db *gorm.DB) {
	log.Println("[SEED] mulai")

	//* User
	users.SeedAdminFromEnv(db)
	users.SeedUsersFromJSON(db, "internals/seeds/users/auth/data_users.json")

	log.Println("[SEED] selesai")
}
