package seeds

import (
	"log"

	"canvassers_backend/internals/configs"
	"canvassers_backend/internals/seeds/branches"
	"canvassers_backend/internals/seeds/users"

	"gorm.io/gorm"
)

// RunAllSeeds aktif hanya bila RUN_SEEDS=true. File kosong = dilewati.
func RunAllSeeds(db *gorm.DB) {
	if !configs.GetEnvBool("RUN_SEEDS", false) {
		return
	}
	log.Println("🌱 Running seeds...")

	users.SeedAdminFromEnv(db)

	if path := configs.GetEnv("USER_SEED_FILE"); path != "" {
		users.SeedUsersFromJSON(db, path)
	}
	if path := configs.GetEnv("BRANCH_SEED_FILE"); path != "" {
		branches.SeedBranchesFromJSON(db, path)
	}
}
