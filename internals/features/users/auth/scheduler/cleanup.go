package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	authRepo "elearning_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler: hapus token_blacklist yang expired
// dan refresh token lama. Jadwal dari TOKEN_CLEANUP_CRON (default tiap jam 03:00).
func StartBlacklistCleanupScheduler(db *gorm.DB) *cron.Cron {
	schedule := configs.GetEnv("TOKEN_CLEANUP_CRON", "0 3 * * *")
	graceDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		bl, rt, err := authRepo.CleanupExpiredBlacklist(ctx, db, graceDays)
		if err != nil {
			log.Printf("[CLEANUP ERROR] %v", err)
			return
		}
		log.Printf("[CLEANUP] token_blacklist=%d refresh_tokens=%d dihapus", bl, rt)
	})
	if err != nil {
		log.Printf("[CLEANUP] add cron gagal (schedule=%q): %v", schedule, err)
		return nil
	}
	c.Start()
	log.Printf("[CLEANUP] started schedule=%q graceDays=%d", schedule, graceDays)
	return c
}
