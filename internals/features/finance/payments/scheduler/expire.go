package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
	svc "elearning_backend/internals/features/finance/payments/service"
)

// TopupExpiry: umur maksimal top-up open (TOPUP_EXPIRE_HOURS, default 24).
func TopupExpiry() time.Duration {
	return time.Duration(configs.GetEnvInt("TOPUP_EXPIRE_HOURS", 24)) * time.Hour
}

// StartTopupExpiryScheduler: tandai top-up initiated/pending yang kedaluwarsa.
// Jadwal dari TOPUP_EXPIRE_CRON (default tiap 15 menit).
func StartTopupExpiryScheduler(db *gorm.DB) *cron.Cron {
	schedule := configs.GetEnv("TOPUP_EXPIRE_CRON", "*/15 * * * *")
	ttl := TopupExpiry()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		now := time.Now()
		n, err := svc.ExpireStale(ctx, db, now.Add(-ttl), now)
		if err != nil {
			log.Printf("[TOPUP-EXPIRE ERROR] %v", err)
			return
		}
		if n > 0 {
			log.Printf("[TOPUP-EXPIRE] %d top-up ditandai expired", n)
		}
	})
	if err != nil {
		log.Printf("[TOPUP-EXPIRE] add cron gagal (schedule=%q): %v", schedule, err)
		return nil
	}
	c.Start()
	log.Printf("[TOPUP-EXPIRE] started schedule=%q ttl=%s", schedule, ttl)
	return c
}
