package helper

import (
	"context"
	"log"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"elearning_backend/internals/configs"
)

type TrashReaperConfig struct {
	Prefix        string
	RetentionDays int
	CronSchedule  string
	DryRun        bool
}

// softDeleteTarget: tabel soft-delete yang di-hard-delete setelah retensi.
type softDeleteTarget struct{ Table, Col, Extra string }

var reaperTargets = []softDeleteTarget{
	// course yang pernah dibeli tetap disimpan (riwayat pembelian ikut cascade)
	{Table: "courses", Col: "course_deleted_at",
		Extra: ` AND NOT EXISTS (SELECT 1 FROM purchases p WHERE p.purchase_course_id = courses.course_id)`},
	{Table: "users", Col: "deleted_at"},
}

func TrashReaperConfigFromEnv() TrashReaperConfig {
	return TrashReaperConfig{
		Prefix:        configs.GetEnv("REAPER_PREFIX", "spam/"),
		RetentionDays: configs.GetEnvInt("RETENTION_DAYS", 30),
		CronSchedule:  configs.GetEnv("CRON_SCHEDULE", "15 2 * * *"),
		DryRun:        configs.GetEnvBool("DRY_RUN", false),
	}
}

func (c TrashReaperConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// StartTrashReaperCron dipanggil dari main.go. OSS opsional, DB reaper selalu jalan.
func StartTrashReaperCron(db *gorm.DB) *cron.Cron {
	cfg := TrashReaperConfigFromEnv()

	var bucket *oss.Bucket
	if svc, err := NewOSSServiceFromEnv(""); err == nil {
		bucket = svc.Bucket
	} else {
		log.Printf("[TRASH-REAPER] OSS tidak aktif (%v), jalankan DB reaper saja", err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		if bucket != nil {
			if err := runOSSReaper(ctx, bucket, cfg.Prefix, cfg.Retention(), cfg.DryRun); err != nil {
				log.Printf("[TRASH-REAPER] OSS error: %v", err)
			}
		}
		if err := runDBReaper(ctx, db, cfg.Retention(), cfg.DryRun); err != nil {
			log.Printf("[TRASH-REAPER] DB error: %v", err)
		}
	})
	if err != nil {
		log.Printf("[TRASH-REAPER] add cron gagal (schedule=%q): %v", cfg.CronSchedule, err)
		return nil
	}
	log.Printf("[TRASH-REAPER] started schedule=%q prefix=%q retention=%dd dryRun=%v",
		cfg.CronSchedule, cfg.Prefix, cfg.RetentionDays, cfg.DryRun)
	c.Start()
	return c
}

func runOSSReaper(ctx context.Context, bucket *oss.Bucket, prefix string, retention time.Duration, dryRun bool) error {
	threshold := time.Now().Add(-retention)

	marker := oss.Marker("")
	var expired []string
	scanned := 0
	for {
		lor, err := bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return err
		}
		for _, obj := range lor.Objects {
			scanned++
			if obj.Key != "" && obj.LastModified.Before(threshold) {
				expired = append(expired, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}

	if len(expired) == 0 {
		log.Printf("[OSS-REAPER] nothing to delete; scanned=%d under %q", scanned, prefix)
		return nil
	}
	if dryRun {
		log.Printf("[OSS-REAPER] DRY-RUN would delete %d/%d objects under %q", len(expired), scanned, prefix)
		return nil
	}

	deleted := 0
	for _, batch := range chunkKeys(expired, 1000) {
		if _, err := bucket.DeleteObjects(batch, oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			log.Printf("[OSS-REAPER] delete batch gagal (%d keys): %v", len(batch), err)
			continue
		}
		deleted += len(batch)
	}
	log.Printf("[OSS-REAPER] deleted %d objects (scanned=%d) under %q", deleted, scanned, prefix)
	return nil
}

// runDBReaper: hard-delete baris soft-deleted yang lebih tua dari cutoff.
// Chapter/quiz ikut terhapus lewat ON DELETE CASCADE.
func runDBReaper(ctx context.Context, db *gorm.DB, retention time.Duration, dryRun bool) error {
	if db == nil {
		return nil
	}
	cutoff := time.Now().Add(-retention)

	for _, t := range reaperTargets {
		where := t.Col + ` IS NOT NULL AND ` + t.Col + ` < ?` + t.Extra
		if dryRun {
			var n int64
			if err := db.WithContext(ctx).Table(t.Table).Where(where, cutoff).Count(&n).Error; err != nil {
				log.Printf("[DB-REAPER] %s: count error: %v", t.Table, err)
				continue
			}
			log.Printf("[DB-REAPER] DRY-RUN %s: would hard-delete %d rows", t.Table, n)
			continue
		}
		res := db.WithContext(ctx).Exec(`DELETE FROM `+t.Table+` WHERE `+where, cutoff)
		if res.Error != nil {
			// FK (mis. courses → users) bisa menolak; baris dibiarkan.
			log.Printf("[DB-REAPER] %s: delete error: %v", t.Table, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			log.Printf("[DB-REAPER] %s: hard-deleted %d rows older than %s",
				t.Table, res.RowsAffected, cutoff.Format(time.RFC3339))
		}
	}
	return nil
}

func chunkKeys(keys []string, size int) [][]string {
	if size <= 0 {
		size = 1000
	}
	out := make([][]string, 0, (len(keys)+size-1)/size)
	for i := 0; i < len(keys); i += size {
		end := min(i+size, len(keys))
		out = append(out, keys[i:end])
	}
	return out
}
