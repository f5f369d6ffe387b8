package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"

	"elearning_backend/internals/configs"
	database "elearning_backend/internals/databases"
	paymentScheduler "elearning_backend/internals/features/finance/payments/scheduler"
	scheduler "elearning_backend/internals/features/users/auth/scheduler"
	helper "elearning_backend/internals/helpers"
	helperOSS "elearning_backend/internals/helpers/oss"
	middlewares "elearning_backend/internals/middlewares"
	routes "elearning_backend/internals/route"
	"elearning_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.FiberErrorHandler,
		BodyLimit:             configs.GetEnvInt("BODY_LIMIT_MB", 512) * 1024 * 1024, // upload video
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	// middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// Request-ID + timeout context (query GORM ikut dibatalkan)
	app.Use(middlewares.RequestID(configs.GetEnvDuration("REQUEST_TIMEOUT", 15*time.Second)))

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// mode maintenance: turunkan schema lalu keluar tanpa start server
	if steps := configs.GetEnvInt("MIGRATE_ROLLBACK_STEPS", 0); steps > 0 {
		if err := database.Rollback(database.DB, steps); err != nil {
			log.Fatalf("[ERROR] rollback: %v", err)
		}
		database.Close()
		return
	}
	if configs.GetEnvBool("RUN_MIGRATIONS", true) {
		if err := database.RunMigrations(database.DB); err != nil {
			log.Fatalf("[ERROR] migrations: %v", err)
		}
	}
	if configs.GetEnvBool("RUN_SEEDS", false) {
		seeds.RunAllSeeds(database.DB)
	}

	// scheduler setelah DB siap
	var crons []*cron.Cron
	crons = append(crons,
		scheduler.StartBlacklistCleanupScheduler(database.DB),
		helperOSS.StartTrashReaperCron(database.DB),
		paymentScheduler.StartTopupExpiryScheduler(database.DB),
	)

	// Routes (Midtrans di-init di route payments)
	routes.SetupRoutes(app, database.DB)

	// Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Minute // upload besar
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	// Start server non-blocking
	go func() {
		log.Printf("[INFO] Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + stop cron + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	for _, c := range crons {
		if c != nil {
			<-c.Stop().Done()
		}
	}
	database.Close()
}
