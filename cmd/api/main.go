package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"lodgesync/internal/config"
	"lodgesync/internal/database"
	"lodgesync/internal/ical"
	"lodgesync/internal/middleware"
	"lodgesync/internal/modules/auth"
	"lodgesync/internal/modules/availability"
	"lodgesync/internal/modules/booking"
	"lodgesync/internal/modules/export"
	"lodgesync/internal/modules/feed"
	syncmod "lodgesync/internal/modules/sync"
	"lodgesync/internal/modules/unit"
	jwtsvc "lodgesync/internal/pkg/jwt"
	"lodgesync/internal/pkg/unitlock"
	"lodgesync/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	blockRepo := repository.NewDateBlockRepository(db)
	feedRepo := repository.NewSyncFeedRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	locks := unitlock.New()
	fetcher := ical.NewFetcher(cfg.FeedFetchTimeout)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	unitService := unit.NewService(unitRepo)
	unitHandler := unit.NewHandler(unitService)

	availabilityService := availability.NewService(unitRepo, blockRepo, bookingRepo, locks)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(bookingRepo, unitRepo, availabilityService, locks)
	bookingHandler := booking.NewHandler(bookingService)

	feedService := feed.NewService(feedRepo, unitRepo)
	feedHandler := feed.NewHandler(feedService)

	syncService := syncmod.NewService(feedRepo, unitRepo, blockRepo, bookingRepo, fetcher, locks, cfg.SyncWorkers)
	syncHandler := syncmod.NewHandler(syncService)

	exportService := export.NewService(unitRepo, bookingRepo, blockRepo, cfg.AppURL)
	exportHandler := export.NewHandler(exportService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		unitHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		exportHandler.RegisterPublicRoutes(v1)

		// staff
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAuth(j))
		{
			unitHandler.RegisterAdminRoutes(admin)
			availabilityHandler.RegisterAdminRoutes(admin)
			bookingHandler.RegisterAdminRoutes(admin)
			feedHandler.RegisterRoutes(admin)
			syncHandler.RegisterRoutes(admin)
			exportHandler.RegisterAdminRoutes(admin)
		}
	}

	if cfg.SyncCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.SyncCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
			defer cancel()
			res, err := syncService.SyncAll(ctx)
			if err != nil {
				log.Printf("scheduled sync failed: %v", err)
				return
			}
			log.Printf("scheduled sync done attempted=%d succeeded=%d errored=%d",
				res.Attempted, res.Succeeded, res.Errored)
		})
		if err != nil {
			log.Fatalf("invalid SYNC_CRON %q: %v", cfg.SyncCron, err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("background sync scheduled: %s", cfg.SyncCron)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
