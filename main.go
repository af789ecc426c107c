package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"construction-site-cctv/be/config"
	"construction-site-cctv/be/database"
	"construction-site-cctv/be/handlers"
	"construction-site-cctv/be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	daemon := flag.Bool("daemon", false, "run as daemon (continuous loop)")
	interval := flag.Int("interval", 0, "daemon check interval in seconds (overrides DAEMON_INTERVAL)")
	stats := flag.Bool("stats", false, "show today's statistics and exit")
	cleanup := flag.Bool("cleanup", false, "run cleanup of old files after snapshots")
	serve := flag.Bool("serve", false, "serve the HTTP trigger API")
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Wire up the snapshot engine
	store := database.NewStore(db)
	archive := services.NewArchiveService(cfg.Snapshot.ImagesPath)
	capture := services.NewCaptureService(cfg.Snapshot.FFmpegPath, cfg.Snapshot.CaptureTimeout)
	snapshotService := services.NewSnapshotService(store, archive, capture, cfg.Snapshot)

	if *serve {
		runServer(snapshotService, cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *stats:
		showStatistics(ctx, snapshotService)

	case *daemon:
		seconds := cfg.Snapshot.DaemonInterval
		if *interval > 0 {
			seconds = *interval
		}
		runDaemon(ctx, snapshotService, cfg, seconds)

	default:
		runOnce(ctx, snapshotService, cfg, *cleanup)
	}
}

// runOnce executes a single scheduling pass, optionally followed by cleanup.
func runOnce(ctx context.Context, svc *services.SnapshotService, cfg *config.Config, withCleanup bool) {
	report, err := svc.ProcessAllCameras(ctx)
	if err != nil {
		log.Fatalf("Snapshot run failed: %v", err)
	}

	logReport(report)

	if withCleanup {
		if err := svc.CleanupOldFiles(ctx, cfg.Snapshot.RetentionDays); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		log.Println("Cleanup completed")
	}
}

// runDaemon loops ProcessAllCameras at a fixed interval until the context is
// cancelled by a signal. Every CleanupEvery iterations it also runs the
// retention sweep. Iteration errors are logged, never fatal.
func runDaemon(ctx context.Context, svc *services.SnapshotService, cfg *config.Config, intervalSeconds int) {
	log.Printf("Starting snapshot daemon (check interval: %ds)", intervalSeconds)

	ticker := time.NewTicker(time.Duration(intervalSeconds) * time.Second)
	defer ticker.Stop()

	iteration := 0
	for {
		iteration++

		report, err := svc.ProcessAllCameras(ctx)
		if err != nil {
			log.Printf("Error in daemon iteration %d: %v", iteration, err)
		} else {
			logReport(report)
		}

		if iteration%cfg.Snapshot.CleanupEvery == 0 {
			log.Println("Running periodic cleanup...")
			if err := svc.CleanupOldFiles(ctx, cfg.Snapshot.RetentionDays); err != nil {
				log.Printf("Periodic cleanup failed: %v", err)
			}
		}

		select {
		case <-ctx.Done():
			log.Println("Signal received, stopping daemon")
			return
		case <-ticker.C:
		}
	}
}

func showStatistics(ctx context.Context, svc *services.SnapshotService) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := svc.GetStatistics(ctx, today)
	if err != nil {
		log.Fatalf("Failed to fetch statistics: %v", err)
	}

	log.Printf("Snapshots today: %d - Success: %d, Failed: %d, Success rate: %.1f%%",
		stats.Total, stats.Success, stats.Failed, stats.SuccessRate)
}

func logReport(report *services.RunReport) {
	succeeded, failed, skipped := report.Summary()
	log.Printf("Processed %d cameras in %.2fs - Success: %d, Failed: %d, Skipped: %d",
		len(report.Results), report.Duration.Seconds(), succeeded, failed, skipped)
}

func runServer(svc *services.SnapshotService, cfg *config.Config) {
	snapshotHandler := handlers.NewSnapshotHandler(svc, cfg.Snapshot.RetentionDays)
	router := setupRouter(snapshotHandler)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(snapshotHandler *handlers.SnapshotHandler) *gin.Engine {
	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS configuration
	// Allow all localhost origins for development
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			// Allow requests with no origin (like cron jobs or curl requests)
			if origin == "" {
				return true
			}
			return origin == "http://localhost:8080" ||
				origin == "http://localhost:5173" ||
				origin == "http://localhost:3000" ||
				origin == "http://127.0.0.1:8080" ||
				origin == "http://127.0.0.1:5173" ||
				origin == "http://127.0.0.1:3000"
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600, // 12 hours
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		snapshots := api.Group("/snapshots")
		{
			snapshots.POST("/run", snapshotHandler.Run)
			snapshots.GET("/statistics", snapshotHandler.Statistics)
			snapshots.POST("/cleanup", snapshotHandler.Cleanup)
		}
	}

	return router
}
