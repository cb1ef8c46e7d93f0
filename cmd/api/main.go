// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/api/handlers"
	"github.com/Marga-Ghale/ora-boards-backend/internal/api/middleware"
	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/cache"
	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/Marga-Ghale/ora-boards-backend/internal/cron"
	"github.com/Marga-Ghale/ora-boards-backend/internal/db"
	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/seed"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/Marga-Ghale/ora-boards-backend/internal/socket"
	"github.com/Marga-Ghale/ora-boards-backend/internal/viewprefs"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// PostgreSQL (in-memory fallback outside production)
	// ============================================
	repos, pg := connectPostgres(ctx, cfg)
	if pg != nil {
		defer pg.Close()
	}

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		var err error
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	var prefsStore viewprefs.Store = viewprefs.NewMemoryStore()
	if redisDB != nil {
		prefsStore = viewprefs.NewRedisStore(redisDB)
	}

	var previewer automation.Previewer
	if cfg.AutomationPreviewURL != "" {
		previewer = automation.NewRemotePreviewer(cfg.AutomationPreviewURL, cfg.AutomationPreviewTimeout)
		log.Printf("🧪 Automation previews from %s", cfg.AutomationPreviewURL)
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	var services *service.Services
	hub := socket.NewHub(func(ctx context.Context, userID, room string) bool {
		return services.Board.CanJoinRoom(ctx, userID, room)
	})
	go hub.Run(ctx)
	broadcaster := socket.NewBroadcaster(hub)

	// ============================================
	// Initialize All Services
	// ============================================
	services = service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Schema:      cache.NewSchemaCache(redisDB, cfg.SchemaCacheTTL),
		Prefs:       viewprefs.New(prefsStore, cfg.RecentViewsLimit),
		Previewer:   previewer,
		Broadcaster: broadcaster,
	})
	log.Println("✨ All services initialized")

	wsHandler := socket.NewHandler(ctx, hub, services.Auth.UserIDFromToken, cfg.AllowedOrigins)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.SeedDemoBoard && !cfg.IsProduction() {
		if fixture, err := seed.Load(cfg.SeedFile); err != nil {
			log.Printf("⚠️ [Seed] %v", err)
		} else if board, err := seed.SeedData(ctx, services, fixture); err != nil {
			log.Printf("⚠️ [Seed] Failed: %v", err)
		} else if token, err := services.Auth.IssueToken(seed.DemoOwnerID, 0); err == nil {
			log.Printf("🌱 [Seed] Board %s, token for %s: %s", board.ID, seed.DemoOwnerID, token)
		}
	}

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(repos.ColumnRepo, repos.CounterRepo)
	if err := cronScheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   getDatabaseStatus(c.Request.Context(), pg),
			"cache":      getCacheStatus(c.Request.Context(), redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	handlers.RegisterRoutes(r, handlers.NewHandlers(services), services.Auth, wsHandler.HandleWebSocket)

	// ============================================
	// Start Server
	// ============================================
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	log.Println("👋 Server exited")
}

// connectPostgres runs migrations and opens the pool. Outside production a
// failure falls back to in-memory repositories so the API can run without a
// database.
func connectPostgres(ctx context.Context, cfg *config.Config) (*repository.Repositories, *db.PostgresDB) {
	log.Println("🔄 Running database migrations...")
	err := db.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err == nil {
		log.Println("✅ Database migrations completed")
		var pg *db.PostgresDB
		if pg, err = db.NewPostgresDB(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxConns:        int32(cfg.DBMaxConns),
			MinConns:        int32(cfg.DBMinConns),
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		}); err == nil {
			log.Println("📦 Repositories initialized (PostgreSQL)")
			return repository.NewPgRepositories(pg.Pool), pg
		}
	}

	if cfg.IsProduction() {
		log.Fatalf("❌ PostgreSQL unavailable: %v", err)
	}
	log.Printf("⚠️ PostgreSQL unavailable: %v (using in-memory repositories)", err)
	return repository.NewRepositories(), nil
}

func getDatabaseStatus(ctx context.Context, pg *db.PostgresDB) string {
	if pg == nil {
		return "in-memory"
	}
	if err := pg.Ping(ctx); err != nil {
		return "error"
	}
	return "connected"
}

func getCacheStatus(ctx context.Context, redisDB *db.RedisDB) string {
	if redisDB == nil {
		return "local"
	}
	if err := redisDB.Ping(ctx); err != nil {
		return "error"
	}
	return "connected"
}
