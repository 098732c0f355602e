package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/esimchatgo/internal/ai"
	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/config"
	"github.com/xelth-com/esimchatgo/internal/database"
	"github.com/xelth-com/esimchatgo/internal/geoip"
	"github.com/xelth-com/esimchatgo/internal/handlers"
	"github.com/xelth-com/esimchatgo/internal/models"
	"github.com/xelth-com/esimchatgo/internal/orders"
	"github.com/xelth-com/esimchatgo/internal/services/backoffice"
	"github.com/xelth-com/esimchatgo/internal/settings"
	ws "github.com/xelth-com/esimchatgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.AutoMigrate(
		&models.UserAuth{},
		&models.ChatSettings{},
	); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Settings store (seeds defaults on first run)
	store, err := settings.NewStore(db.DB, cfg.Chat)
	if err != nil {
		log.Fatalf("Failed to initialize settings store: %v", err)
	}

	// 5. Order dataset and dialogue service
	dataset := orders.NewDataset(cfg.Orders.PrimaryPath, cfg.Orders.FallbackPath, cfg.Orders.MaxAge)

	var completer ai.Completer
	if cfg.Gemini.APIKey != "" {
		client, err := ai.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.MaxConcurrent)
		if err != nil {
			log.Fatalf("Failed to initialize completion client: %v", err)
		}
		defer client.Close()
		completer = client
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, completions disabled")
		completer = ai.Unavailable{}
	}

	geo := geoip.NewClient()
	chatSvc := &chat.Service{
		Orders:    dataset,
		Completer: completer,
		Geo:       geo.Country,
		Resolver:  chat.NewLanguageResolver(chat.ScriptFallback{Inner: chat.StatDetector{}}, cfg.Chat.DefaultLanguage),
		Options:   store.ChatOptions,
	}

	// 6. Websocket hub for the widget transport
	hub := ws.NewHub()
	go hub.Run()

	// 7. Set up HTTP router
	router := handlers.NewRouter(cfg, db, chatSvc, dataset, store, hub)

	// 8. Start backoffice order-export sync (Background)
	syncService := backoffice.NewSyncService(cfg.Backoffice, cfg.Orders.PrimaryPath)
	syncService.Start()

	// 9. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop backoffice sync service
	syncService.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
