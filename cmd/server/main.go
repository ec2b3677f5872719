package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/auth"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/config"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/database"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/handlers"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/notifier"
	"github.com/Giddala-Anjaiah/Student-Achievement-Management-system/internal/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Storage
	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Initialize Notifier
	var mailer notifier.Notifier
	if smtp := notifier.NewSMTPMailer(cfg); smtp.Configured() {
		mailer = smtp
	} else {
		log.Printf("SMTP not configured, email notifications disabled")
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	h := handlers.Handlers{
		Auth:         authHandler,
		Achievement:  handlers.NewAchievementHandler(db, mailer, store),
		Notification: handlers.NewNotificationHandler(db),
		Leaderboard:  handlers.NewLeaderboardHandler(db),
		Analytics:    handlers.NewAnalyticsHandler(db),
		Portfolio:    handlers.NewPortfolioHandler(db),
		Search:       handlers.NewSearchHandler(db),
		Admin:        handlers.NewAdminHandler(db),
		Import:       handlers.NewImportHandler(db, cfg, mailer),
		Store:        store,
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
