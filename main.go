package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firedesk/config"
	"firedesk/controllers"
	"firedesk/repositories"
	"firedesk/routes"
	"firedesk/services"
	"firedesk/stores"
	"firedesk/websocket"
	"firedesk/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.Load()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	setupLogger(cfg)

	// Resolve the operator identity from the session token
	viewer, err := services.ParseSession(cfg.SessionToken, cfg.JWTSecret)
	if err != nil {
		logrus.Fatal("Failed to parse session token: ", err)
	}
	logrus.Infof("Console session for user %s (role %s, station %q)", viewer.UserID, viewer.Role, viewer.StationID)

	// Initialize the optional snapshot cache
	redisClient := config.InitRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := services.NewCacheService(redisClient, cfg.SnapshotTTL)

	// Central API client and repositories
	apiClient := repositories.NewAPIClient(cfg.APIBaseURL, cfg.SessionToken, cfg.RequestTimeout)
	alertRepo := repositories.NewAlertRepository(apiClient)
	incidentRepo := repositories.NewIncidentRepository(apiClient)
	referralRepo := repositories.NewReferralRepository(apiClient)
	stationRepo := repositories.NewStationRepository(apiClient)

	// In-memory collections
	alerts := stores.NewAlertStore()
	incidents := stores.NewIncidentStore()
	referrals := stores.NewReferralStore()
	stations := stores.NewStationStore()

	// Services
	relevance := services.NewRelevanceService()
	notifier := services.NewNotificationService(alerts, incidents, relevance, viewer)
	alertService := services.NewAlertService(alertRepo, alerts, notifier)
	incidentService := services.NewIncidentService(incidentRepo, incidents, notifier)
	referralService := services.NewReferralService(
		referralRepo, alertRepo, incidentRepo,
		referrals, alerts, incidents, stations,
		notifier, viewer,
	)
	syncService := services.NewSyncService(
		alertRepo, incidentRepo, referralRepo, stationRepo,
		alerts, incidents, referrals, stations,
		cache, notifier, viewer,
	)

	// Event stream wiring
	dispatcher := websocket.NewDispatcher(alerts, incidents, referrals, relevance, notifier, viewer)
	manager := websocket.NewManager(cfg.EventsURL, cfg.SessionToken, cfg.ReconnectMinBackoff, cfg.ReconnectMaxBackoff, dispatcher)
	rooms := websocket.NewRoomTracker(manager)

	if !viewer.GlobalScope() && viewer.HasStation() {
		rooms.Join(viewer.StationID)
	}

	// On every (re)connect rooms are rejoined before the refetch so no
	// event emitted during the fetch window is missed.
	manager.SetOnConnect(func() {
		rooms.RejoinAll()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
			defer cancel()
			if err := syncService.RefetchAll(ctx); err != nil {
				logrus.Errorf("Refetch after connect failed: %v", err)
			}
		}()
	})

	// Render from the cached snapshot while the first fetch runs
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		syncService.WarmStart(ctx)
		cancel()
	}

	manager.Start()
	defer manager.Stop()

	snapshotWorker := workers.NewSnapshotWorker(syncService, cfg.SnapshotInterval)
	snapshotWorker.Start()
	defer snapshotWorker.Stop()

	// Console surface
	router := routes.SetupRoutes(routes.Controllers{
		Console:  controllers.NewConsoleController(manager, rooms, notifier, syncService),
		Alert:    controllers.NewAlertController(alertService, alerts, relevance, viewer),
		Incident: controllers.NewIncidentController(incidentService, incidents, relevance, viewer),
		Referral: controllers.NewReferralController(referralService, referrals, relevance, viewer),
	}, manager)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Info("Firedesk console gateway starting on port ", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Shutdown complete")
}

func setupLogger(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.Environment == "development" {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
