package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boletapp-backend-go/internal/api"
	"boletapp-backend-go/internal/config"
	"boletapp-backend-go/internal/core"
	"boletapp-backend-go/internal/db"
	"boletapp-backend-go/internal/events"
	"boletapp-backend-go/internal/middleware"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization.")
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Initialize Stores and Repositories ---
	groupStore := db.NewFirestoreGroupStore(firestoreClient)
	notificationRepo := db.NewFirestoreNotificationRepository(firestoreClient)

	// --- 5. Optional: Group event publisher (RabbitMQ) ---
	// Event publishing is best-effort and entirely optional; without a
	// configured broker the service runs with it disabled.
	var eventPublisher core.EventPublisher
	if appConfig.RabbitMQURL != "" {
		publisher, err := events.NewPublisher(
			appConfig.RabbitMQURL,
			appConfig.GroupEventsExchange,
			appConfig.GroupEventsQueue,
			zapLogger,
		)
		if err != nil {
			zapLogger.Warn("Failed to connect to RabbitMQ; group event publishing disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			eventPublisher = publisher
			zapLogger.Info("Group event publisher connected",
				zap.String("exchange", appConfig.GroupEventsExchange),
				zap.String("queue", appConfig.GroupEventsQueue))
		}
	}

	// --- 6. Initialize Core Services ---
	notificationService := core.NewNotificationService(notificationRepo, zapLogger)
	groupService := core.NewGroupService(groupStore, notificationService, eventPublisher, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 8. Apply Global Middleware (order matters) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	// --- 9. Setup API Routes ---
	api.SetupRoutes(router, zapLogger, groupService)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
