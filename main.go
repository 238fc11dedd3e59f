package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poolchill/api"
	"poolchill/config"
	"poolchill/handlers"
	"poolchill/routes"
	"poolchill/services/session"
	"poolchill/services/storage"
	"poolchill/services/verification"
	"poolchill/services/wizard"
	"poolchill/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Session store: redis when configured, in-memory otherwise.
	var store session.Store
	if config.AppConfig.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisSessionDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if _, err := client.Ping(pingCtx).Result(); err != nil {
			cancel()
			logger.Sugar().Fatalf("main: failed to connect to redis: %v", err)
		}
		cancel()
		store = session.NewRedisStore(client)
	} else {
		store = session.NewMemoryStore()
	}

	apiClient := api.NewClient(config.AppConfig.APIBaseURL, nil)
	boot := session.NewBootstrap(store, apiClient, config.AppConfig.PayloadSecret)

	uploader, err := storage.NewCloudinaryUploader(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary uploader: %v", err)
	}

	verifier := verification.NewManager(apiClient, boot, verification.ExecOpener{}, verification.Config{
		PollInterval: config.AppConfig.VerificationPollInterval,
		PollCeiling:  config.AppConfig.VerificationPollCeiling,
		SuccessDelay: config.AppConfig.VerificationSuccessDelay,
	})

	drafts := wizard.NewDraftStore(store, config.AppConfig.DraftFreshness)
	controller := wizard.NewController(
		wizard.Config{MinListingPhotos: config.AppConfig.MinListingPhotos},
		apiClient, boot, drafts, verifier, uploader, nil,
	)
	controller.Mount(context.Background(), false)

	// Create the Gin router for the redirect-callback listener.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	callbackHandler := handlers.NewCallbackHandler(controller, verifier)
	routes.RegisterRoutes(router, callbackHandler)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8787"
	}
	srv := &http.Server{
		Addr:    "127.0.0.1:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting callback listener on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: listener failed: %v", err)
		}
	}()

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	controller.Unmount()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
}
