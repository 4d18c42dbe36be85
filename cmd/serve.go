package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	config "item-service.com/item-service/internal/configs"
	httpapi "item-service.com/item-service/internal/http"
	"item-service.com/item-service/internal/queue"
	repository "item-service.com/item-service/internal/repositories"
	"item-service.com/item-service/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the item HTTP API and the creation-job worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()

		redisClient := config.NewRedisClient(cfg.RedisAddr)
		defer redisClient.Close()

		tokenManager := queue.NewRedisTokenManager(redisClient, cfg.RedisQueueKey)
		if err := tokenManager.InitializeTokens(context.Background(), cfg.QueueSize); err != nil {
			log.Fatalf("failed to initialize queue tokens: %v", err)
		}

		database := config.New(cfg.DatabaseDSN)

		itemRepo := repository.NewItemRepository(database)
		jobRepo := repository.NewJobRepository(database)

		pool := services.NewPoolService(
			tokenManager,
			itemRepo,
			jobRepo,
			cfg.Workers,
			cfg.QueueSize,
			time.Duration(cfg.JobTimeoutSeconds)*time.Second,
			time.Duration(cfg.JobRetentionHours)*time.Hour,
		)

		itemService := services.NewItemService(tokenManager, itemRepo, jobRepo, pool)

		e := echo.New()

		handler := httpapi.NewHandler(itemService)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", cfg.AppURL)
			if err := e.Start(cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second,
		)
		defer cancel()

		_ = e.Shutdown(ctx)
		pool.Shutdown(ctx)

		log.Println("HTTP server and worker pool shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
