package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"imagevault/gallery/application"
	"imagevault/gallery/persistence"
	"imagevault/internal/config"
	"imagevault/internal/middleware"
	"imagevault/internal/rest"
)

const shutdownTimeout = 5 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "imagevault",
	Short: "An HTTP image repository that normalizes every upload to PNG",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the image server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := persistence.NewFileStore(cfg.ImageDir)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	service := application.NewImageService(store)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, rest.NewImageHandler(service))

	// Seeding runs in the background; clients poll /image-list for readiness.
	if cfg.Seed.Enabled {
		seeder := application.NewSeeder(service, nil, cfg.Seed.URLs, cfg.Seed.Concurrency)
		go func() {
			if err := seeder.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("Seeding failed")
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("imageDir", cfg.ImageDir).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
