package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"estatehub/db"
	"estatehub/db/migrations"
	"estatehub/internal/auth"
	"estatehub/internal/handlers"
	"estatehub/internal/images"
	"estatehub/internal/logger"
	"estatehub/internal/metrics"
	"estatehub/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, dbConn, err := connect(ctx)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	log, err := logger.New(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.GoEnv,
		ServiceName: "estatehub",
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := migrations.Run(ctx, dbConn.DB); err != nil {
		return err
	}

	m := metrics.New()
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	svc := service.New(db.NewStorage(dbConn), tokens,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	var presigner handlers.ImagePresigner
	if cfg.ImagesEnabled() {
		p, err := images.NewPresigner(ctx, images.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
			TTL:           cfg.PresignTTL,
		})
		if err != nil {
			return err
		}
		presigner = p
	} else {
		log.Warn("S3_BUCKET is not set, image uploads are disabled")
	}

	h := handlers.NewHandler(svc, presigner, log)
	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: h.Routes(handlers.RouterConfig{
			Tokens:         tokens,
			Metrics:        m,
			RequestTimeout: cfg.RequestTimeout,
			AuthRateLimit:  cfg.AuthRateLimit,
			AuthRateBurst:  cfg.AuthRateBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.ServerAddress))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
