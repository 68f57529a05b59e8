package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	grpchandler "github.com/dtroode/linkverify-server/internal/api/grpc/handler"
	grpcrouter "github.com/dtroode/linkverify-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/linkverify-server/internal/api/grpc/server"
	"github.com/dtroode/linkverify-server/internal/api/http/handler"
	"github.com/dtroode/linkverify-server/internal/api/http/middleware"
	"github.com/dtroode/linkverify-server/internal/api/http/router"
	httpserver "github.com/dtroode/linkverify-server/internal/api/http/server"
	"github.com/dtroode/linkverify-server/internal/config"
	"github.com/dtroode/linkverify-server/internal/logger"
	"github.com/dtroode/linkverify-server/internal/metrics"
	"github.com/dtroode/linkverify-server/internal/model"
	"github.com/dtroode/linkverify-server/internal/server"
	"github.com/dtroode/linkverify-server/internal/service"
	"github.com/dtroode/linkverify-server/internal/shortener"
	storage "github.com/dtroode/linkverify-server/internal/storage/minio"
	"github.com/dtroode/linkverify-server/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve verification links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply database migrations before serving (postgres store)")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logger.New(cfg.LogLevel)

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	st, closeStore, err := openStore(ctx, cfg, migrate, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var receipts model.ReceiptStore
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(ctx, storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize receipt storage: %w", err)
		}
		receipts = client
	}

	recorder := metrics.NewRecorder()

	redirectService := service.NewRedirect(
		st,
		shortener.NewClient(cfg.Shortener.Scheme, cfg.Shortener.Host, cfg.Shortener.APIKey),
		receipts,
		recorder,
		service.RedirectConfig{
			BotUsername:    cfg.Telegram.BotUsername,
			Mode:           model.RedirectMode(cfg.Redirect.Mode),
			PublicBaseURL:  cfg.Redirect.PublicBaseURL,
			ResolveTimeout: cfg.Shortener.Timeout,
		},
		logger,
	)
	if !redirectService.Ready() {
		logger.Warn("bot username or shortener credentials are missing, new links will answer \"Service unavailable\"")
	}

	pages, err := handler.NewPages(cfg.Redirect.DelaySeconds)
	if err != nil {
		return err
	}

	servers := []model.Server{
		httpserver.NewHTTPServer(router.New(router.Options{
			Redirect:       handler.NewRedirect(redirectService, pages, logger),
			Health:         handler.NewHealth(st, logger),
			Metrics:        recorder.Handler(),
			Logging:        middleware.NewLogging(logger),
			Mode:           redirectService.Mode(),
			RateLimit:      cfg.HTTP.RateLimit,
			TrustProxy:     cfg.HTTP.TrustProxy,
			RequestTimeout: cfg.HTTP.RequestTimeout,
		}), fmt.Sprintf(":%s", cfg.HTTP.Port)),
	}

	if cfg.GRPC.Enabled {
		reporter := grpchandler.NewHealthReporter(st, 0, logger)
		go reporter.Run(ctx)

		servers = append(servers, grpcserver.NewGRPCServer(
			grpcrouter.New(reporter, logger).Register(),
			fmt.Sprintf(":%s", cfg.GRPC.Port),
		))
	}

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	logAppVersion(logger)

	errCh := make(chan error, len(servers))
	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				errCh <- err
			}
		}(s)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("received interruption signal, shutting down")
	case serveErr = <-errCh:
		logger.Info("server failed, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var stopErr error
	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
			stopErr = errors.Join(stopErr, err)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")

	if serveErr != nil {
		return serveErr
	}
	return stopErr
}

func logAppVersion(logger *logger.Logger) {
	logger.Info("build info",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit)
}
