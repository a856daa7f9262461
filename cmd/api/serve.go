package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appanalysis "github.com/bryanwahyu/fptaylor-service/internal/application/analysis"
	"github.com/bryanwahyu/fptaylor-service/internal/config"
	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
	"github.com/bryanwahyu/fptaylor-service/internal/infra/executor/fptaylor"
	"github.com/bryanwahyu/fptaylor-service/internal/infra/httpserver"
	"github.com/bryanwahyu/fptaylor-service/internal/infra/querylog"
	minioStore "github.com/bryanwahyu/fptaylor-service/internal/infra/storage"
	"github.com/bryanwahyu/fptaylor-service/internal/logging"
	"github.com/bryanwahyu/fptaylor-service/internal/middleware"
)

type serveFlags struct {
	configPath string
	host       string
	port       int
}

func newRootCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:           "fptaylor-api",
		Short:         "HTTP front end for the FPTaylor floating-point error analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cmd, f)
		},
	}

	defaultPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	cmd.Flags().StringVar(&f.configPath, "config", defaultPath, "path to config.yaml (env CONFIG_PATH)")
	cmd.Flags().StringVar(&f.host, "host", "", "override server.host")
	cmd.Flags().IntVar(&f.port, "port", 0, "override server.port")
	return cmd
}

func loadConfig(cmd *cobra.Command, f serveFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cobra.Command, f serveFlags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("logger init error: %w", err)
	}
	defer logger.Sync()

	// init runner
	runner := fptaylor.NewRunner(cfg.Analyzer.Program, cfg.Analyzer.ScratchDir)
	checkers := map[string]middleware.HealthChecker{"analyzer": runner}
	if err := runner.Check(ctx); err != nil {
		logger.Warn("analyzer program not found, requests will fail until it is installed", zap.Error(err))
	}

	// init query log
	queries, err := newQueryLog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("query log init error: %w", err)
	}
	if queries != nil {
		if c, ok := queries.(middleware.HealthChecker); ok {
			checkers["querylog"] = c
		}
	}

	// init service
	svc := &appanalysis.Service{
		Invoker: runner,
		Queries: queries,
		Timeout: cfg.AnalyzerTimeout(),
		Logger:  logger,
	}

	pages, err := httpserver.LoadPages()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: httpserver.NewRouter(svc, pages, httpserver.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxQueryBytes:  cfg.Analyzer.MaxQueryBytes,
			Checkers:       checkers,
			Logger:         logger,
		}),
		ReadTimeout: 15 * time.Second,
		// analyses can run for the whole analyzer timeout
		WriteTimeout: cfg.AnalyzerTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("program", runner.Program()),
			zap.Stringer("service", svc),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newQueryLog(ctx context.Context, cfg *config.Config) (domain.QueryLog, error) {
	if !cfg.QueryLog.Enabled {
		return nil, nil
	}
	if cfg.QueryLog.Backend == config.BackendMinio {
		m := cfg.QueryLog.Minio
		store, err := minioStore.New(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.Prefix, m.UseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return querylog.NewFileStore(cfg.QueryLog.Directory), nil
}
