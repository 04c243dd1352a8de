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

	"github.com/iwvelando/growth-forecast/internal/server"
	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the command that runs the HTTP forecast API.
func NewServeCommand(logLevel *string) *cobra.Command {
	var serverConfigPath, address, maxUploadSize string
	var parallelism int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP forecast API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}
			if maxUploadSize != "" {
				size, err := server.ParseSize(maxUploadSize)
				if err != nil {
					return err
				}
				cfg.SetUploadSizeBytes(size)
			}
			if cmd.Flags().Changed("parallelism") {
				cfg.Parallelism = parallelism
			}
			if cfg.Version == "" {
				cfg.Version = version
			}

			logger, err := initializeLogger(cfg.Logging, *logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger, cfg)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile,
		"path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "upload size limit override (e.g. 256K, 1M)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "months evaluated concurrently per scenario (0 or -1 for all cores, 1 for sequential)")

	return cmd
}

func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           cfg.Handler(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("forecast API listening",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			zap.Int("parallelism", cfg.EngineParallelism()),
			zap.Int("maxHorizonMonths", cfg.MaxHorizonMonths),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("forecast API stopped",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Info("forecast API shut down",
		zap.String("op", "main.serve"),
	)
	return nil
}
