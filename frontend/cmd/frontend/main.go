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

	"github.com/itchan-dev/routelab/frontend/internal/cli"
	"github.com/itchan-dev/routelab/frontend/internal/router"
	"github.com/itchan-dev/routelab/frontend/internal/setup"
	"github.com/itchan-dev/routelab/frontend/internal/static"
	"github.com/itchan-dev/routelab/shared/config"
	"github.com/itchan-dev/routelab/shared/logger"
	"github.com/spf13/cobra"
)

var configFolder string

var rootCmd = &cobra.Command{
	Use:           "routelab",
	Short:         "Serve the routing, streaming and static rendering test pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "routelab: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)
	return cfg
}

func newServeCmd() *cobra.Command {
	var prebuilt string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Prerender static pages and serve the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps, err := setup.SetupDependencies(cfg, prebuilt)
			if err != nil {
				return err
			}
			defer deps.CancelFunc()

			if prebuilt == "" {
				if _, err := deps.BuildStatic(ctx); err != nil {
					return fmt.Errorf("static build failed: %w", err)
				}
			}

			server := &http.Server{
				Addr:         cfg.Public.Server.Addr,
				Handler:      router.SetupRouter(deps),
				ReadTimeout:  cfg.Public.Server.ReadTimeout,
				WriteTimeout: cfg.Public.Server.WriteTimeout,
			}
			return listenAndServe(ctx, server, cfg.Public.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&prebuilt, "prebuilt", "", "serve static pages from a directory written by export")
	return cmd
}

// listenAndServe runs server until ctx is done, then drains in-flight requests.
func listenAndServe(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("starting frontend", "component", "main", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down", "component", "main")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Prerender static pages into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			cfg := loadConfig()

			deps, err := setup.SetupDependencies(cfg, "")
			if err != nil {
				return err
			}
			defer deps.CancelFunc()

			report, err := deps.BuildStatic(cmd.Context())
			if err != nil {
				return fmt.Errorf("static build failed: %w", err)
			}
			if err := static.Export(deps.Pages, out); err != nil {
				return err
			}
			return cli.WriteReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "directory to write the export to")
	return cmd
}
