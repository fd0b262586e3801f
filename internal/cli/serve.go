package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/ncdprime/internal/compressor"
	"github.com/haskel/ncdprime/internal/monitor"
	"github.com/haskel/ncdprime/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the NCD HTTP API",
	Long: `Serve pair and matrix NCD computations and completion time estimates
over HTTP in foreground mode.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost           string
	servePort           int
	serveSampleInterval time.Duration
	serveStoragePaths   []string
)

const shutdownTimeout = 30 * time.Second

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "listen host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "listen port")
	serveCmd.Flags().DurationVar(&serveSampleInterval, "sample-interval", 5*time.Second, "host snapshot refresh interval")
	serveCmd.Flags().StringSliceVar(&serveStoragePaths, "storage-path", []string{"."}, "paths whose disk usage GET /host reports")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Override host and port if specified via flag
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg)
	log.Info("ncdprime starting",
		"version", Version,
		"config", cfgFile,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sampler := monitor.NewSampler(monitor.Defaults(serveStoragePaths...), serveSampleInterval, log)
	sampler.Start(ctx)
	defer sampler.Stop()

	srv := server.New(cfg, compressor.Default(), sampler, log, Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}

		log.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
	}()

	log.Info("ncdprime ready", "addr", srv.Addr())

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("ncdprime stopped")
	return nil
}
