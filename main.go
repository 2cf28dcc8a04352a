package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/srana86/framex-courier/internal/server"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "framex-courier",
	Short:   "FrameX Courier Bridge - unified shipment API over Bangladeshi delivery carriers",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE:  runServe,
}

var trackCmd = &cobra.Command{
	Use:   "track <carrier> <consignment-id>",
	Short: "Query a single shipment status and print the result as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  runTrack,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trackCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	registry := initCourierRegistry(cfg, logger)

	logger.Info("Starting FrameX Courier Bridge",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("carriers", registry.Names()),
	)

	srv := server.New(server.Config{Port: cfg.Port}, registry, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	carrier, consignmentID := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger("error")
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := initCourierRegistry(cfg, logger)

	result, err := registry.GetStatus(ctx, carrier, consignmentID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
