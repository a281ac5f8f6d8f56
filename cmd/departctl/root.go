package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/departwise/departwise/internal/app"
	"github.com/departwise/departwise/internal/config"
	"github.com/departwise/departwise/internal/planner"
	"github.com/departwise/departwise/internal/telemetry"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configFile string
	logLevel   string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "departctl",
		Short:        "Traffic-aware departure planning from the command line",
		Long:         `departctl geocodes places, scans departure windows against predicted traffic, scores late-arrival risk and summarizes destination weather.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml or ./configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "overall deadline for the command")

	root.AddCommand(
		newRouteCmd(opts),
		newBestCmd(opts),
		newPlanCmd(opts),
		newRiskCmd(opts),
		newWeatherCmd(opts),
	)
	return root
}

// run loads configuration, wires the planner and calls fn with a deadline.
// A planner failure is reported by its reason alone.
func run(cmd *cobra.Command, opts *options, fn func(ctx context.Context, svc *planner.Service) (any, error)) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(app.ParseLevel(level)).
		With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg.Telemetry, "departctl", "dev"))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	services, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := fn(ctx, services.Planner)
	if err != nil {
		var pErr *planner.Error
		if errors.As(err, &pErr) {
			logger.Debug().Err(err).Str("code", pErr.Code).Msg("planning failed")
			return errors.New(pErr.Reason)
		}
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
