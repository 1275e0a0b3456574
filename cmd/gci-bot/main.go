// Package main is the entry point for the GCI bot.
//
// The bot joins a SimpleRadio-Standalone server as an external AWACS,
// follows the live air picture from a Tacview real-time telemetry export,
// and answers radio calls (radio checks, bogey dope requests) with
// synthesized speech.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pbzweihander/magic-gci-bot/pkg/airspace"
	"github.com/pbzweihander/magic-gci-bot/pkg/config"
	"github.com/pbzweihander/magic-gci-bot/pkg/gci"
	"github.com/pbzweihander/magic-gci-bot/pkg/queue"
	"github.com/pbzweihander/magic-gci-bot/pkg/recognition"
	"github.com/pbzweihander/magic-gci-bot/pkg/speech"
	"github.com/pbzweihander/magic-gci-bot/pkg/srs"
	"github.com/pbzweihander/magic-gci-bot/pkg/tacview"
	"github.com/pbzweihander/magic-gci-bot/pkg/transmission"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "gci-bot",
	Short:        "Virtual GCI controller for DCS, speaking over SimpleRadio-Standalone",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger := slog.Default()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	logger.Info("connecting to Tacview telemetry", "address", cfg.Tacview.Address())
	telemetry, err := tacview.Connect(ctx, cfg.Tacview.Address(), cfg.Tacview.Username, cfg.Tacview.Password)
	if err != nil {
		return fmt.Errorf("connect to Tacview telemetry: %w", err)
	}
	defer telemetry.Close()

	logger.Info("connecting to SRS server", "address", cfg.SRS.Address())
	radio, err := srs.Connect(ctx, logger.With("loop", "srs"), srs.ClientConfig{
		Address:   cfg.SRS.Address(),
		Name:      cfg.SRS.Username,
		Coalition: cfg.Common.Coalition.SRSID(),
		Frequency: float64(cfg.SRS.Frequency),
	})
	if err != nil {
		return fmt.Errorf("connect to SRS server: %w", err)
	}
	defer radio.Close()

	decoder, err := recognition.NewDecoder()
	if err != nil {
		return fmt.Errorf("initialize Opus decoder: %w", err)
	}

	ai := speech.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.SpeechVoice, cfg.OpenAI.SpeechSpeed)

	state := airspace.NewState()
	recognized := queue.New[speech.IncomingTransmission]()
	outgoing := queue.New[transmission.OutgoingTransmission]()

	ctrl := gci.Controller{
		Callsign:          cfg.Common.Callsign,
		Coalition:         cfg.Common.Coalition.TacviewName(),
		OpposingCoalition: cfg.Common.Coalition.Flip().TacviewName(),
	}
	recognizer := recognition.New(logger.With("loop", "recognition"), cfg.Common.Callsign, decoder, ai, state)

	// Closing the connections is what unblocks the loops' reads on
	// shutdown; the queues then close down the pipeline in order.
	go func() {
		<-ctx.Done()
		telemetry.Close()
		radio.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		radio.RunControl(ctx)
	}()
	go func() {
		defer wg.Done()
		radio.RunVoice(ctx)
	}()
	go func() {
		defer wg.Done()
		airspace.Loop(logger.With("loop", "airspace"), telemetry, state)
	}()
	go func() {
		defer wg.Done()
		defer recognized.CloseWrite()
		recognizer.Loop(ctx, radio.Received(), recognized)
	}()
	go func() {
		defer wg.Done()
		defer outgoing.CloseWrite()
		gci.Loop(logger.With("loop", "gci"), ctrl, state, recognized, outgoing)
	}()
	go func() {
		defer wg.Done()
		transmission.Loop(ctx, logger.With("loop", "transmission"), ai, radio, outgoing)
	}()

	logger.Info("GCI bot on station", "callsign", cfg.Common.Callsign, "coalition", cfg.Common.Coalition)
	wg.Wait()
	return nil
}
