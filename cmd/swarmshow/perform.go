package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"swarmshow/internal/config"
	"swarmshow/internal/flight"
	"swarmshow/internal/logging"
	"swarmshow/internal/show"
)

var (
	performConfigPath string
	performSchemaPath string
	performStepTime   time.Duration
	performLogFile    string
	performPrintOnly  bool
	performTUI        bool
)

var performCmd = &cobra.Command{
	Use:   "perform",
	Short: "Run a choreography to completion",
	Long:  "perform loads a show configuration, starts one worker per agent, and drives the step clock until the table is exhausted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(performConfigPath, performSchemaPath)
		if err != nil {
			return err
		}

		if performStepTime > 0 {
			cfg.StepTime = performStepTime
		}
		if envStep := os.Getenv("STEP_TIME"); envStep != "" {
			d, err := time.ParseDuration(envStep)
			if err != nil {
				return err
			}
			cfg.StepTime = d
		}

		logger := logging.New()
		writer, cleanup, err := newWriters(cfg, performPrintOnly, performLogFile, performTUI, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		commanders := make([]flight.Commander, len(cfg.Agents))
		for i, a := range cfg.Agents {
			commanders[i] = flight.NewSimCommander(a.URI, logger)
		}
		sched, err := show.New(cfg, commanders, writer)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logger))
		defer cancel()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		if err := sched.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("show interrupted")
				return nil
			}
			return err
		}
		return nil
	},
}

func init() {
	performCmd.Flags().StringVar(&performConfigPath, "config", "config/show.yaml", "Path to show configuration YAML")
	performCmd.Flags().StringVar(&performSchemaPath, "schema", "schemas/show.cue", "Path to CUE schema file")
	performCmd.Flags().DurationVar(&performStepTime, "step-time", 0, "Override the configured step interval (e.g. 500ms, 2s)")
	performCmd.Flags().StringVar(&performLogFile, "log-file", "", "Path to export show events (JSONL)")
	performCmd.Flags().BoolVar(&performPrintOnly, "print-only", false, "Print events to STDOUT instead of writing to DB")
	performCmd.Flags().BoolVar(&performTUI, "tui", false, "Render a live fleet view instead of raw event output")
}
