package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swarmshow/internal/logging"
	"swarmshow/internal/showlog"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded show event log",
	Long:  "replay feeds event rows from a JSONL log back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		var writer showlog.EventWriter = &showlog.StdoutWriter{}
		if !replayPrintOnly {
			if w, err := greptimeFromEnv(logging.New()); err != nil {
				return err
			} else if w != nil {
				writer = w
			}
		}
		return showlog.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to show event log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print events to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
