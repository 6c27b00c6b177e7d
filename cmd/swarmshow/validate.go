package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swarmshow/internal/config"
)

var (
	validateConfigPath string
	validateSchemaPath string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a show configuration",
	Long:  "validate loads a show configuration, checks it against the CUE schema and the table invariants, and prints a summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfigPath, validateSchemaPath)
		if err != nil {
			return err
		}

		nominal := time.Duration(cfg.LastStep()+1) * cfg.StepTime
		fmt.Printf("show:      %s\n", cfg.Name)
		fmt.Printf("agents:    %d\n", len(cfg.Agents))
		fmt.Printf("entries:   %d\n", len(cfg.Sequence))
		fmt.Printf("last step: %d\n", cfg.LastStep())
		fmt.Printf("step time: %s (nominal clock run %s)\n", cfg.StepTime, nominal)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "config/show.yaml", "Path to show configuration YAML")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "schemas/show.cue", "Path to CUE schema file")
}
