package main

import (
	"log/slog"
	"os"

	"swarmshow/internal/config"
	"swarmshow/internal/showlog"
)

// newWriters sets up the event writer chain based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(cfg *config.Show, printOnly bool, logFile string, tui bool, logger *slog.Logger) (showlog.EventWriter, func(), error) {
	cleanup := func() {}

	var writer showlog.EventWriter
	switch {
	case tui:
		agents := make([]showlog.AgentInfo, len(cfg.Agents))
		for i, a := range cfg.Agents {
			agents[i] = showlog.AgentInfo{Index: i, URI: a.URI}
		}
		tw := showlog.NewTUIWriter(cfg.Name, agents)
		writer = tw
		cleanup = func() { tw.Close() }
	case !printOnly && os.Getenv("GREPTIMEDB_ENDPOINT") != "":
		w, err := greptimeFromEnv(logger)
		if err != nil {
			return nil, nil, err
		}
		writer = w
	default:
		writer = &showlog.StdoutWriter{}
	}

	if logFile == "" {
		return writer, cleanup, nil
	}

	fw, err := showlog.NewFileWriter(logFile)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	base := cleanup
	cleanup = func() {
		fw.Close()
		base()
	}
	return showlog.NewMultiWriter(writer, fw), cleanup, nil
}

// greptimeFromEnv builds a GreptimeDB writer from GREPTIMEDB_ENDPOINT,
// or returns nil when the endpoint is not configured.
func greptimeFromEnv(logger *slog.Logger) (showlog.EventWriter, error) {
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	return showlog.NewGreptimeDBWriter(endpoint, database, logger)
}
