package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lut99/todo-collector/internal/collect"
	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/report"
)

// scanCommand runs one scan and serializes the report to the configured
// sink. Every failure along the way is fatal; the report file, when one is
// used, is closed exactly once.
func scanCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if err := takeRoot(cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	logger.Debug("starting scan",
		"path", cfg.Root,
		"output", cfg.Output,
		"exclude", cfg.Exclude,
		"who", cfg.Who,
		"skip_done", cfg.SkipDone,
	)

	todos, err := collect.New(cfg, logger).Run()
	if err != nil {
		return err
	}
	kept := report.Filter(todos, cfg.SkipDone)
	logger.Debug("scan finished", "found", len(todos), "reported", len(kept))

	sink, err := report.Sink(cfg.Output)
	if err != nil {
		return err
	}
	if err := report.Write(sink, format, kept, cfg.Output); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("close %q: %w", cfg.Output, err)
	}
	return nil
}
