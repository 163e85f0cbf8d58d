// Package cmd implements the CLI command structure for todo-collector.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/logging"
	"github.com/lut99/todo-collector/internal/ui"
	"github.com/lut99/todo-collector/internal/watch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todo-collector CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo-collector", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.Debug)

	// Determine the subcommand. A bare path (or nothing) means "scan".
	subcommand := "scan"
	remaining := fs.Args()
	if len(remaining) > 0 && isSubcommand(remaining[0]) {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "scan":
		return scanCommand(cfg, logger, remaining)
	case "tui":
		if err := takeRoot(cfg, remaining); err != nil {
			return err
		}
		return ui.RunTUI(ctx, cfg, logger)
	case "watch":
		if err := takeRoot(cfg, remaining); err != nil {
			return err
		}
		logger.Info("watching for changes", "path", cfg.Root, "who", cfg.Who)
		return watch.Run(ctx, cfg, logger, os.Stdout)
	case "doctor":
		return doctorCommand(cfg, remaining)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// isSubcommand distinguishes a subcommand word from a bare scan path.
func isSubcommand(arg string) bool {
	switch arg {
	case "scan", "tui", "watch", "doctor", "version", "help":
		return true
	}
	return false
}

// takeRoot consumes the positional PATH argument into the config.
func takeRoot(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if cfg.Root == "" {
		return fmt.Errorf("no scan path given")
	}
	if cfg.Who == "" {
		return fmt.Errorf("no assignee given (use -w/--who)")
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todo-collector version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo-collector - Collect checkbox TODOs from markdown notes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo-collector [command] [options] PATH")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  scan PATH     Scan the tree and write the report (default command)")
	fmt.Fprintln(w, "  tui PATH      Browse the collected TODOs in a terminal UI")
	fmt.Fprintln(w, "  watch PATH    Rescan and reprint the report on changes")
	fmt.Fprintln(w, "  doctor [PATH] Check paths, output destination, and report schema")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TODO lines look like:")
	fmt.Fprintln(w, "  - [ ] [Alice] Water the plants")
	fmt.Fprintln(w, "  - [x] [Alice] Buy milk")
}
