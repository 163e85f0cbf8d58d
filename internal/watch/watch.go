// Package watch re-runs a scan when the note tree changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/lut99/todo-collector/internal/collect"
	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/report"
)

// debounce batches bursts of filesystem events into one rescan.
const debounce = 300 * time.Millisecond

// Run scans once, prints the report to w, and then keeps watching the tree,
// reprinting a fresh report after each batch of relevant changes. It blocks
// until ctx is cancelled or a scan fails. Each rescan is a full scan; the
// watcher only decides when to run it.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger, w io.Writer) error {
	collector := collect.New(cfg, logger)
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	rescan := func() error {
		todos, err := collector.Run()
		if err != nil {
			return err
		}
		return report.Write(w, format, report.Filter(todos, cfg.SkipDone), report.StdoutPath)
	}

	if err := rescan(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, collector, logger); err != nil {
		return err
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, cfg.Extension) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-fire:
			timer = nil
			fire = nil
			if err := rescan(); err != nil {
				return err
			}
			// Directories may have appeared; re-register the tree.
			if err := addDirs(watcher, collector, logger); err != nil {
				return err
			}
		}
	}
}

// addDirs registers the scanned tree's directories with the watcher.
// Already-registered directories are fine to add again.
func addDirs(watcher *fsnotify.Watcher, collector *collect.Collector, logger *log.Logger) error {
	dirs, err := collector.WatchDirs()
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %q: %w", dir, err)
		}
		logger.Debug("watching directory", "path", dir)
	}
	return nil
}

// relevant reports whether an event should trigger a rescan: anything
// touching a note file, plus creations and removals that can change the
// directory structure.
func relevant(event fsnotify.Event, extension string) bool {
	if extension == "" {
		extension = config.DefaultExtension
	}
	if strings.HasSuffix(event.Name, extension) {
		return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
	}
	// Non-note paths matter only when the tree shape changes.
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
