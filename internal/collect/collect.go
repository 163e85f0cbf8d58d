// Package collect drives a scan: discover note files, extract TODOs.
package collect

import (
	"github.com/charmbracelet/log"

	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/discover"
	"github.com/lut99/todo-collector/internal/todo"
)

// Collector runs the scan pipeline. The logger is threaded in explicitly so
// diagnostics need no process-wide state.
type Collector struct {
	cfg    *config.Config
	logger *log.Logger
}

// New creates a Collector for the given config and diagnostic logger.
func New(cfg *config.Config, logger *log.Logger) *Collector {
	return &Collector{cfg: cfg, logger: logger}
}

// Run scans the configured root and returns every TODO assigned to the
// configured person, in discovery order and, within a file, line order.
// The first canonicalization, traversal, or read failure aborts the run.
func (c *Collector) Run() ([]todo.Todo, error) {
	exclude, err := discover.NewExclusionSet(c.cfg.Exclude)
	if err != nil {
		return nil, err
	}

	d := &discover.Discoverer{Extension: c.cfg.Extension, Logger: c.logger}
	files, err := d.Files(c.cfg.Root, exclude)
	if err != nil {
		return nil, err
	}

	var todos []todo.Todo
	for _, file := range files {
		found, err := todo.ExtractFile(file, c.cfg.Who)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("analyzed note file", "path", file, "todos", len(found))
		todos = append(todos, found...)
	}
	return todos, nil
}

// WatchDirs returns the directories a watcher should register to observe
// the scanned tree, honoring the same exclusion semantics as Run.
func (c *Collector) WatchDirs() ([]string, error) {
	exclude, err := discover.NewExclusionSet(c.cfg.Exclude)
	if err != nil {
		return nil, err
	}
	d := &discover.Discoverer{Extension: c.cfg.Extension, Logger: c.logger}
	return d.Dirs(c.cfg.Root, exclude)
}
