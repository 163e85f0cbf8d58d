// Package ui provides an optional terminal interface for browsing TODOs.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lut99/todo-collector/internal/collect"
	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/todo"
)

// filterMode selects which TODOs the list shows.
type filterMode int

const (
	filterAll filterMode = iota
	filterOpen
	filterDone
)

// RunTUI scans once and opens an interactive checklist over the results.
func RunTUI(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.scanErr != nil {
		return m.scanErr
	}
	return nil
}

type tuiModel struct {
	cfg       *config.Config
	collector *collect.Collector
	todos     []todo.Todo
	scanErr   error
	filter    filterMode
	cursor    int
	showHelp  bool
}

func newTUIModel(cfg *config.Config, logger *log.Logger) *tuiModel {
	return &tuiModel{
		cfg:       cfg,
		collector: collect.New(cfg, logger),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
			return m, nil
		case "1":
			m.filter = filterOpen
			m.cursor = 0
			return m, nil
		case "2":
			m.filter = filterDone
			m.cursor = 0
			return m, nil
		case "0":
			m.filter = filterAll
			m.cursor = 0
			return m, nil
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TODOs for %s — %s\n\n", m.cfg.Who, m.cfg.Root)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.scanErr != nil {
		b.WriteString("Scan failed:\n")
		b.WriteString("  " + m.scanErr.Error() + "\n")
		writeFooter(&b)
		return b.String()
	}

	visible := m.visible()
	switch m.filter {
	case filterOpen:
		fmt.Fprintf(&b, "Filter: open (%d)  [0 to clear]\n\n", len(visible))
	case filterDone:
		fmt.Fprintf(&b, "Filter: done (%d)  [0 to clear]\n\n", len(visible))
	default:
		open := 0
		for _, td := range m.todos {
			if !td.Done {
				open++
			}
		}
		fmt.Fprintf(&b, "%d todos, %d open\n\n", len(m.todos), open)
	}

	if len(visible) == 0 {
		b.WriteString("  Nothing to show.\n")
	}
	for i, td := range visible {
		mark := " "
		if td.Done {
			mark = "x"
		}
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
		}
		fmt.Fprintf(&b, "%s[%s] %s\n", pointer, mark, td.What)
		if i == m.cursor {
			fmt.Fprintf(&b, "      from %s\n", td.Source)
		}
	}

	writeFooter(&b)
	return b.String()
}

// visible returns the todos matching the active filter.
func (m *tuiModel) visible() []todo.Todo {
	if m.filter == filterAll {
		return m.todos
	}
	wantDone := m.filter == filterDone
	var out []todo.Todo
	for _, td := range m.todos {
		if td.Done == wantDone {
			out = append(out, td)
		}
	}
	return out
}

func (m *tuiModel) refresh() {
	todos, err := m.collector.Run()
	if err != nil {
		m.scanErr = err
		m.todos = nil
		return
	}
	m.scanErr = nil
	m.todos = todos
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	b.WriteString("  up/down, j/k  move\n")
	b.WriteString("  1             show open only\n")
	b.WriteString("  2             show done only\n")
	b.WriteString("  0             show everything\n")
	b.WriteString("  r, f5         rescan\n")
	b.WriteString("  h, ?          toggle this help\n")
	b.WriteString("  q             quit\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("\nq quit · r rescan · 1 open · 2 done · 0 all · ? help\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
