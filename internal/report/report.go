// Package report serializes collected TODOs to an output sink.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lut99/todo-collector/internal/todo"
)

// Format selects the report serialization.
type Format string

const (
	// FormatText is the default line-per-todo report.
	FormatText Format = "text"
	// FormatJSON is the machine-readable report (see Schema).
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown report format %q (expected text or json)", s)
	}
}

// StdoutPath is the sentinel output path meaning standard output.
const StdoutPath = "-"

// OpenError reports a destination file that could not be created.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %q for writing: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpenError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed write to the destination.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	dest := e.Path
	if dest == StdoutPath {
		dest = "stdout"
	}
	return fmt.Sprintf("write to %q: %v", dest, e.Err)
}

// Unwrap returns the underlying error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Sink opens the report destination. The "-" sentinel returns stdout, which
// Close leaves open; anything else is created fresh, truncating an existing
// file. The caller closes the sink exactly once at the end of the run.
func Sink(path string) (io.WriteCloser, error) {
	if path == StdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}

// Filter returns todos with completed entries dropped when skipDone is set.
// Order is preserved; with skipDone unset the input is returned as-is.
func Filter(todos []todo.Todo, skipDone bool) []todo.Todo {
	if !skipDone {
		return todos
	}
	kept := make([]todo.Todo, 0, len(todos))
	for _, td := range todos {
		if td.Done {
			continue
		}
		kept = append(kept, td)
	}
	return kept
}

// WriteText writes one report line per todo:
//
//	- [x] [WHO] WHAT (SOURCE)
//	- [ ] [WHO] WHAT (SOURCE)
//
// path is only used to label write failures.
func WriteText(w io.Writer, todos []todo.Todo, path string) error {
	for _, td := range todos {
		mark := " "
		if td.Done {
			mark = "x"
		}
		if _, err := fmt.Fprintf(w, "- [%s] [%s] %s (%s)\n", mark, td.Who, td.What, td.Source); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	return nil
}

// Document is the JSON report layout described by Schema.
type Document struct {
	Todos []todo.Todo `json:"todos"`
}

// WriteJSON writes the report as an indented JSON document with a trailing
// newline. An empty report still serializes an empty todos array.
func WriteJSON(w io.Writer, todos []todo.Todo, path string) error {
	doc := Document{Todos: todos}
	if doc.Todos == nil {
		doc.Todos = []todo.Todo{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Write serializes todos to w in the given format.
func Write(w io.Writer, format Format, todos []todo.Todo, path string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, todos, path)
	default:
		return WriteText(w, todos, path)
	}
}
