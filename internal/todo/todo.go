// Package todo parses checkbox TODO lines out of markdown notes.
package todo

import (
	"fmt"
	"os"
	"strings"
)

// Checkbox markers. A line must open with the prefix, and the checkbox must
// be followed by the opening bracket of the assignee, so the markers carry
// the bracket with them.
const (
	linePrefix  = "- ["
	markDone    = "x] ["
	markPending = " ] ["
)

// Todo is a single task found in a note. It is immutable once constructed.
type Todo struct {
	Done   bool   `json:"done"`
	Who    string `json:"who"`
	What   string `json:"what"`
	Source string `json:"source"`
}

// ReadError reports a note file that could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read note file %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// ParseLine matches a single line against the checkbox grammar:
//
//	- [x] [Name] free text
//	- [ ] [Name] free text
//
// It returns the completion state, the assignee exactly as written between
// the brackets, and the task text with surrounding whitespace trimmed.
// ok is false when the line does not follow the grammar. Anything other
// than the two checkbox markers after "- [" is not a match, even when the
// line contains a closing bracket later on.
func ParseLine(line string) (done bool, who, what string, ok bool) {
	rest, found := strings.CutPrefix(line, linePrefix)
	if !found {
		return false, "", "", false
	}

	switch {
	case strings.HasPrefix(rest, markDone):
		done = true
		rest = rest[len(markDone):]
	case strings.HasPrefix(rest, markPending):
		rest = rest[len(markPending):]
	default:
		return false, "", "", false
	}

	// Assignee runs up to the next closing bracket. No bracket, no TODO.
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return false, "", "", false
	}

	return done, rest[:end], strings.TrimSpace(rest[end+1:]), true
}

// Extract scans content line by line and returns the TODOs assigned to who,
// in the order the lines appear. source is recorded on each Todo as-is.
// The assignee comparison is exact and case-sensitive; lines for anyone
// else are discarded, never stored.
func Extract(content, source, who string) []Todo {
	var todos []Todo
	for _, line := range strings.Split(content, "\n") {
		done, name, what, ok := ParseLine(line)
		if !ok || name != who {
			continue
		}
		todos = append(todos, Todo{
			Done:   done,
			Who:    name,
			What:   what,
			Source: source,
		})
	}
	return todos
}

// ExtractFile reads the note at path and extracts the TODOs assigned to who.
// A file that cannot be read yields a *ReadError wrapping the os error.
func ExtractFile(path, who string) ([]Todo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return Extract(string(data), path, who), nil
}
