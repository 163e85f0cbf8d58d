// Package discover walks a note tree and finds candidate markdown files.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultExtension is the file extension considered a note.
const DefaultExtension = ".md"

// ResolveError reports a path that could not be canonicalized.
type ResolveError struct {
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("canonicalize %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ListError reports a directory whose children could not be enumerated.
type ListError struct {
	Path string
	Err  error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("list directory %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ListError) Unwrap() error {
	return e.Err
}

// EntryTypeError reports a traversed path that is neither a regular file
// nor a directory (broken symlink, device node, socket).
type EntryTypeError struct {
	Path string
	Err  error
}

func (e *EntryTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inspect %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("path %q is neither a file nor a directory", e.Path)
}

// Unwrap returns the underlying error, if any.
func (e *EntryTypeError) Unwrap() error {
	return e.Err
}

// Canonicalize returns the absolute, symlink-resolved form of path. Paths
// that do not exist keep their absolute form so they can still be compared
// against the exclusion set.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// ExclusionSet holds canonicalized paths excluded from traversal.
// Membership is an exact match on the canonical form; an excluded directory
// is never descended into.
type ExclusionSet map[string]struct{}

// NewExclusionSet canonicalizes the given paths into an ExclusionSet.
// A path that fails to canonicalize is fatal.
func NewExclusionSet(paths []string) (ExclusionSet, error) {
	set := make(ExclusionSet, len(paths))
	for _, p := range paths {
		canon, err := Canonicalize(p)
		if err != nil {
			return nil, &ResolveError{Path: p, Err: err}
		}
		set[canon] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the canonical path is excluded.
func (s ExclusionSet) Contains(canon string) bool {
	_, ok := s[canon]
	return ok
}

// Discoverer finds note files under a root path.
type Discoverer struct {
	// Extension is the file suffix that marks a note. Empty means
	// DefaultExtension.
	Extension string
	// Logger receives traversal diagnostics. Nil disables them.
	Logger *log.Logger
}

func (d *Discoverer) extension() string {
	if d.Extension == "" {
		return DefaultExtension
	}
	return d.Extension
}

func (d *Discoverer) debugf(msg string, kv ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, kv...)
	}
}

// Files walks root with an explicit work list and returns every regular
// file whose name ends in the note extension, excluding any entry whose
// canonical form is in exclude. Traversal order follows the stack and is
// not sorted. Any canonicalization, listing, or entry-type failure aborts
// the whole traversal.
func (d *Discoverer) Files(root string, exclude ExclusionSet) ([]string, error) {
	var files []string
	stack := []string{root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		skip, err := d.skipExcluded(p, exclude)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, &EntryTypeError{Path: p, Err: err}
		}
		switch {
		case info.Mode().IsRegular():
			d.debugf("considering candidate note file", "path", p)
			if strings.HasSuffix(p, d.extension()) {
				files = append(files, p)
			}
		case info.IsDir():
			d.debugf("descending into directory", "path", p)
			children, err := os.ReadDir(p)
			if err != nil {
				return nil, &ListError{Path: p, Err: err}
			}
			for _, child := range children {
				stack = append(stack, filepath.Join(p, child.Name()))
			}
		default:
			return nil, &EntryTypeError{Path: p}
		}
	}
	return files, nil
}

// Dirs walks root the same way Files does but returns the directories it
// descends into, root included. The watch mode uses this to register
// filesystem watches with the exact exclusion semantics of a scan.
func (d *Discoverer) Dirs(root string, exclude ExclusionSet) ([]string, error) {
	var dirs []string
	stack := []string{root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		skip, err := d.skipExcluded(p, exclude)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, &EntryTypeError{Path: p, Err: err}
		}
		if !info.IsDir() {
			continue
		}
		dirs = append(dirs, p)
		children, err := os.ReadDir(p)
		if err != nil {
			return nil, &ListError{Path: p, Err: err}
		}
		for _, child := range children {
			stack = append(stack, filepath.Join(p, child.Name()))
		}
	}
	return dirs, nil
}

func (d *Discoverer) skipExcluded(p string, exclude ExclusionSet) (bool, error) {
	canon, err := Canonicalize(p)
	if err != nil {
		return false, &ResolveError{Path: p, Err: err}
	}
	if exclude.Contains(canon) {
		d.debugf("excluding", "path", p)
		return true, nil
	}
	return false, nil
}
