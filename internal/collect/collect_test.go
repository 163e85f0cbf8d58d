package collect

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lut99/todo-collector/internal/config"
	"github.com/lut99/todo-collector/internal/discover"
	"github.com/lut99/todo-collector/internal/todo"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRunCollectsAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "- [x] [Sam] Task1\n")
	writeFile(t, filepath.Join(root, "b.md"), "- [ ] [Sam] Task2\n")

	cfg := &config.Config{Who: "Sam", Root: root}
	todos, err := New(cfg, quietLogger()).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(todos) != 2 {
		t.Fatalf("todos: got %d, want 2", len(todos))
	}

	byWhat := make(map[string]todo.Todo, len(todos))
	for _, td := range todos {
		byWhat[td.What] = td
	}
	t1, ok := byWhat["Task1"]
	if !ok || !t1.Done || filepath.Base(t1.Source) != "a.md" {
		t.Errorf("Task1: got %+v", t1)
	}
	t2, ok := byWhat["Task2"]
	if !ok || t2.Done || filepath.Base(t2.Source) != "b.md" {
		t.Errorf("Task2: got %+v", t2)
	}
}

func TestRunRespectsExclusions(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "archive")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "a.md"), "- [ ] [Sam] keep\n")
	writeFile(t, filepath.Join(sub, "old.md"), "- [ ] [Sam] drop\n")

	cfg := &config.Config{Who: "Sam", Root: root, Exclude: []string{sub}}
	todos, err := New(cfg, quietLogger()).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(todos) != 1 || todos[0].What != "keep" {
		t.Errorf("todos: got %+v, want just the kept one", todos)
	}
}

func TestRunFiltersOtherAssignees(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"),
		"- [ ] [Alice] hers\n- [ ] [Sam] his\n- [x] [Bob] other\n")

	cfg := &config.Config{Who: "Sam", Root: root}
	todos, err := New(cfg, quietLogger()).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("todos: got %d, want 1", len(todos))
	}
	if todos[0].Who != "Sam" {
		t.Errorf("Who: got %q, want Sam", todos[0].Who)
	}
}

func TestRunTwiceIsDeterministic(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "notes")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "a.md"), "- [ ] [Sam] one\n- [x] [Sam] two\n")
	writeFile(t, filepath.Join(sub, "b.md"), "- [ ] [Sam] three\n")

	cfg := &config.Config{Who: "Sam", Root: root}
	first, err := New(cfg, quietLogger()).Run()
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(cfg, quietLogger()).Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunMissingRootFails(t *testing.T) {
	cfg := &config.Config{Who: "Sam", Root: filepath.Join(t.TempDir(), "nope")}
	_, err := New(cfg, quietLogger()).Run()
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	var entryErr *discover.EntryTypeError
	if !errors.As(err, &entryErr) {
		t.Errorf("error type: got %T, want *EntryTypeError", err)
	}
}

func TestRunUnreadableFileFails(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := t.TempDir()
	path := filepath.Join(root, "locked.md")
	writeFile(t, path, "- [ ] [Sam] secret\n")
	if err := os.Chmod(path, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(path, 0644) })

	cfg := &config.Config{Who: "Sam", Root: root}
	_, err := New(cfg, quietLogger()).Run()
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	var readErr *todo.ReadError
	if !errors.As(err, &readErr) {
		t.Errorf("error type: got %T, want *ReadError", err)
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "notes")
	skipped := filepath.Join(root, "skipped")
	for _, d := range []string{sub, skipped} {
		if err := os.Mkdir(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{Who: "Sam", Root: root, Exclude: []string{skipped}}
	dirs, err := New(cfg, quietLogger()).WatchDirs()
	if err != nil {
		t.Fatalf("WatchDirs: %v", err)
	}
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		seen[d] = true
	}
	if !seen[root] || !seen[sub] {
		t.Errorf("dirs: got %v, want root and sub", dirs)
	}
	if seen[skipped] {
		t.Error("excluded dir registered for watching")
	}
}
