package discover

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// writeTree creates a small note tree and returns its root.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dirs := []string{"notes", "notes/deep", "drafts"}
	for _, d := range dirs {
		if err := os.Mkdir(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	files := []string{
		"top.md",
		"readme.txt",
		"notes/a.md",
		"notes/deep/b.md",
		"notes/image.png",
		"drafts/c.md",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func sortedFiles(t *testing.T, root string, exclude []string) []string {
	t.Helper()
	set, err := NewExclusionSet(exclude)
	if err != nil {
		t.Fatalf("NewExclusionSet: %v", err)
	}
	d := &Discoverer{}
	files, err := d.Files(root, set)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	sort.Strings(rel)
	return rel
}

func TestFilesOnlyMarkdown(t *testing.T) {
	root := writeTree(t)
	got := sortedFiles(t, root, nil)
	want := []string{"drafts/c.md", "notes/a.md", "notes/deep/b.md", "top.md"}
	if len(got) != len(want) {
		t.Fatalf("files: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilesExcludesDirectorySubtree(t *testing.T) {
	root := writeTree(t)
	got := sortedFiles(t, root, []string{filepath.Join(root, "notes")})
	want := []string{"drafts/c.md", "top.md"}
	if len(got) != len(want) {
		t.Fatalf("files: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFilesExcludesSingleFile(t *testing.T) {
	root := writeTree(t)
	got := sortedFiles(t, root, []string{filepath.Join(root, "notes", "a.md")})
	for _, f := range got {
		if f == "notes/a.md" {
			t.Errorf("excluded file was yielded: %q", f)
		}
	}
	if len(got) != 3 {
		t.Errorf("files: got %d, want 3", len(got))
	}
}

func TestFilesExclusionComparesCanonicalForms(t *testing.T) {
	root := writeTree(t)
	// Exclude via a messy but equivalent path.
	messy := filepath.Join(root, "notes", "..", "notes")
	got := sortedFiles(t, root, []string{messy})
	want := []string{"drafts/c.md", "top.md"}
	if len(got) != len(want) {
		t.Fatalf("files: got %v, want %v", got, want)
	}
}

func TestFilesSymlinkedExclusion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := writeTree(t)
	link := filepath.Join(root, "notes-link")
	if err := os.Symlink(filepath.Join(root, "notes"), link); err != nil {
		t.Skipf("symlink: %v", err)
	}
	// Excluding through the symlink must exclude the real directory too,
	// which also keeps the traversal from visiting the link itself.
	got := sortedFiles(t, root, []string{link})
	want := []string{"drafts/c.md", "top.md"}
	if len(got) != len(want) {
		t.Fatalf("files: got %v, want %v", got, want)
	}
}

func TestFilesRootIsSingleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "only.md")
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d := &Discoverer{}
	files, err := d.Files(path, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("files: got %v, want [%s]", files, path)
	}
}

func TestFilesMissingRootFails(t *testing.T) {
	d := &Discoverer{}
	_, err := d.Files(filepath.Join(t.TempDir(), "nope"), nil)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	var entryErr *EntryTypeError
	if !errors.As(err, &entryErr) {
		t.Fatalf("error type: got %T, want *EntryTypeError", err)
	}
}

func TestFilesBrokenSymlinkFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")); err != nil {
		t.Skipf("symlink: %v", err)
	}
	d := &Discoverer{}
	_, err := d.Files(root, nil)
	if err == nil {
		t.Fatal("expected error for broken symlink")
	}
	var entryErr *EntryTypeError
	if !errors.As(err, &entryErr) {
		t.Fatalf("error type: got %T, want *EntryTypeError", err)
	}
}

func TestFilesCustomExtension(t *testing.T) {
	root := writeTree(t)
	d := &Discoverer{Extension: ".txt"}
	files, err := d.Files(root, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "readme.txt" {
		t.Errorf("files: got %v, want [readme.txt]", files)
	}
}

func TestDirs(t *testing.T) {
	root := writeTree(t)
	set, err := NewExclusionSet([]string{filepath.Join(root, "drafts")})
	if err != nil {
		t.Fatal(err)
	}
	d := &Discoverer{}
	dirs, err := d.Dirs(root, set)
	if err != nil {
		t.Fatalf("Dirs: %v", err)
	}
	rel := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		r, err := filepath.Rel(root, dir)
		if err != nil {
			t.Fatal(err)
		}
		rel[filepath.ToSlash(r)] = true
	}
	for _, want := range []string{".", "notes", "notes/deep"} {
		if !rel[want] {
			t.Errorf("missing dir %q in %v", want, dirs)
		}
	}
	if rel["drafts"] {
		t.Error("excluded dir was returned")
	}
}

func TestNewExclusionSetNonexistentPathAllowed(t *testing.T) {
	// Excluding a path that does not exist is harmless: it keeps its
	// absolute form and simply never matches.
	set, err := NewExclusionSet([]string{filepath.Join(t.TempDir(), "ghost")})
	if err != nil {
		t.Fatalf("NewExclusionSet: %v", err)
	}
	if len(set) != 1 {
		t.Errorf("set size: got %d, want 1", len(set))
	}
}
