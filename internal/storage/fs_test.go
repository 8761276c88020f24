package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/paperfront/internal/apperr"
)

func tempContent(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempContent(t)
	content := []byte("# [Hello]\nWorld\n")
	if err := s.Write("2401.00001.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("2401.00001.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteTruncatesExisting(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("index.md", []byte("a much longer original body"))
	if err := s.Write("index.md", []byte("short")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("index.md")
	if string(got) != "short" {
		t.Errorf("content = %q, want %q", got, "short")
	}
}

func TestWritePermissions(t *testing.T) {
	s := tempContent(t)
	if err := s.Write("perm.md", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(filepath.Join(s.Root(), "perm.md"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != filePerm {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(filePerm))
	}
}

func TestWriteKeepsExistingMode(t *testing.T) {
	s := tempContent(t)
	path := filepath.Join(s.Root(), "private.md")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("private.md", []byte("y")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0o600))
	}
}

func TestWriteReadOnlyTargetFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permission checks")
	}
	s := tempContent(t)
	path := filepath.Join(s.Root(), "2401.00010.md")
	if err := os.WriteFile(path, []byte("original"), 0o444); err != nil {
		t.Fatal(err)
	}
	if err := s.Write("2401.00010.md", []byte("rewritten")); err == nil {
		t.Fatal("expected error writing a read-only document")
	}
	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("read-only document changed: %q", got)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o444 {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0o444))
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".paperfront-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestList(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))
	if err := os.Mkdir(filepath.Join(s.Root(), "sub.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Root(), "sub.md", "c.md"), []byte("c"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(items), items)
	}
	if items[0] != "a.md" || items[1] != "b.md" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestList_DoesNotReadFiles(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("index.md", []byte("old index"))
	if err := os.Chmod(filepath.Join(s.Root(), "index.md"), 0o200); err != nil {
		t.Fatal(err)
	}
	items, err := s.List()
	if err != nil {
		t.Fatalf("List with a write-only file: %v", err)
	}
	if len(items) != 1 || items[0] != "index.md" {
		t.Errorf("items = %v", items)
	}
}

func TestList_MissingRoot(t *testing.T) {
	s := tempContent(t)
	if err := os.Remove(s.Root()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.List(); err == nil {
		t.Error("expected error listing a removed directory")
	}
}

func TestInvalidNamesBlocked(t *testing.T) {
	s := tempContent(t)

	cases := []string{
		"",
		"..",
		"../outside.md",
		"sub/inner.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempContent(t)
	_ = s.Write("atomic.md", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".paperfront-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFS(f)
	if !errors.Is(err, apperr.ErrNotDirectory) {
		t.Errorf("err = %v, want ErrNotDirectory", err)
	}
}
