package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, dir
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, _ := newTestFS(t)
	content := []byte("---\nname: x\n---\nbody\n")
	if err := f.Write("skills/x/SKILL.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := f.Read("skills/x/SKILL.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: %q", got)
	}
	if !f.Exists("skills/x/SKILL.md") {
		t.Error("Exists = false after write")
	}
}

func TestListOnlyMarkdown(t *testing.T) {
	f, dir := newTestFS(t)
	_ = f.Write("a.md", []byte("a"))
	_ = f.Write("sub/b.md", []byte("b"))
	if err := os.WriteFile(filepath.Join(dir, "script.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	metas, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(metas), metas)
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("missing checksum for %s", m.Path)
		}
	}
}

func TestListDirIncludesEverything(t *testing.T) {
	f, _ := newTestFS(t)
	_ = f.Write("skills/x/SKILL.md", []byte("s"))
	_ = f.Write("skills/x/scripts/run.sh", []byte("#!/bin/sh\n"))

	files, err := f.ListDir("skills/x")
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(files), files)
	}
}

func TestSafePathRejectsTraversal(t *testing.T) {
	f, _ := newTestFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("expected traversal rejection")
	}
	if err := f.Write("../../evil.md", []byte("x")); err == nil {
		t.Error("expected traversal rejection on write")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Error("expected absolute path rejection")
	}
}

func TestDeleteAndMove(t *testing.T) {
	f, _ := newTestFS(t)
	_ = f.Write("old.md", []byte("x"))
	if err := f.Move("old.md", "dir/new.md"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if f.Exists("old.md") {
		t.Error("old path still exists after move")
	}
	if err := f.Delete("dir/new.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.Exists("dir/new.md") {
		t.Error("file still exists after delete")
	}
}

func TestNewFSRequiresDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(file); err == nil {
		t.Error("expected error for non-directory root")
	}
	if _, err := NewFS(filepath.Join(file, "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}
