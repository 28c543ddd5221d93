package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte(`{"a": 1}`)
	if err := s.Write("api/guide.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("api/guide.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteOverwrites(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("index.html", []byte("original content"))
	if err := s.Write("index.html", []byte("new")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("index.html")
	if string(got) != "new" {
		t.Errorf("expected overwritten content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".guidegen-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestListMarkdown_TopLevelOnly(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("docs/guides/shell.md", []byte("s"))
	_ = s.Write("docs/guides/python.md", []byte("p"))
	_ = s.Write("docs/guides/notes.txt", []byte("not md"))
	_ = s.Write("docs/guides/nested/deep.md", []byte("deep"))
	if err := s.MkdirAll("docs/guides/dir.md"); err != nil {
		t.Fatal(err)
	}

	items, err := s.ListMarkdown("docs/guides")
	if err != nil {
		t.Fatalf("ListMarkdown: %v", err)
	}
	want := []string{"docs/guides/python.md", "docs/guides/shell.md"}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, items[i], want[i])
		}
	}
}

func TestListMarkdown_MissingDir(t *testing.T) {
	s := tempRoot(t)
	items, err := s.ListMarkdown("docs/guides")
	if err != nil {
		t.Fatalf("missing dir should not be an error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}
}

func TestWalk(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("index.html", []byte("x"))
	_ = s.Write("api/guides/languages/python.json", []byte("{}"))
	_ = s.MkdirAll("api/guides/others")

	files, err := s.Walk()
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 2 || files[0] != "api/guides/languages/python.json" || files[1] != "index.html" {
		t.Errorf("files = %v", files)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
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

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "guidegen-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestListMarkdown_FollowsSymlinks(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("shared/sql.md", []byte("# SQL"))
	if err := s.MkdirAll("docs/guides"); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(s.root, "shared", "sql.md")
	if err := os.Symlink(target, filepath.Join(s.root, "docs", "guides", "sql.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(s.root, "missing.md"), filepath.Join(s.root, "docs", "guides", "dangling.md")); err != nil {
		t.Fatal(err)
	}

	items, err := s.ListMarkdown("docs/guides")
	if err != nil {
		t.Fatalf("ListMarkdown: %v", err)
	}
	if len(items) != 1 || items[0] != "docs/guides/sql.md" {
		t.Errorf("items = %v", items)
	}
}
