package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/guidegen/internal/apperr"
)

func TestCommand_WrongArgCount(t *testing.T) {
	for _, args := range [][]string{
		{"guidegen"},
		{"guidegen", "README.md"},
		{"guidegen", "README.md", "out", "extra"},
		{"guidegen", "watch", "README.md"},
	} {
		err := newCommand().Run(context.Background(), args)
		if !errors.Is(err, apperr.ErrUsage) {
			t.Errorf("args %v: err = %v, want ErrUsage", args, err)
		}
	}
}

func TestCommand_InvalidConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "guidegen.yaml")
	if err := os.WriteFile(cfg, []byte("guide:\n  source_url: \"not a url\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := newCommand().Run(context.Background(), []string{"guidegen", "--config", cfg, "README.md", "out"})
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestCommand_MissingMarker(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "README.md")
	if err := os.WriteFile(root, []byte("# No marker here\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := newCommand().Run(context.Background(), []string{"guidegen", "--config", "", root, filepath.Join(dir, "out")})
	if !errors.Is(err, apperr.ErrMarkerNotFound) {
		t.Fatalf("err = %v, want ErrMarkerNotFound", err)
	}
}
