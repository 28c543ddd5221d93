package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatch(t *testing.T, targets []Target) <-chan struct{} {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	builds := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Run(ctx, targets, 50*time.Millisecond, testLogger(), func(context.Context) error {
			builds <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	// Give the watcher time to register.
	time.Sleep(50 * time.Millisecond)
	return builds
}

func TestRun_RebuildsOnMatchingChange(t *testing.T) {
	dir := t.TempDir()
	builds := startWatch(t, []Target{{Dir: dir, Match: func(n string) bool { return strings.HasSuffix(n, ".md") }}})

	if err := os.WriteFile(filepath.Join(dir, "python.md"), []byte("# Python"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}
}

func TestRun_IgnoresNonMatchingChange(t *testing.T) {
	dir := t.TempDir()
	builds := startWatch(t, []Target{{Dir: dir, Match: func(n string) bool { return n == "README.md" }}})

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-builds:
		t.Fatal("unexpected rebuild for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRun_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	builds := startWatch(t, []Target{{Dir: dir}})

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "f"+string(rune('a'+i))+".md")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}
	select {
	case <-builds:
		t.Fatal("burst should collapse into one rebuild")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRun_NoTargets(t *testing.T) {
	err := Run(context.Background(), nil, time.Second, testLogger(), func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error when there is nothing to watch")
	}
}

func TestRun_PicksUpDirCreatedLater(t *testing.T) {
	root := t.TempDir()
	guides := filepath.Join(root, "docs", "guides")
	builds := startWatch(t, []Target{{Dir: guides, Match: func(n string) bool { return strings.HasSuffix(n, ".md") }}})

	if err := os.MkdirAll(guides, 0o755); err != nil {
		t.Fatal(err)
	}
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for rebuild after dir creation")
	}

	if err := os.WriteFile(filepath.Join(guides, "python.md"), []byte("# Python"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for rebuild after guide write")
	}
}

func TestRun_SharedDirTargets(t *testing.T) {
	dir := t.TempDir()
	builds := startWatch(t, []Target{
		{Dir: dir, Match: func(n string) bool { return n == "README.md" }},
		{Dir: dir, Match: func(n string) bool { return n == "manifest.template.json" }},
	})

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Root"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}
}
