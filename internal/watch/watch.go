// Package watch reruns a build whenever its inputs change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Target is a directory to watch and a filter over the base names of
// changed entries inside it.
type Target struct {
	Dir   string
	Match func(name string) bool
}

// BuildFunc performs one full rebuild.
type BuildFunc func(ctx context.Context) error

// Run watches targets and calls build after each burst of relevant events,
// once debounce has elapsed without further events. It returns when ctx is
// cancelled. Build errors are logged and do not stop the loop.
//
// A target directory that does not exist yet is picked up when it is
// created: its nearest existing ancestor is watched until then, and a
// rebuild is scheduled once the directory appears.
func Run(ctx context.Context, targets []Target, debounce time.Duration, logger *slog.Logger, build BuildFunc) error {
	if len(targets) == 0 {
		return fmt.Errorf("watch: no targets")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	s := &state{
		w:       w,
		logger:  logger,
		byDir:   make(map[string][]Target, len(targets)),
		pending: make(map[string][]Target),
	}
	for _, t := range targets {
		dir := filepath.Clean(t.Dir)
		if _, ok := s.byDir[dir]; ok {
			s.byDir[dir] = append(s.byDir[dir], t)
			continue
		}
		s.pending[dir] = append(s.pending[dir], t)
	}
	s.attach()
	if len(s.byDir) == 0 && len(s.parents) == 0 {
		return fmt.Errorf("watch: no directories could be watched")
	}

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			logger.Info("watch: rebuilding")
			if err := build(ctx); err != nil {
				logger.Error("watch: rebuild failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(ev.Name)
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				if ts, ok := s.byDir[name]; ok {
					logger.Warn("watch: dir removed", slog.String("dir", name))
					delete(s.byDir, name)
					s.pending[name] = ts
					s.attach()
					schedule()
					continue
				}
				if s.parents[name] {
					delete(s.parents, name)
					s.attach()
				}
			}
			if ev.Has(fsnotify.Create) && len(s.pending) > 0 {
				if s.attach() {
					schedule()
					continue
				}
			}
			if !relevant(s.byDir[filepath.Dir(name)], filepath.Base(name)) {
				continue
			}
			logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: watcher error", slog.String("error", err.Error()))
		}
	}
}

type state struct {
	w      *fsnotify.Watcher
	logger *slog.Logger
	// byDir holds the targets of every directory being watched.
	byDir map[string][]Target
	// pending holds the targets of directories that do not exist yet.
	pending map[string][]Target
	// parents are ancestors watched on behalf of pending directories.
	parents map[string]bool
}

// attach adds every pending directory that now exists and watches the
// nearest existing ancestor of the rest. It reports whether any pending
// directory was attached.
func (s *state) attach() bool {
	attached := false
	for dir, ts := range s.pending {
		// Retry after each new ancestor watch: the directory may have been
		// created before the ancestor was being watched.
		for {
			if err := s.w.Add(dir); err == nil {
				s.logger.Info("watch: watching", slog.String("dir", dir))
				s.byDir[dir] = append(s.byDir[dir], ts...)
				delete(s.pending, dir)
				attached = true
				break
			}
			parent := existingAncestor(dir)
			if parent == "" || s.parents[parent] {
				break
			}
			if err := s.w.Add(parent); err != nil {
				s.logger.Warn("watch: skip dir", slog.String("dir", dir), slog.String("error", err.Error()))
				break
			}
			if s.parents == nil {
				s.parents = make(map[string]bool)
			}
			s.parents[parent] = true
			s.logger.Info("watch: waiting for dir", slog.String("dir", dir), slog.String("parent", parent))
		}
	}
	return attached
}

func existingAncestor(dir string) string {
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		if info, err := os.Stat(parent); err == nil && info.IsDir() {
			return parent
		}
		dir = parent
	}
}

func relevant(targets []Target, name string) bool {
	for _, t := range targets {
		if t.Match == nil || t.Match(name) {
			return true
		}
	}
	return false
}
