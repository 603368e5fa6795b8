package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval is how long Watch waits for a burst of file events to
// settle before reporting it.
const DebounceInterval = 100 * time.Millisecond

// Logger is the subset of echo.Logger used by Watch.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Watch reports changes to post files below dir until ctx is done. Events are
// debounced and onChange receives the changed paths, sorted and deduplicated.
func Watch(ctx context.Context, dir string, log Logger, onChange func(paths []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}
	log.Infof("watching %s for content changes", dir)

	debounce := time.NewTimer(0)
	<-debounce.C

	var mu sync.Mutex
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if isDir(event.Name) {
					if err := addTree(watcher, event.Name); err != nil {
						log.Errorf("watch %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !IsPost(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			mu.Lock()
			pending[event.Name] = struct{}{}
			mu.Unlock()
			debounce.Reset(DebounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("content watcher: %v", err)

		case <-debounce.C:
			mu.Lock()
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			mu.Unlock()

			if len(paths) > 0 {
				sort.Strings(paths)
				onChange(paths)
			}
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
