package templates

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the delay during which file events are coalesced.
var WatchDebounce = 100 * time.Millisecond

// Watch clears the cache entries of the templates modified under dir until
// ctx is done. onChange, when not nil, is called with the cleared ids after
// each debounced batch of events. Ids are paths relative to dir, which is what
// an FSLoader over os.DirFS(dir) expects.
func Watch(ctx context.Context, dir string, c *Cache, onChange func(ids []string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var timer *time.Timer
	pending := make(map[string]struct{})

	flush := func() {
		mu.Lock()
		ids := make([]string, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		pending = make(map[string]struct{})
		timer = nil
		mu.Unlock()

		if len(ids) == 0 {
			return
		}
		c.Clear(ids...)
		if onChange != nil {
			onChange(ids)
		}
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watcher.Add(event.Name)
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			id, ok := TemplateID(dir, event.Name)
			if !ok {
				continue
			}
			mu.Lock()
			pending[id] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDebounce, flush)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("templates: watch error:", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// TemplateID maps a file path under dir to its cache id.
func TemplateID(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
