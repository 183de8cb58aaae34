package client

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig starts an fsnotify watcher on the config file and sends
// each successfully reloaded Config on updates. Only display-safe
// settings should be applied live; the loop decides which. Watcher
// failures are warnings, never fatal.
func WatchConfig(path string, updates chan<- Config) {
	if path == "" {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WARNING: could not start config watcher: %v", err)
		return
	}

	// Watch the directory: editors often replace the file, which
	// would drop a watch on the file itself
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		log.Printf("WARNING: could not watch %s: %v", dir, err)
		watcher.Close()
		return
	}
	name := filepath.Base(path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Printf("config reload error: %v", err)
					continue
				}
				log.Printf("config reloaded from %s", path)
				updates <- cfg

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher error: %v", err)
			}
		}
	}()
}
