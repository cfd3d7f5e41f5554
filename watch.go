package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"inkwell/site"
)

// watchDebounce is how long to wait after an edit before reloading, so a
// burst of saves triggers one reload.
const watchDebounce = 500 * time.Millisecond

// watchTemplates reloads the site's templates when files in the template
// folder change. It returns if the folder doesn't exist or the watcher
// cannot be created.
func watchTemplates(vfs *site.FS, root string) {
	dir := filepath.Join(root, "template")
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Printf("No %q folder; not watching templates", dir)
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Cannot create template watcher: %s", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		log.Printf("Cannot watch %q: %s", dir, err)
		return
	}
	log.Printf("Watching %q for template changes", dir)

	var reloadTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if reloadTimer != nil {
					reloadTimer.Stop()
				}
				reloadTimer = time.AfterFunc(watchDebounce, func() {
					if err := vfs.Reload(); err != nil {
						log.Printf("Template reload: %s", err)
					} else {
						log.Print("Templates reloaded")
					}
				})
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Template watcher: %s", err)
		}
	}
}
