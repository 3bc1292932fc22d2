package main

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"

	ai "scraphunt/server/internal/ai"
)

const profileReloadDebounce = 250 * time.Millisecond

// watchProfiles reloads the behavior profile library whenever a JSON file
// in dir changes. Reloads are debounced and staged on the hub, so a swap
// only takes effect between ticks and a half-written file never replaces
// a working library.
func watchProfiles(dir string, hub *Hub) (*fsnotify.Watcher, error) {
	lib, err := ai.LoadLibraryDir(dir)
	if err != nil {
		return nil, err
	}
	hub.StageProfileLibrary(lib)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(profileReloadDebounce, func() {
					lib, err := ai.LoadLibraryDir(dir)
					if err != nil {
						log.Printf("profile reload failed, keeping previous library: %v", err)
						return
					}
					hub.StageProfileLibrary(lib)
					log.Printf("behavior profiles reloaded from %s", dir)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("profile watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
