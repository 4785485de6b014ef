// Package watcher reloads a document when its file changes on disk.
//
// # Overview
//
// Saving a file from an editor usually produces a burst of events (truncate,
// write, rename, chmod). FileWatcher collapses such a burst into one
// callback that fires after a quiet period:
//
//	fw := watcher.NewWatcher(200*time.Millisecond, func(paths []string) {
//	    reload(paths[0])
//	})
//	defer fw.Stop()
//
//	go watcher.WatchFile(ctx, "notes.md", fw, log)
//
// WatchFile is the fsnotify side; anything else can call FileChanged
// directly, which is how the tests drive the debouncer.
package watcher
