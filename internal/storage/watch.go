// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// STORE WATCHER
// =============================================================================

// DefaultWatchDebounce coalesces the write+rename burst an atomic save emits.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watcher observes a FileStore directory and reports which storage keys
// changed on disk. Storage is last-write-wins across instances; the watcher
// lets a running UI pick up settings saved by another NovaChat process.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher starts watching the file store's base directory. The onChange
// callback receives the storage key (e.g. KeySettings) after the debounce
// window closes.
func NewWatcher(store *FileStore, onChange func(key string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &StoreError{Message: "cannot create watcher", Cause: err}
	}
	if err := fw.Add(store.BaseDir); err != nil {
		fw.Close()
		return nil, &StoreError{Message: "cannot watch data directory", Cause: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fw:       fw,
		debounce: DefaultWatchDebounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}

	go w.run(onChange)
	return w, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fw.Close()
}

// run pumps fsnotify events, debouncing per key.
func (w *Watcher) run(onChange func(key string)) {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := keyFromPath(event.Name)
			if !ok {
				continue
			}
			w.mu.Lock()
			w.pending[key] = time.Now()
			w.mu.Unlock()

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the store itself stays usable.

		case now := <-ticker.C:
			w.mu.Lock()
			var fire []string
			for key, at := range w.pending {
				if now.Sub(at) >= w.debounce {
					fire = append(fire, key)
					delete(w.pending, key)
				}
			}
			w.mu.Unlock()
			for _, key := range fire {
				onChange(key)
			}
		}
	}
}

// keyFromPath recovers the storage key from a key file path. Temp files from
// atomic writes (".tmp-*") are ignored.
func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".tmp-") {
		return "", false
	}
	if !strings.HasSuffix(name, ".json") {
		return "", false
	}
	return strings.TrimSuffix(name, ".json"), true
}
