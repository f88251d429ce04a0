// ProtoShade Core
// Copyright (c) 2026 The ProtoShade Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ProtoShade Core.
//
// ProtoShade Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ProtoShade Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ProtoShade Core.  If not, see <http://www.gnu.org/licenses/>.

// Package watcher observes launcher metadata directories and raises
// install/uninstall events. It is the collaborator that drives the
// detection cache's explicit invalidation.
package watcher

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Event is one install/uninstall notification. TargetID is empty when the
// changed file couldn't be tied to a single game, in which case the whole
// cache should be dropped.
type Event struct {
	TargetID string
	Path     string
	Removed  bool
}

// Invalidator is the cache surface the watcher drives.
type Invalidator interface {
	Invalidate(targetID string)
	InvalidateAll()
}

// Watcher translates filesystem events under launcher metadata dirs into
// cache invalidations.
type Watcher struct {
	fsw         *fsnotify.Watcher
	invalidator Invalidator
	done        chan struct{}
	wg          sync.WaitGroup
}

// New creates a watcher over the given metadata directories: steamapps
// dirs (app manifests) and the Heroic GamesConfig dir. Directories that
// don't exist are skipped.
func New(invalidator Invalidator, dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err //nolint:wrapcheck // fsnotify's error is the whole story
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("not watching directory")
		}
	}

	w := &Watcher{
		fsw:         fsw,
		invalidator: invalidator,
		done:        make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err //nolint:wrapcheck // fsnotify's error is the whole story
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event, relevant := Classify(fsEvent.Name, fsEvent.Op); relevant {
				w.apply(event)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("metadata watcher error")
		}
	}
}

func (w *Watcher) apply(event Event) {
	if event.TargetID == "" {
		log.Debug().Str("path", event.Path).Msg("metadata changed, clearing detection cache")
		w.invalidator.InvalidateAll()
		return
	}
	log.Debug().
		Str("target", event.TargetID).
		Bool("removed", event.Removed).
		Msg("install event, invalidating detection cache entry")
	w.invalidator.Invalidate(event.TargetID)
}

// Classify maps a filesystem event to an install/uninstall Event. Only
// writes, creates, removes, and renames of launcher metadata files are
// relevant; editor temp files and lock churn are not.
func Classify(path string, op fsnotify.Op) (Event, bool) {
	if op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return Event{}, false
	}

	name := filepath.Base(path)
	removed := op&(fsnotify.Remove|fsnotify.Rename) != 0

	// Steam app manifest: appmanifest_<appid>.acf.
	if strings.HasPrefix(name, "appmanifest_") && strings.HasSuffix(name, ".acf") {
		appID := strings.TrimSuffix(strings.TrimPrefix(name, "appmanifest_"), ".acf")
		return Event{TargetID: appID, Path: path, Removed: removed}, true
	}

	// Heroic per-game config: <appName>.json.
	if strings.HasSuffix(name, ".json") {
		appName := strings.TrimSuffix(name, ".json")
		return Event{TargetID: appName, Path: path, Removed: removed}, true
	}

	return Event{}, false
}
