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

// Package heroic reads and narrowly writes the Heroic-like launcher's JSON
// configuration stores. Its schemas drift across versions and runners; the
// loader preserves every document as raw nested maps and leaves
// interpretation to the correlator.
package heroic

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ProtoShade/protoshade-core/pkg/correlate"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Store identifiers used in correlation results.
const (
	StoreGamesConfig = "games_config"
	StoreLegendary   = "legendary"
	StoreGOG         = "gog"
	StoreSideload    = "sideload"
)

// DefaultConfigDirs returns the launcher config roots to probe, covering
// native and Flatpak installs.
func DefaultConfigDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".config", "heroic"),
		filepath.Join(home, ".var", "app", "com.heroicgameslauncher.hgl", "config", "heroic"),
	}
}

// FindConfigDir picks the first config root that exists.
func FindConfigDir(fsys afero.Fs) (string, bool) {
	for _, dir := range DefaultConfigDirs() {
		if ok, err := afero.DirExists(fsys, dir); err == nil && ok {
			return dir, true
		}
	}
	return "", false
}

// LoadDocuments reads every known store document under the config root.
// Unparsable documents are skipped with a warning; the remaining stores are
// still scanned. A missing root yields no documents, not an error.
func LoadDocuments(fsys afero.Fs, configRoot string) []correlate.Document {
	var docs []correlate.Document

	if doc, ok := loadGamesConfig(fsys, filepath.Join(configRoot, "GamesConfig")); ok {
		docs = append(docs, doc)
	}
	if doc, ok := loadKeyedRunnerFile(
		fsys, filepath.Join(configRoot, "legendaryConfig", "legendary", "installed.json"), StoreLegendary,
	); ok {
		docs = append(docs, doc)
	}
	if doc, ok := loadGOGInstalled(
		fsys, filepath.Join(configRoot, "gog_store", "installed.json"),
	); ok {
		docs = append(docs, doc)
	}
	if doc, ok := loadSideloadLibrary(
		fsys, filepath.Join(configRoot, "sideload_apps", "library.json"),
	); ok {
		docs = append(docs, doc)
	}

	return docs
}

// loadGamesConfig reads the per-game config directory: one JSON file per
// game, keyed by the launcher's opaque app name.
func loadGamesConfig(fsys afero.Fs, dir string) (correlate.Document, bool) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("games config dir unavailable")
		return correlate.Document{}, false
	}

	doc := correlate.Document{
		StoreID: StoreGamesConfig,
		Path:    dir,
		Entries: map[string]map[string]any{},
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, ok := readJSONObject(fsys, path)
		if !ok {
			continue
		}

		key := strings.TrimSuffix(entry.Name(), ".json")
		// The file nests the config under the app name; fall back to the
		// whole object for older layouts that didn't.
		if nested, ok := raw[key].(map[string]any); ok {
			doc.Entries[key] = nested
		} else {
			doc.Entries[key] = raw
		}
	}

	return doc, len(doc.Entries) > 0
}

// loadKeyedRunnerFile reads a runner manifest shaped as {appName: {...}}.
func loadKeyedRunnerFile(fsys afero.Fs, path, storeID string) (correlate.Document, bool) {
	raw, ok := readJSONObject(fsys, path)
	if !ok {
		return correlate.Document{}, false
	}

	doc := correlate.Document{
		StoreID:        storeID,
		Path:           path,
		Entries:        map[string]map[string]any{},
		RunnerMetadata: true,
	}
	for key, v := range raw {
		if entry, ok := v.(map[string]any); ok {
			doc.Entries[key] = entry
		}
	}
	return doc, len(doc.Entries) > 0
}

// loadGOGInstalled reads the GOG runner manifest, shaped as
// {"installed": [{...}, ...]} with an appName field per element.
func loadGOGInstalled(fsys afero.Fs, path string) (correlate.Document, bool) {
	raw, ok := readJSONObject(fsys, path)
	if !ok {
		return correlate.Document{}, false
	}
	list, ok := raw["installed"].([]any)
	if !ok {
		return correlate.Document{}, false
	}
	return documentFromList(StoreGOG, path, list, "appName"), true
}

// loadSideloadLibrary reads the sideloaded-apps library, shaped as
// {"games": [{...}, ...]} with an app_name field per element.
func loadSideloadLibrary(fsys afero.Fs, path string) (correlate.Document, bool) {
	raw, ok := readJSONObject(fsys, path)
	if !ok {
		return correlate.Document{}, false
	}
	list, ok := raw["games"].([]any)
	if !ok {
		return correlate.Document{}, false
	}
	return documentFromList(StoreSideload, path, list, "app_name"), true
}

func documentFromList(storeID, path string, list []any, keyField string) correlate.Document {
	doc := correlate.Document{
		StoreID:        storeID,
		Path:           path,
		Entries:        map[string]map[string]any{},
		RunnerMetadata: true,
	}
	for i, v := range list {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		key, _ := entry[keyField].(string)
		if key == "" {
			// Entries without the expected key field still participate in
			// matching; the index keeps them addressable.
			key = storeID + "_" + strconv.Itoa(i)
		}
		doc.Entries[key] = entry
	}
	return doc
}

// readJSONObject loads a JSON file as a generic object. Malformed documents
// report false and are skipped by the caller.
func readJSONObject(fsys afero.Fs, path string) (map[string]any, bool) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("store document unavailable")
		return nil, false
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("skipping malformed store document")
		return nil, false
	}
	return raw, true
}
