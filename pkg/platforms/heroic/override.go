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

package heroic

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// EnvRemoveSentinel as an override value deletes the key instead of
// setting it.
const EnvRemoveSentinel = "remove"

// envOptionKeys are the field names the launcher has used for its
// environment-override list across schema versions. The misspelled form
// came first and is still what current versions write.
var envOptionKeys = []string{"enviromentOptions", "environmentOptions"}

// UpsertEnvOverride sets one environment override on a game config entry,
// replacing any existing item with the same key. Passing EnvRemoveSentinel
// as the value removes the key. The entry map is modified in place.
//
// This is the single, narrowly scoped write the engine's match result
// feeds; nothing else in the store is ever touched.
func UpsertEnvOverride(entry map[string]any, key, value string) {
	fieldName := envOptionKeys[0]
	var list []any
	for _, name := range envOptionKeys {
		if existing, ok := entry[name].([]any); ok {
			fieldName = name
			list = existing
			break
		}
	}

	filtered := make([]any, 0, len(list)+1)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			filtered = append(filtered, item)
			continue
		}
		if existingKey, _ := m["key"].(string); existingKey == key {
			continue
		}
		filtered = append(filtered, item)
	}

	if value != EnvRemoveSentinel {
		filtered = append(filtered, map[string]any{"key": key, "value": value})
	}

	entry[fieldName] = filtered
}

// SetEnvOverride applies UpsertEnvOverride to a game's config file on disk
// with a read-modify-write, preserving every field it doesn't own.
func SetEnvOverride(fsys afero.Fs, configRoot, appName, key, value string) error {
	path := filepath.Join(configRoot, "GamesConfig", appName+".json")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read game config: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse game config %s: %w", path, err)
	}

	entry, ok := raw[appName].(map[string]any)
	if !ok {
		entry = raw
	}
	UpsertEnvOverride(entry, key, value)

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode game config: %w", err)
	}
	if err := afero.WriteFile(fsys, path, out, 0o644); err != nil {
		return fmt.Errorf("write game config: %w", err)
	}
	return nil
}
