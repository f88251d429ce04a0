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

// Package helpers provides filesystem fixtures for tests: fake game install
// trees, Steam-like library metadata, and Heroic-like config stores, all on
// an in-memory afero filesystem.
package helpers

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// FSHelper wraps an afero filesystem with fixture builders.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing.
func NewMemoryFS() *FSHelper {
	return &FSHelper{Fs: afero.NewMemMapFs()}
}

// WriteSized writes a file of the given size. The content is filler; only
// the stat size matters to the scorer.
func (h *FSHelper) WriteSized(t *testing.T, path string, size int64) {
	t.Helper()
	require.NoError(t, h.Fs.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, afero.WriteFile(h.Fs, path, make([]byte, size), 0o640))
}

// InstallTree writes a fake game install under root. Keys are
// slash-separated relative paths; values are file sizes in bytes. A path
// ending in "/" creates an empty directory.
func (h *FSHelper) InstallTree(t *testing.T, root string, files map[string]int64) {
	t.Helper()
	require.NoError(t, h.Fs.MkdirAll(root, 0o750))
	for rel, size := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, h.Fs.MkdirAll(abs, 0o750))
			continue
		}
		h.WriteSized(t, abs, size)
	}
}

// SteamManifest writes an appmanifest ACF file into steamAppsDir along
// with the matching install directory under steamapps/common.
func (h *FSHelper) SteamManifest(t *testing.T, steamAppsDir, appID, name, installDir string) {
	t.Helper()
	manifest := fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"name"		"%s"
	"installdir"		"%s"
	"StateFlags"		"4"
}
`, appID, name, installDir)
	path := filepath.Join(steamAppsDir, "appmanifest_"+appID+".acf")
	require.NoError(t, h.Fs.MkdirAll(steamAppsDir, 0o750))
	require.NoError(t, afero.WriteFile(h.Fs, path, []byte(manifest), 0o640))
	require.NoError(t, h.Fs.MkdirAll(
		filepath.Join(steamAppsDir, "common", installDir), 0o750))
}

// LibraryFolders writes a libraryfolders.vdf listing the given library
// roots.
func (h *FSHelper) LibraryFolders(t *testing.T, steamAppsDir string, libraries ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("\"libraryfolders\"\n{\n")
	for i, lib := range libraries {
		fmt.Fprintf(&b, "\t\"%d\"\n\t{\n\t\t\"path\"\t\t\"%s\"\n\t}\n", i, lib)
	}
	b.WriteString("}\n")
	path := filepath.Join(steamAppsDir, "libraryfolders.vdf")
	require.NoError(t, h.Fs.MkdirAll(steamAppsDir, 0o750))
	require.NoError(t, afero.WriteFile(h.Fs, path, []byte(b.String()), 0o640))
}

// HeroicGameConfig writes a per-game JSON file under GamesConfig, with the
// settings nested under the app name key the way the launcher stores them.
func (h *FSHelper) HeroicGameConfig(t *testing.T, configRoot, appName string, settings map[string]any) {
	t.Helper()
	doc := map[string]any{
		appName:   settings,
		"version": "v0",
	}
	h.WriteJSON(t, filepath.Join(configRoot, "GamesConfig", appName+".json"), doc)
}

// HeroicInstalled writes the legendary-style installed.json keyed by app
// name.
func (h *FSHelper) HeroicInstalled(t *testing.T, configRoot string, entries map[string]any) {
	t.Helper()
	h.WriteJSON(t,
		filepath.Join(configRoot, "legendaryConfig", "legendary", "installed.json"),
		entries)
}

// WriteJSON writes v as indented JSON, creating parent directories.
func (h *FSHelper) WriteJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	require.NoError(t, h.Fs.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, afero.WriteFile(h.Fs, path, data, 0o640))
}
