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

// Package steam reads the Steam-like library's on-disk metadata: library
// folders, app manifests, and compatibility-prefix locations. Everything
// here is read-only and best effort; a missing or corrupt file reports
// "not found" rather than failing a request.
package steam

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/andygrunwald/vdf"
)

// AppInfo contains metadata for one app from its manifest.
type AppInfo struct {
	AppID      string
	Name       string
	InstallDir string
	// PlatformOverride is the manifest's platform override source when the
	// user forced one ("windows", "linux", or empty).
	PlatformOverride string
}

// ReadAppManifest reads an app manifest from a steamapps directory.
func ReadAppManifest(fsys afero.Fs, steamAppsDir, appID string) (AppInfo, bool) {
	manifestPath := filepath.Join(steamAppsDir, fmt.Sprintf("appmanifest_%s.acf", appID))

	f, err := fsys.Open(manifestPath)
	if err != nil {
		log.Debug().Err(err).Str("appID", appID).Msg("failed to open app manifest")
		return AppInfo{}, false
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing app manifest")
		}
	}()

	p := vdf.NewParser(f)
	m, err := p.Parse()
	if err != nil {
		log.Warn().Err(err).Str("appID", appID).Msg("failed to parse app manifest")
		return AppInfo{}, false
	}
	m = normalizeVDFKeys(m)

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		log.Warn().Str("appID", appID).Msg("AppState not found in manifest")
		return AppInfo{}, false
	}

	name, ok := appState["name"].(string)
	if !ok {
		log.Warn().Str("appID", appID).Msg("name not found in manifest")
		return AppInfo{}, false
	}

	installDir, _ := appState["installdir"].(string) //nolint:revive // installdir is optional

	info := AppInfo{
		AppID:      appID,
		Name:       name,
		InstallDir: installDir,
	}
	if userCfg, ok := appState["userconfig"].(map[string]any); ok {
		if override, ok := userCfg["platform_override_source"].(string); ok {
			info.PlatformOverride = override
		}
	}
	return info, true
}

// LibraryFolders parses libraryfolders.vdf and returns the paths of every
// configured library, starting with the main one.
func LibraryFolders(fsys afero.Fs, mainSteamAppsDir string) []string {
	folders := []string{filepath.Dir(mainSteamAppsDir)}

	f, err := fsys.Open(filepath.Join(mainSteamAppsDir, "libraryfolders.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("failed to open libraryfolders.vdf")
		return folders
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing libraryfolders.vdf")
		}
	}()

	p := vdf.NewParser(f)
	m, err := p.Parse()
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse libraryfolders.vdf")
		return folders
	}
	m = normalizeVDFKeys(m)

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return folders
	}
	for _, v := range lfs {
		ls, ok := v.(map[string]any)
		if !ok {
			continue
		}
		libraryPath, ok := ls["path"].(string)
		if !ok {
			continue
		}
		if libraryPath == folders[0] {
			continue
		}
		folders = append(folders, libraryPath)
	}
	return folders
}

// FindInstallDir searches every library folder for the app and returns the
// full install directory (…/steamapps/common/<installdir>) plus the library
// it lives in.
func FindInstallDir(fsys afero.Fs, mainSteamAppsDir, appID string) (installDir, libraryPath string, ok bool) {
	for _, library := range LibraryFolders(fsys, mainSteamAppsDir) {
		steamApps := filepath.Join(library, "steamapps")
		info, found := ReadAppManifest(fsys, steamApps, appID)
		if !found || info.InstallDir == "" {
			continue
		}
		return filepath.Join(steamApps, "common", info.InstallDir), library, true
	}
	return "", "", false
}

// CompatDataPath returns the app's Proton compatibility-prefix directory
// inside a library folder.
func CompatDataPath(libraryPath, appID string) string {
	return filepath.Join(libraryPath, "steamapps", "compatdata", appID)
}

// LaunchLogPath returns the launcher's rotated console log under a Steam
// root. The log records each game process spawn and backs the
// authoritative detection strategy.
func LaunchLogPath(steamRoot string) string {
	return filepath.Join(steamRoot, "logs", "console_log.txt")
}

// DefaultSteamAppsDirs returns default locations for the steamapps
// directory on Linux installs, including Steam Deck and Flatpak layouts.
func DefaultSteamAppsDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	return []string{
		filepath.Join(home, ".steam", "steam", "steamapps"),
		filepath.Join(home, ".local", "share", "Steam", "steamapps"),
		filepath.Join(home, ".steam", "steamapps"),
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".steam", "steam", "steamapps"),
	}
}

// FindSteamAppsDir picks the first default steamapps directory that exists.
func FindSteamAppsDir(fsys afero.Fs) (string, bool) {
	for _, dir := range DefaultSteamAppsDirs() {
		if ok, err := afero.DirExists(fsys, dir); err == nil && ok {
			return dir, true
		}
	}
	return "", false
}
