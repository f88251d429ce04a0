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

package steam

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// InstalledGame is one entry in the library listing shown to the user.
type InstalledGame struct {
	AppID string
	Name  string
}

// runtimeToolMarkers identify Valve's compatibility tooling, which shows up
// in every library but is never something to inject shaders into.
var runtimeToolMarkers = []string{
	"Proton",
	"Steam Linux Runtime",
	"Steamworks Common Redistributables",
}

// ListInstalledGames enumerates installed games across all library folders,
// filtering out runtime tooling. Unreadable libraries are skipped.
func ListInstalledGames(fsys afero.Fs, mainSteamAppsDir string) []InstalledGame {
	var games []InstalledGame
	seen := map[string]struct{}{}

	for _, library := range LibraryFolders(fsys, mainSteamAppsDir) {
		steamApps := filepath.Join(library, "steamapps")
		entries, err := afero.ReadDir(fsys, steamApps)
		if err != nil {
			log.Debug().Err(err).Str("library", library).Msg("skipping unreadable library")
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
				continue
			}
			appID := strings.TrimSuffix(strings.TrimPrefix(name, "appmanifest_"), ".acf")
			if _, dup := seen[appID]; dup {
				continue
			}

			info, ok := ReadAppManifest(fsys, steamApps, appID)
			if !ok {
				continue
			}
			if isRuntimeTool(info.Name) {
				continue
			}

			seen[appID] = struct{}{}
			games = append(games, InstalledGame{AppID: appID, Name: info.Name})
		}
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Name < games[j].Name
	})
	return games
}

func isRuntimeTool(name string) bool {
	for _, marker := range runtimeToolMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
