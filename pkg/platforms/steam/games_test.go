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
	"testing"

	"github.com/ProtoShade/protoshade-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
)

func TestListInstalledGames(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	h.LibraryFolders(t, mainSteamApps, "/home/deck/.steam/steam")
	h.SteamManifest(t, mainSteamApps, "42", "Celestial Drift", "CelestialDrift")
	h.SteamManifest(t, mainSteamApps, "7", "Iron Bastion", "IronBastion")
	h.SteamManifest(t, mainSteamApps, "1493710", "Proton Experimental", "Proton - Experimental")
	h.SteamManifest(t, mainSteamApps, "1628350", "Steam Linux Runtime 3.0 (sniper)", "SteamLinuxRuntime_sniper")
	h.SteamManifest(t, mainSteamApps, "228980", "Steamworks Common Redistributables", "Steamworks Shared")

	games := ListInstalledGames(h.Fs, mainSteamApps)

	assert.Equal(t, []InstalledGame{
		{AppID: "42", Name: "Celestial Drift"},
		{AppID: "7", Name: "Iron Bastion"},
	}, games, "runtime tooling is filtered and names sort the list")
}

func TestListInstalledGames_DeduplicatesAcrossLibraries(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	sdCardApps := "/run/media/mmcblk0p1/steamapps"
	h.LibraryFolders(t, mainSteamApps,
		"/home/deck/.steam/steam",
		"/run/media/mmcblk0p1",
	)
	h.SteamManifest(t, mainSteamApps, "42", "Celestial Drift", "CelestialDrift")
	h.SteamManifest(t, sdCardApps, "42", "Celestial Drift", "CelestialDrift")

	games := ListInstalledGames(h.Fs, mainSteamApps)
	assert.Len(t, games, 1)
}

func TestListInstalledGames_EmptyLibrary(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	assert.Empty(t, ListInstalledGames(h.Fs, mainSteamApps))
}
