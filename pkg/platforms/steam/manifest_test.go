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
	"testing"

	"github.com/ProtoShade/protoshade-core/pkg/testing/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainSteamApps = "/home/deck/.steam/steam/steamapps"

func TestReadAppManifest(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	h.SteamManifest(t, mainSteamApps, "42", "Celestial Drift", "CelestialDrift")

	info, ok := ReadAppManifest(h.Fs, mainSteamApps, "42")

	require.True(t, ok)
	assert.Equal(t, "42", info.AppID)
	assert.Equal(t, "Celestial Drift", info.Name)
	assert.Equal(t, "CelestialDrift", info.InstallDir)
	assert.Empty(t, info.PlatformOverride)
}

func TestReadAppManifest_PlatformOverride(t *testing.T) {
	t.Parallel()

	manifest := `"AppState"
{
	"appid"		"42"
	"name"		"Celestial Drift"
	"installdir"		"CelestialDrift"
	"UserConfig"
	{
		"platform_override_source"		"windows"
	}
}
`
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(mainSteamApps, 0o750))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(mainSteamApps, "appmanifest_42.acf"), []byte(manifest), 0o640))

	info, ok := ReadAppManifest(fsys, mainSteamApps, "42")

	require.True(t, ok)
	assert.Equal(t, "windows", info.PlatformOverride)
}

func TestReadAppManifest_MissingOrCorrupt(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()

	_, ok := ReadAppManifest(fsys, mainSteamApps, "42")
	assert.False(t, ok)

	require.NoError(t, fsys.MkdirAll(mainSteamApps, 0o750))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(mainSteamApps, "appmanifest_7.acf"),
		[]byte("not a manifest {{{"), 0o640))

	_, ok = ReadAppManifest(fsys, mainSteamApps, "7")
	assert.False(t, ok)
}

func TestLibraryFolders(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	h.LibraryFolders(t, mainSteamApps,
		"/home/deck/.steam/steam",
		"/run/media/mmcblk0p1",
	)

	folders := LibraryFolders(h.Fs, mainSteamApps)

	assert.Equal(t, []string{
		"/home/deck/.steam/steam",
		"/run/media/mmcblk0p1",
	}, folders)
}

func TestLibraryFolders_MissingFileFallsBackToMain(t *testing.T) {
	t.Parallel()

	folders := LibraryFolders(afero.NewMemMapFs(), mainSteamApps)
	assert.Equal(t, []string{"/home/deck/.steam/steam"}, folders)
}

func TestFindInstallDir_SecondaryLibrary(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	sdCardApps := "/run/media/mmcblk0p1/steamapps"
	h.LibraryFolders(t, mainSteamApps,
		"/home/deck/.steam/steam",
		"/run/media/mmcblk0p1",
	)
	h.SteamManifest(t, sdCardApps, "42", "Celestial Drift", "CelestialDrift")

	installDir, library, ok := FindInstallDir(h.Fs, mainSteamApps, "42")

	require.True(t, ok)
	assert.Equal(t, filepath.Join(sdCardApps, "common", "CelestialDrift"), installDir)
	assert.Equal(t, "/run/media/mmcblk0p1", library)
}

func TestFindInstallDir_NotInstalled(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	h.LibraryFolders(t, mainSteamApps, "/home/deck/.steam/steam")

	_, _, ok := FindInstallDir(h.Fs, mainSteamApps, "9999")
	assert.False(t, ok)
}

func TestCompatDataPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"/run/media/mmcblk0p1/steamapps/compatdata/42",
		CompatDataPath("/run/media/mmcblk0p1", "42"))
}

func TestLaunchLogPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"/home/deck/.steam/steam/logs/console_log.txt",
		LaunchLogPath("/home/deck/.steam/steam"))
}
