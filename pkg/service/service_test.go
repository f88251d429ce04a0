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

package service

import (
	"context"
	"testing"

	"github.com/ProtoShade/protoshade-core/pkg/config"
	"github.com/ProtoShade/protoshade-core/pkg/detect"
	"github.com/ProtoShade/protoshade-core/pkg/testing/helpers"
	"github.com/ProtoShade/protoshade-core/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	steamApps = "/home/deck/.steam/steam/steamapps"
	assetsDir = "/app/assets"
)

func newTestService(t *testing.T) (*Service, *helpers.FSHelper, *mocks.MockCommandExecutor) {
	t.Helper()

	h := helpers.NewMemoryFS()
	cfg, err := config.NewConfig(h.Fs, "/home/deck/.config/protoshade")
	require.NoError(t, err)

	vals := cfg.Values()
	vals.Paths.SteamAppsDir = steamApps
	vals.Paths.HeroicConfigDir = "/home/deck/.config/heroic"
	vals.Paths.AssetsDir = assetsDir
	require.NoError(t, cfg.SetValues(vals))

	executor := helpers.NewMockCommandExecutor()
	return New(h.Fs, cfg, executor, clockwork.NewFakeClock()), h, executor
}

func installGame(t *testing.T, h *helpers.FSHelper, appID, name, installDir string) string {
	t.Helper()
	h.LibraryFolders(t, steamApps, "/home/deck/.steam/steam")
	h.SteamManifest(t, steamApps, appID, name, installDir)
	root := steamApps + "/common/" + installDir
	h.InstallTree(t, root, map[string]int64{
		"Binaries/Win64/" + installDir + ".exe": 120 << 20,
		"unins000.exe":                          2 << 20,
	})
	return root
}

func TestService_DetectSteam(t *testing.T) {
	t.Parallel()

	svc, h, _ := newTestService(t)
	installGame(t, h, "42", "Celestial Drift", "CelestialDrift")

	result, err := svc.DetectSteam(context.Background(), "42")

	require.NoError(t, err)
	require.Equal(t, detect.StatusFound, result.Status)
	assert.Contains(t, result.Chosen.Candidate.AbsolutePath, "CelestialDrift.exe")
}

func TestService_DetectSteam_NotInstalled(t *testing.T) {
	t.Parallel()

	svc, h, _ := newTestService(t)
	h.LibraryFolders(t, steamApps, "/home/deck/.steam/steam")

	_, err := svc.DetectSteam(context.Background(), "9999")
	assert.ErrorIs(t, err, ErrGameNotInstalled)
}

func TestService_DetectSteam_UsesCache(t *testing.T) {
	t.Parallel()

	svc, h, _ := newTestService(t)
	root := installGame(t, h, "42", "Celestial Drift", "CelestialDrift")

	first, err := svc.DetectSteam(context.Background(), "42")
	require.NoError(t, err)

	// Removing the tree doesn't change the cached answer until the entry
	// is invalidated.
	require.NoError(t, h.Fs.RemoveAll(root))

	second, err := svc.DetectSteam(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	svc.Cache().Invalidate("42")

	third, err := svc.DetectSteam(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, detect.StatusNotFound, third.Status)
}

func TestService_Correlate(t *testing.T) {
	t.Parallel()

	svc, h, _ := newTestService(t)
	h.InstallTree(t, "/games/CelestialDrift", map[string]int64{
		"celestialdrift.exe": 90 << 20,
	})
	h.HeroicGameConfig(t, "/home/deck/.config/heroic", "opaque-slug-1", map[string]any{
		"title":      "Celestial Drift",
		"winePrefix": "/prefixes/opaque-slug-1",
	})

	match, err := svc.Correlate(context.Background(),
		"Celestial Drift", "/games/CelestialDrift", "")

	require.NoError(t, err)
	assert.Equal(t, "opaque-slug-1", match.EntryKey)
}

func TestService_ManageGame_DefaultsDLLOverride(t *testing.T) {
	t.Parallel()

	svc, h, executor := newTestService(t)
	installGame(t, h, "42", "Celestial Drift", "CelestialDrift")
	h.WriteSized(t, assetsDir+"/reshade-game-manager.sh", 1<<10)

	_, err := svc.ManageGame(context.Background(), "42", "install", "", "")
	require.NoError(t, err)

	var scriptArgs []string
	for _, call := range executor.Calls {
		if call.Method == "Script" {
			scriptArgs, _ = call.Arguments.Get(3).([]string)
		}
	}
	// Script path, action, game directory, DLL override.
	require.Len(t, scriptArgs, 4)
	assert.Equal(t, DefaultDLLOverride, scriptArgs[3])
}

func TestService_ManageGame_RefusesNativeInstall(t *testing.T) {
	t.Parallel()

	svc, h, _ := newTestService(t)
	h.LibraryFolders(t, steamApps, "/home/deck/.steam/steam")
	h.SteamManifest(t, steamApps, "77", "Native Game", "NativeGame")
	h.InstallTree(t, steamApps+"/common/NativeGame", map[string]int64{
		"libnative.so": 40 << 20,
		"start.sh":     4 << 10,
	})

	_, err := svc.ManageGame(context.Background(), "77", "install", "dxgi", "")
	assert.Error(t, err)
}
