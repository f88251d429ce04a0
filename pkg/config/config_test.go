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

package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configDir = "/home/user/.config/protoshade"

func TestNewConfig_CreatesDefaultsOnFirstRun(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	cfg, err := NewConfig(fsys, configDir)
	require.NoError(t, err)

	exists, err := afero.Exists(fsys, filepath.Join(configDir, CfgFile))
	require.NoError(t, err)
	assert.True(t, exists)

	vals := cfg.Values()
	assert.Equal(t, SchemaVersion, vals.ConfigSchema)
	assert.Equal(t, 4, vals.Detection.MaxDepth)
	assert.Equal(t, 7920, vals.Service.APIPort)
	assert.Equal(t, "v1", vals.Weights.Version)
}

func TestNewConfig_LoadsExistingFileOverDefaults(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	content := `
config_schema = 1

[detection]
max_depth = 6
good_enough_score = 75.0

[service]
api_port = 9000
`
	require.NoError(t, fsys.MkdirAll(configDir, 0o750))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(configDir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(fsys, configDir)
	require.NoError(t, err)

	vals := cfg.Values()
	assert.Equal(t, 6, vals.Detection.MaxDepth)
	assert.InDelta(t, 75.0, vals.Detection.GoodEnoughScore, 1e-9)
	assert.Equal(t, 9000, vals.Service.APIPort)
	// Unspecified sections keep their defaults.
	assert.Equal(t, 60, vals.Cache.TTLMinutes)
	assert.InDelta(t, 50.0, vals.Weights.ExactName, 1e-9)
}

func TestNewConfig_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	content := `
[detection]
max_depth = 99
`
	require.NoError(t, fsys.MkdirAll(configDir, 0o750))
	require.NoError(t, afero.WriteFile(fsys,
		filepath.Join(configDir, CfgFile), []byte(content), 0o600))

	_, err := NewConfig(fsys, configDir)
	assert.Error(t, err)
}

func TestSetValues_Validates(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(afero.NewMemMapFs(), configDir)
	require.NoError(t, err)

	vals := cfg.Values()
	vals.Service.APIPort = -1
	assert.Error(t, cfg.SetValues(vals))

	vals.Service.APIPort = 8080
	require.NoError(t, cfg.SetValues(vals))
	assert.Equal(t, 8080, cfg.Values().Service.APIPort)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	cfg, err := NewConfig(fsys, configDir)
	require.NoError(t, err)

	vals := cfg.Values()
	vals.Paths.SteamAppsDir = "/custom/steamapps"
	vals.Detection.MaxDepth = 3
	require.NoError(t, cfg.SetValues(vals))
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(fsys, configDir)
	require.NoError(t, err)
	assert.Equal(t, "/custom/steamapps", reloaded.Values().Paths.SteamAppsDir)
	assert.Equal(t, 3, reloaded.Values().Detection.MaxDepth)
}
