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

// Package installer drives the shader toolchain's shell scripts: global
// install/uninstall of the ReShade payload and per-game enable/disable.
// It consumes the detection engine's output; none of the matching logic
// lives here.
package installer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ProtoShade/protoshade-core/pkg/helpers/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Script names inside the assets directory.
const (
	installScript   = "reshade-install.sh"
	uninstallScript = "reshade-uninstall.sh"
	manageScript    = "reshade-game-manager.sh"
)

// scriptTimeout bounds any single script run. The install script downloads
// the shader payload and can legitimately take minutes.
const scriptTimeout = 5 * time.Minute

// ErrScriptMissing reports an absent installer script.
var ErrScriptMissing = errors.New("installer script not found")

// Manager runs the installer scripts with the toolchain's fixed
// environment.
type Manager struct {
	fs        afero.Fs
	executor  command.Executor
	assetsDir string
	dataHome  string
}

// New creates a Manager. assetsDir holds the shell scripts; dataHome is
// where the shader payload lives (XDG data home).
func New(fsys afero.Fs, executor command.Executor, assetsDir, dataHome string) *Manager {
	return &Manager{
		fs:        fsys,
		executor:  executor,
		assetsDir: assetsDir,
		dataHome:  dataHome,
	}
}

// environment is the fixed variable set the scripts expect.
func (m *Manager) environment() []string {
	return []string{
		"XDG_DATA_HOME=" + m.dataHome,
		"UPDATE_RESHADE=1",
		"MERGE_SHADERS=1",
		"VULKAN_SUPPORT=0",
		"GLOBAL_INI=ReShade.ini",
		"DELETE_RESHADE_FILES=0",
		"FORCE_RESHADE_UPDATE_CHECK=0",
		"RESHADE_ADDON_SUPPORT=0",
		"LD_LIBRARY_PATH=/usr/lib",
	}
}

// Install downloads and sets up the global shader payload.
func (m *Manager) Install(ctx context.Context) (string, error) {
	return m.runScript(ctx, installScript)
}

// Uninstall removes the global shader payload.
func (m *Manager) Uninstall(ctx context.Context) (string, error) {
	return m.runScript(ctx, uninstallScript)
}

// ManageGame enables or disables injection for one game. action is the
// script's verb ("install"/"uninstall"), gameDir the directory holding the
// game binary, dllOverride the DLL name the game loads (e.g. "dxgi").
// vulkanMode and compatPrefix are passed through together when the game
// renders through Vulkan.
func (m *Manager) ManageGame(
	ctx context.Context, action, gameDir, dllOverride, vulkanMode, compatPrefix string,
) (string, error) {
	args := []string{action, gameDir, dllOverride}
	if vulkanMode != "" {
		args = append(args, vulkanMode, compatPrefix)
	}
	return m.runScript(ctx, manageScript, args...)
}

func (m *Manager) runScript(ctx context.Context, script string, args ...string) (string, error) {
	scriptPath := filepath.Join(m.assetsDir, script)
	if ok, err := afero.Exists(m.fs, scriptPath); err != nil || !ok {
		return "", fmt.Errorf("%w: %s", ErrScriptMissing, scriptPath)
	}

	runCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	cmdArgs := append([]string{scriptPath}, args...)
	out, err := m.executor.Script(runCtx, command.ScriptOptions{
		Dir: m.assetsDir,
		Env: m.environment(),
	}, "/bin/bash", cmdArgs...)

	output := string(out)
	if err != nil {
		log.Error().Err(err).Str("script", script).Str("output", output).
			Msg("installer script failed")
		return output, fmt.Errorf("run %s: %w", script, err)
	}

	log.Info().Str("script", script).Msg("installer script completed")
	log.Debug().Str("output", output).Msg("installer script output")
	return output, nil
}
