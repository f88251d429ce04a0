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

// Package service wires the detection engine, the correlator, and the
// collaborator packages into the operations the API exposes. It owns the
// result cache; everything else is created per call.
package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ProtoShade/protoshade-core/pkg/config"
	"github.com/ProtoShade/protoshade-core/pkg/correlate"
	"github.com/ProtoShade/protoshade-core/pkg/detect"
	"github.com/ProtoShade/protoshade-core/pkg/helpers/command"
	"github.com/ProtoShade/protoshade-core/pkg/installer"
	"github.com/ProtoShade/protoshade-core/pkg/platforms/heroic"
	"github.com/ProtoShade/protoshade-core/pkg/platforms/steam"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrGameNotInstalled reports a request for an app ID with no install on
// disk.
var ErrGameNotInstalled = errors.New("game is not installed")

// DefaultDLLOverride is the injection DLL name used when the caller does
// not pick one. dxgi covers DirectX 10 through 12, the common case.
const DefaultDLLOverride = "dxgi"

// Service is the request/response boundary callers talk to. Synchronous
// and single-threaded per request; callers keep it off their UI thread.
type Service struct {
	fs        afero.Fs
	cfg       *config.Instance
	cache     *detect.ResultCache
	installer *installer.Manager
	executor  command.Executor
}

// New creates a Service. A nil clock uses the real one.
func New(fsys afero.Fs, cfg *config.Instance, executor command.Executor, clock clockwork.Clock) *Service {
	vals := cfg.Values()
	return &Service{
		fs:       fsys,
		cfg:      cfg,
		executor: executor,
		cache: detect.NewResultCache(
			clock, time.Duration(vals.Cache.TTLMinutes)*time.Minute,
		),
		installer: installer.New(fsys, executor, vals.Paths.AssetsDir, vals.Paths.DataHome),
	}
}

// Cache exposes the result cache for the metadata watcher's invalidation
// events.
func (s *Service) Cache() *detect.ResultCache {
	return s.cache
}

// ListGames enumerates installed games in the Steam-like library, minus
// runtime tooling.
func (s *Service) ListGames() ([]steam.InstalledGame, error) {
	steamApps, ok := s.steamAppsDir()
	if !ok {
		return nil, ErrGameNotInstalled
	}
	return steam.ListInstalledGames(s.fs, steamApps), nil
}

// DetectSteam resolves the game binary for a Steam-like app ID. Results
// are cached per target until the TTL lapses or an install event
// invalidates them.
func (s *Service) DetectSteam(ctx context.Context, appID string) (detect.DetectionResult, error) {
	steamApps, ok := s.steamAppsDir()
	if !ok {
		return detect.DetectionResult{}, fmt.Errorf("%w: no library found", ErrGameNotInstalled)
	}

	installDir, library, found := steam.FindInstallDir(s.fs, steamApps, appID)
	if !found {
		return detect.DetectionResult{}, fmt.Errorf("%w: app %s", ErrGameNotInstalled, appID)
	}

	info, _ := steam.ReadAppManifest(s.fs, filepath.Join(library, "steamapps"), appID)
	hint := detect.PlatformUnknown
	switch info.PlatformOverride {
	case "windows":
		hint = detect.PlatformWindows
	case "linux":
		hint = detect.PlatformLinux
	}

	target := detect.NewTarget(info.Name, installDir, appID)
	result := s.cache.GetOrCompute(target, func() detect.DetectionResult {
		return s.newPolicy().Detect(ctx, target, hint)
	})
	return result, nil
}

// DetectPath resolves the game binary for an explicit install directory
// and declared title, the entry point used for the Heroic-like library.
func (s *Service) DetectPath(ctx context.Context, title, installPath, appID string) detect.DetectionResult {
	target := detect.NewTarget(title, installPath, appID)
	return s.cache.GetOrCompute(target, func() detect.DetectionResult {
		return s.newPolicy().Detect(ctx, target, detect.PlatformUnknown)
	})
}

// Correlate matches a resolved install to its entry in the Heroic-like
// config store. The detection result's executable names feed the match as
// an independent identity signal.
func (s *Service) Correlate(
	ctx context.Context, title, installPath, appID string,
) (correlate.Match, error) {
	result := s.DetectPath(ctx, title, installPath, appID)

	var exeNames []string
	if result.Chosen != nil {
		exeNames = append(exeNames, filepath.Base(result.Chosen.Candidate.AbsolutePath))
	}
	for _, alt := range result.Alternatives {
		exeNames = append(exeNames, filepath.Base(alt.Candidate.AbsolutePath))
	}

	configDir, ok := s.heroicConfigDir()
	if !ok {
		return correlate.Match{}, correlate.ErrNoMatch
	}
	docs := heroic.LoadDocuments(s.fs, configDir)

	vals := s.cfg.Values()
	correlator := correlate.New(correlate.WithThreshold(vals.Correlation.MinScore))
	target := detect.NewTarget(title, installPath, appID)
	return correlator.Match(target, exeNames, docs)
}

// SetHeroicOverride persists one environment override on a matched config
// entry. The value heroic.EnvRemoveSentinel removes the key.
func (s *Service) SetHeroicOverride(appName, key, value string) error {
	configDir, ok := s.heroicConfigDir()
	if !ok {
		return correlate.ErrNoMatch
	}
	return heroic.SetEnvOverride(s.fs, configDir, appName, key, value)
}

// InstallGlobal installs the shared shader payload.
func (s *Service) InstallGlobal(ctx context.Context) (string, error) {
	return s.installer.Install(ctx)
}

// UninstallGlobal removes the shared shader payload.
func (s *Service) UninstallGlobal(ctx context.Context) (string, error) {
	return s.installer.Uninstall(ctx)
}

// ManageGame enables or disables injection for a Steam-like game. The
// detection result decides the directory the DLLs land in; an
// incompatible-platform result refuses the operation outright.
func (s *Service) ManageGame(
	ctx context.Context, appID, action, dllOverride, vulkanMode string,
) (string, error) {
	if dllOverride == "" {
		dllOverride = DefaultDLLOverride
	}

	result, err := s.DetectSteam(ctx, appID)
	if err != nil {
		return "", err
	}
	switch result.Status {
	case detect.StatusIncompatiblePlatform:
		return "", fmt.Errorf("app %s: install is Linux-native, nothing to inject into", appID)
	case detect.StatusNotFound:
		return "", fmt.Errorf("app %s: %w", appID, detect.ErrNotFound)
	case detect.StatusFound:
	}

	compatPrefix := ""
	if vulkanMode != "" {
		if steamApps, ok := s.steamAppsDir(); ok {
			if _, library, found := steam.FindInstallDir(s.fs, steamApps, appID); found {
				compatPrefix = steam.CompatDataPath(library, appID)
			}
		}
	}

	return s.installer.ManageGame(
		ctx, action, result.InjectionDir(), dllOverride, vulkanMode, compatPrefix,
	)
}

// newPolicy assembles a selection policy from current configuration. Cheap
// enough to build per request, which keeps config edits live.
func (s *Service) newPolicy() *detect.Policy {
	vals := s.cfg.Values()
	weights := vals.Weights

	scanner := detect.NewScanner(s.fs,
		detect.WithMaxDepth(vals.Detection.MaxDepth),
		detect.WithGoodEnoughScore(vals.Detection.GoodEnoughScore),
		detect.WithWeights(&weights),
	)

	opts := []detect.PolicyOption{
		detect.WithScanner(scanner),
		detect.WithArchProber(detect.NewArchProber(s.executor)),
	}
	if logPath := s.launchLogPath(); logPath != "" {
		opts = append(opts, detect.WithLaunchLog(detect.NewLaunchLogResolver(s.fs, logPath)))
	}
	return detect.NewPolicy(s.fs, opts...)
}

func (s *Service) steamAppsDir() (string, bool) {
	vals := s.cfg.Values()
	if vals.Paths.SteamAppsDir != "" {
		return vals.Paths.SteamAppsDir, true
	}
	dir, ok := steam.FindSteamAppsDir(s.fs)
	if !ok {
		log.Debug().Msg("no steamapps directory found")
	}
	return dir, ok
}

func (s *Service) heroicConfigDir() (string, bool) {
	vals := s.cfg.Values()
	if vals.Paths.HeroicConfigDir != "" {
		return vals.Paths.HeroicConfigDir, true
	}
	dir, ok := heroic.FindConfigDir(s.fs)
	if !ok {
		log.Debug().Msg("no heroic config directory found")
	}
	return dir, ok
}

func (s *Service) launchLogPath() string {
	vals := s.cfg.Values()
	if vals.Paths.LaunchLog != "" {
		return vals.Paths.LaunchLog
	}
	if vals.Paths.SteamRoot != "" {
		return steam.LaunchLogPath(vals.Paths.SteamRoot)
	}
	return ""
}
