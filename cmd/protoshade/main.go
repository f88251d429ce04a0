/*
ProtoShade Core
Copyright (c) 2026 The ProtoShade Project Contributors.

This file is part of ProtoShade Core.

ProtoShade Core is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ProtoShade Core is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ProtoShade Core.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ProtoShade/protoshade-core/pkg/api"
	"github.com/ProtoShade/protoshade-core/pkg/config"
	"github.com/ProtoShade/protoshade-core/pkg/helpers"
	"github.com/ProtoShade/protoshade-core/pkg/helpers/command"
	"github.com/ProtoShade/protoshade-core/pkg/platforms/heroic"
	"github.com/ProtoShade/protoshade-core/pkg/platforms/steam"
	"github.com/ProtoShade/protoshade-core/pkg/service"
	"github.com/ProtoShade/protoshade-core/pkg/watcher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String(
		"config",
		defaultConfigDir(),
		"path to configuration directory",
	)
	debug := flag.Bool(
		"debug",
		false,
		"enable debug logging",
	)
	flag.Parse()

	fsys := afero.NewOsFs()

	cfg, err := config.NewConfig(fsys, *configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	vals := cfg.Values()
	err = helpers.InitLogging(
		filepath.Join(*configDir, config.LogFile),
		*debug || vals.DebugLogging,
	)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	svc := service.New(fsys, cfg, &command.RealExecutor{}, nil)

	w, err := watcher.New(svc.Cache(), watchDirs(fsys, vals)...)
	if err != nil {
		log.Warn().Err(err).Msg("metadata watcher unavailable, cache runs on TTL only")
	} else {
		defer func() {
			if closeErr := w.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing metadata watcher")
			}
		}()
	}

	go api.Start(cfg, svc)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	return nil
}

func watchDirs(fsys afero.Fs, vals config.Values) []string {
	var dirs []string

	steamApps := vals.Paths.SteamAppsDir
	if steamApps == "" {
		steamApps, _ = steam.FindSteamAppsDir(fsys)
	}
	if steamApps != "" {
		dirs = append(dirs, steamApps)
	}

	heroicDir := vals.Paths.HeroicConfigDir
	if heroicDir == "" {
		heroicDir, _ = heroic.FindConfigDir(fsys)
	}
	if heroicDir != "" {
		dirs = append(dirs, heroicDir, filepath.Join(heroicDir, "GamesConfig"))
	}

	return dirs
}

func defaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "protoshade")
}
