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
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/ProtoShade/protoshade-core/pkg/detect"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "PROTOSHADE_CFG"
	CfgFile       = "config.toml"
	LogFile       = "protoshade.log"
)

// Values is the full on-disk configuration.
type Values struct {
	Paths        Paths          `toml:"paths,omitempty"`
	Detection    Detection      `toml:"detection,omitempty"`
	Correlation  Correlation    `toml:"correlation,omitempty"`
	Cache        Cache          `toml:"cache,omitempty"`
	Service      Service        `toml:"service,omitempty"`
	Weights      detect.Weights `toml:"weights,omitempty"`
	ConfigSchema int            `toml:"config_schema"`
	DebugLogging bool           `toml:"debug_logging"`
}

// Paths locates the external stores and assets. Empty fields are
// auto-discovered at startup.
type Paths struct {
	SteamAppsDir    string `toml:"steam_apps_dir,omitempty"`
	SteamRoot       string `toml:"steam_root,omitempty"`
	HeroicConfigDir string `toml:"heroic_config_dir,omitempty"`
	AssetsDir       string `toml:"assets_dir,omitempty"`
	DataHome        string `toml:"data_home,omitempty"`
	LaunchLog       string `toml:"launch_log,omitempty"`
}

// Detection tunes the candidate scanner.
type Detection struct {
	MaxDepth        int     `toml:"max_depth"         validate:"gte=1,lte=10"`
	GoodEnoughScore float64 `toml:"good_enough_score" validate:"gte=0,lte=100"`
}

// Correlation tunes the config correlator.
type Correlation struct {
	MinScore float64 `toml:"min_score" validate:"gte=0"`
}

// Cache tunes the detection result cache.
type Cache struct {
	TTLMinutes int `toml:"ttl_minutes" validate:"gte=1"`
}

// Service configures the API boundary.
type Service struct {
	APIPort int `toml:"api_port" validate:"gte=0,lte=65535"`
}

// BaseDefaults are the defaults a fresh install starts from.
var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Detection: Detection{
		MaxDepth:        detect.DefaultMaxDepth,
		GoodEnoughScore: detect.DefaultGoodEnoughScore,
	},
	Correlation: Correlation{
		MinScore: 30,
	},
	Cache: Cache{
		TTLMinutes: 60,
	},
	Service: Service{
		APIPort: 7920,
	},
	Weights: detect.DefaultWeights,
}

// Instance is a process-wide configuration handle. Reads take the lock;
// the Values copy handed out is safe to keep.
type Instance struct {
	fs      afero.Fs
	cfgPath string
	vals    Values
	mu      sync.RWMutex
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig loads (or creates) the config file under configDir.
func NewConfig(fsys afero.Fs, configDir string) (*Instance, error) {
	cfg := &Instance{
		fs:      fsys,
		cfgPath: filepath.Join(configDir, CfgFile),
		vals:    BaseDefaults,
	}

	if err := cfg.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Load reads and validates the config file, merging over defaults.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	vals := BaseDefaults
	if err := toml.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(&vals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.vals = vals
	return nil
}

// Save writes the current values to disk.
func (c *Instance) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.cfgPath), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Values returns a copy of the current configuration.
func (c *Instance) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals
}

// SetValues replaces the configuration after validating it.
func (c *Instance) SetValues(vals Values) error {
	if err := validate.Struct(&vals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.mu.Lock()
	c.vals = vals
	c.mu.Unlock()
	return nil
}
