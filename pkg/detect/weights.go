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

package detect

// Weights is the named scoring table shared by the executable and directory
// scorers. All signal magnitudes live here so tuning is a configuration
// edit, not a code edit. The zero value is not usable; start from
// DefaultWeights and override fields via config.
type Weights struct {
	Version string `toml:"version"`

	// Executable signals, in evaluation order.
	ExactName       float64 `toml:"exact_name"        validate:"gte=0"`
	ContainmentMax  float64 `toml:"containment_max"   validate:"gte=0"`
	WordMatch       float64 `toml:"word_match"        validate:"gte=0"`
	WordCoverageMax float64 `toml:"word_coverage_max" validate:"gte=0"`
	GenericExeName  float64 `toml:"generic_exe_name"  validate:"gte=0"`
	SizeTinyPenalty float64 `toml:"size_tiny_penalty" validate:"lte=0"`
	SizeSmall       float64 `toml:"size_small"        validate:"gte=0"`
	SizeMedium      float64 `toml:"size_medium"       validate:"gte=0"`
	SizeLarge       float64 `toml:"size_large"        validate:"gte=0"`
	EngineBinDir    float64 `toml:"engine_bin_dir"    validate:"gte=0"`
	GenericBinDir   float64 `toml:"generic_bin_dir"   validate:"gte=0"`
	RootLevel       float64 `toml:"root_level"        validate:"gte=0"`
	ExcessDepthStep float64 `toml:"excess_depth_step" validate:"lte=0"`
	UtilityPathStep float64 `toml:"utility_path_step" validate:"lte=0"`

	// Directory signals.
	DirNameExact     float64 `toml:"dir_name_exact"      validate:"gte=0"`
	DirNamePartial   float64 `toml:"dir_name_partial"    validate:"gte=0"`
	DirNameGeneric   float64 `toml:"dir_name_generic"    validate:"gte=0"`
	DirNameNegative  float64 `toml:"dir_name_negative"   validate:"lte=0"`
	DirContentRatio  float64 `toml:"dir_content_ratio"   validate:"gte=0"`
	DirGameSubdir    float64 `toml:"dir_game_subdir"     validate:"gte=0"`
	DirGameSubdirMax float64 `toml:"dir_game_subdir_max" validate:"gte=0"`
}

// DefaultWeights is weight table v1. The historical scorer variants this
// consolidates used inconsistent scales; this table is bounded so a full
// executable score clamps into [0, 100].
var DefaultWeights = Weights{
	Version: "v1",

	ExactName:       50,
	ContainmentMax:  30,
	WordMatch:       8,
	WordCoverageMax: 12,
	GenericExeName:  5,
	SizeTinyPenalty: -10,
	SizeSmall:       6,
	SizeMedium:      10,
	SizeLarge:       12,
	EngineBinDir:    10,
	GenericBinDir:   6,
	RootLevel:       3,
	ExcessDepthStep: -4,
	UtilityPathStep: -12,

	DirNameExact:     20,
	DirNamePartial:   10,
	DirNameGeneric:   4,
	DirNameNegative:  -15,
	DirContentRatio:  10,
	DirGameSubdir:    3,
	DirGameSubdirMax: 9,
}

// Score bounds for one executable.
const (
	MinScore = 0
	MaxScore = 100
)

// Confidence tier cutoffs on the clamped executable score.
const (
	tierHighCutoff   = 60
	tierMediumCutoff = 30
)

// Blocklist substrings. Any executable whose file name contains one of
// these is an installer, uninstaller, or utility binary and scores exactly
// zero regardless of every other signal.
var blocklist = []string{
	"unins",
	"launcher",
	"crash",
	"setup",
	"config",
	"redist",
	"install",
}

// utilityPathKeywords down-weight candidates whose parent directories look
// like launcher or installer staging areas. Unlike the blocklist this only
// penalizes: a legitimate binary occasionally lives under a "Launcher"
// folder.
var utilityPathKeywords = []string{
	"launcher",
	"setup",
}

// genericExeNames are names engines commonly give the real game binary.
var genericExeNames = []string{
	"game",
	"main",
	"client",
	"app",
	"play",
}

// engineBinDirs are engine-specific output directories that very often hold
// the shipping binary.
var engineBinDirs = []string{
	"win64",
	"win32",
	"x64",
	"binaries",
	"retail",
	"shipping",
}

// genericBinDirs are weaker location hints than engineBinDirs.
var genericBinDirs = []string{
	"bin",
	"game",
	"binary",
}

// Size buckets for the file-size heuristic. Bucketed rather than linear so
// one oversized asset cannot dominate the ranking purely on size.
const (
	sizeTiny   = 1 << 20   // under 1 MB: almost never the game
	sizeMedium = 10 << 20  // 10 MB
	sizeLarge  = 100 << 20 // 100 MB
)

// depthComfortLimit is the nesting depth beyond which each extra level is
// penalized.
const depthComfortLimit = 2
