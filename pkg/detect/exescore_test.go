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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func candidate(rel string, size int64, depth int) CandidateExecutable {
	return CandidateExecutable{
		AbsolutePath: "/games/target/" + rel,
		RelativePath: rel,
		SizeBytes:    size,
		Depth:        depth,
	}
}

func TestScoreExecutable_BlocklistIsTerminal(t *testing.T) {
	t.Parallel()

	target := NewTarget("My Game", "/games/target", "")
	blocked := []string{
		"unins000.exe",
		"UnityCrashHandler64.exe",
		"My Game Launcher.exe",
		"setup.exe",
		"DXSETUP.exe",
		"vcredist_x64.exe",
		"config_tool.exe",
		"install_helper.exe",
	}

	// Huge size and perfect location must not rescue a blocklisted name.
	for _, name := range blocked {
		scored := ScoreExecutable(target, candidate(name, 500<<20, 0), &DefaultWeights)
		assert.Zero(t, scored.Score, name)
		require.Len(t, scored.Rationale, 1, name)
		assert.Equal(t, SignalBlocklist, scored.Rationale[0].Signal, name)
	}
}

func TestScoreExecutable_ExactNameOutranksEverything(t *testing.T) {
	t.Parallel()

	target := NewTarget("Deep Rock Galactic", "/games/drg", "")

	exact := ScoreExecutable(target,
		candidate("deep-rock-galactic.exe", 2<<20, 0), &DefaultWeights)
	partial := ScoreExecutable(target,
		candidate("drg_client.exe", 200<<20, 1), &DefaultWeights)

	assert.Greater(t, exact.Score, partial.Score)
	assert.True(t, hasSignal(exact, SignalExactName))
	assert.False(t, hasSignal(partial, SignalExactName))
}

func TestScoreExecutable_ShippingBinaryBeatsRedistAndLauncher(t *testing.T) {
	t.Parallel()

	// The tree a stock Unreal title ships with: the real binary nested
	// under Binaries/Win64, junk at the root.
	target := NewTarget("MyGame", "/games/MyGame", "")

	shipping := ScoreExecutable(target,
		candidate("MyGame/Binaries/Win64/MyGame-Win64-Shipping.exe", 120<<20, 3),
		&DefaultWeights)
	redist := ScoreExecutable(target,
		candidate("Redist/vcredist_x64.exe", 15<<20, 1), &DefaultWeights)
	launcher := ScoreExecutable(target,
		candidate("MyGameLauncher.exe", 2<<20, 0), &DefaultWeights)

	assert.Zero(t, redist.Score)
	assert.Zero(t, launcher.Score)
	assert.Greater(t, shipping.Score, float64(tierMediumCutoff))
	assert.Equal(t, TierMedium, TierFor(shipping.Score))
	assert.True(t, hasSignal(shipping, SignalPathLocation))
	assert.True(t, hasSignal(shipping, SignalExcessDepth))
}

func TestScoreExecutable_CamelCaseNameMatchesSpacedTitle(t *testing.T) {
	t.Parallel()

	// The canonical Steam installdir shape: the title with its spaces
	// squeezed out. That must still count as a name signal.
	target := NewTarget("Celestial Drift", "/games/CelestialDrift", "")

	camel := ScoreExecutable(target,
		candidate("CelestialDrift.exe", 90<<20, 0), &DefaultWeights)
	unrelated := ScoreExecutable(target,
		candidate("zzphys.exe", 90<<20, 0), &DefaultWeights)

	assert.True(t, hasSignal(camel, SignalContainment))
	assert.Greater(t, camel.Score, unrelated.Score)

	launcherVariant := ScoreExecutable(target,
		candidate("CelestialDriftDemo.exe", 90<<20, 0), &DefaultWeights)
	assert.True(t, hasSignal(launcherVariant, SignalContainment))
	assert.Greater(t, camel.Score, launcherVariant.Score,
		"full coverage outranks partial coverage")
}

func TestScoreExecutable_SizeBuckets(t *testing.T) {
	t.Parallel()

	target := NewTarget("Arena", "/games/arena", "")

	tiny := ScoreExecutable(target, candidate("arena.exe", 100<<10, 0), &DefaultWeights)
	small := ScoreExecutable(target, candidate("arena.exe", 5<<20, 0), &DefaultWeights)
	medium := ScoreExecutable(target, candidate("arena.exe", 50<<20, 0), &DefaultWeights)
	large := ScoreExecutable(target, candidate("arena.exe", 500<<20, 0), &DefaultWeights)

	assert.Less(t, tiny.Score, small.Score)
	assert.Less(t, small.Score, medium.Score)
	assert.Less(t, medium.Score, large.Score)
}

func TestScoreExecutable_UnknownSizeSkipsSizeSignal(t *testing.T) {
	t.Parallel()

	target := NewTarget("Arena", "/games/arena", "")
	scored := ScoreExecutable(target, candidate("arena.exe", -1, 0), &DefaultWeights)

	assert.False(t, hasSignal(scored, SignalFileSize))
	assert.Positive(t, scored.Score)
}

func TestScoreExecutable_UtilityDirsPenalizeWithoutZeroing(t *testing.T) {
	t.Parallel()

	target := NewTarget("Arena", "/games/arena", "")

	inLauncherDir := ScoreExecutable(target,
		candidate("Launcher/arena.exe", 50<<20, 1), &DefaultWeights)
	atRoot := ScoreExecutable(target,
		candidate("arena.exe", 50<<20, 0), &DefaultWeights)

	assert.True(t, hasSignal(inLauncherDir, SignalUtilityPath))
	assert.Less(t, inLauncherDir.Score, atRoot.Score)
	assert.Positive(t, inLauncherDir.Score,
		"a directory keyword must down-weight, not zero")
}

func TestScoreExecutable_GenericNameBonus(t *testing.T) {
	t.Parallel()

	target := NewTarget("Obscure Title", "/games/obscure", "")

	generic := ScoreExecutable(target, candidate("game.exe", 50<<20, 0), &DefaultWeights)
	unrelated := ScoreExecutable(target, candidate("zzphys.exe", 50<<20, 0), &DefaultWeights)

	assert.True(t, hasSignal(generic, SignalGenericName))
	assert.Greater(t, generic.Score, unrelated.Score)
}

func TestScoreExecutable_RationaleSumsToScore(t *testing.T) {
	t.Parallel()

	target := NewTarget("Deep Rock Galactic", "/games/drg", "")
	scored := ScoreExecutable(target,
		candidate("FSD/Binaries/Win64/FSD-Win64-Shipping.exe", 80<<20, 3),
		&DefaultWeights)

	var sum float64
	for _, sc := range scored.Rationale {
		sum += sc.Points
	}
	assert.InDelta(t, scored.Score, clampScore(sum), 1e-9)
}

func TestTierFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TierHigh, TierFor(60))
	assert.Equal(t, TierHigh, TierFor(100))
	assert.Equal(t, TierMedium, TierFor(30))
	assert.Equal(t, TierMedium, TierFor(59.9))
	assert.Equal(t, TierLow, TierFor(29.9))
	assert.Equal(t, TierLow, TierFor(0))
}

func TestPropertyScoreDeterministicAndBounded(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9 ]{1,30}`).Draw(t, "name")
		rel := rapid.StringMatching(`([A-Za-z0-9]{1,12}/){0,3}[A-Za-z0-9]{1,12}\.exe`).
			Draw(t, "rel")
		size := rapid.Int64Range(-1, 1<<31).Draw(t, "size")
		depth := rapid.IntRange(0, 6).Draw(t, "depth")

		target := NewTarget(name, "/games/x", "")
		c := candidate(rel, size, depth)

		first := ScoreExecutable(target, c, &DefaultWeights)
		second := ScoreExecutable(target, c, &DefaultWeights)

		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first.Score, float64(MinScore))
		assert.LessOrEqual(t, first.Score, float64(MaxScore))
	})
}

func hasSignal(sc ScoredCandidate, signal string) bool {
	for _, entry := range sc.Rationale {
		if entry.Signal == signal {
			return true
		}
	}
	return false
}
