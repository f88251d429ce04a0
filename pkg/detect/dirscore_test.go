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
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeFileInfo struct {
	name string
	size int64
	dir  bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.dir }
func (f fakeFileInfo) Sys() any           { return nil }

func toFileInfos(entries []fakeFileInfo) []fs.FileInfo {
	infos := make([]fs.FileInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, entry)
	}
	return infos
}

func TestDirNamePoints(t *testing.T) {
	t.Parallel()

	target := NewTarget("My Game", "/games/mygame", "")
	w := &DefaultWeights

	tests := []struct {
		name     string
		dirName  string
		expected float64
	}{
		{"exact_match", "My-Game", w.DirNameExact},
		{"partial_match", "My Game GOTY", w.DirNamePartial},
		{"generic_name", "bin", w.DirNameGeneric},
		{"support_payload", "_CommonRedist", w.DirNameNegative},
		{"directx_is_negative", "DirectX", w.DirNameNegative},
		{"unrelated", "zzdir", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, dirNamePoints(target, tt.dirName, w), 1e-9)
		})
	}
}

func TestContentBalancePoints(t *testing.T) {
	t.Parallel()

	w := &DefaultWeights

	gameLike := DirectoryContentProfile{Libraries: 5, Configs: 2, Assets: 3}
	installerDrop := DirectoryContentProfile{Libraries: 1, Installers: 4}
	empty := DirectoryContentProfile{}

	assert.InDelta(t, w.DirContentRatio, contentBalancePoints(gameLike, w), 1e-9)
	assert.Less(t, contentBalancePoints(installerDrop, w), contentBalancePoints(gameLike, w))
	assert.Zero(t, contentBalancePoints(empty, w))
}

func TestProfileEntries_Classification(t *testing.T) {
	t.Parallel()

	entries := []fakeFileInfo{
		{name: "game.exe"},
		{name: "setup.exe"},
		{name: "engine.dll"},
		{name: "settings.ini"},
		{name: "pak0.pak"},
		{name: "installer.msi"},
		{name: "libsteam_api.so"},
		{name: "libGL.so.1.2"},
		{name: "start.sh"},
		{name: "data", dir: true},
	}

	profile := profileEntries(toFileInfos(entries))

	assert.Equal(t, 2, profile.Executables)
	assert.Equal(t, 2, profile.Installers, "setup.exe counts, installer.msi adds another")
	assert.Equal(t, 1, profile.Libraries)
	assert.Equal(t, 1, profile.Configs)
	assert.Equal(t, 1, profile.Assets)
	assert.Equal(t, 2, profile.SharedObjects)
	assert.Equal(t, 1, profile.ShellScripts)
	assert.Equal(t, []string{"data"}, profile.Subdirs)
}

func TestScoreDirectory_BestExeDominates(t *testing.T) {
	t.Parallel()

	target := NewTarget("Arena", "/games/arena", "")
	profile := DirectoryContentProfile{Libraries: 3, Configs: 1}

	best := ScoreExecutable(target, candidate("arena.exe", 200<<20, 0), &DefaultWeights)
	withExe := scoreDirectory(target, "/games/arena", ".", 0, profile, &best, &DefaultWeights)
	without := scoreDirectory(target, "/games/arena", ".", 0, profile, nil, &DefaultWeights)

	assert.Greater(t, withExe.Score, without.Score)
}

func TestScoreDirectory_GameSubdirBonusIsCapped(t *testing.T) {
	t.Parallel()

	target := NewTarget("Arena", "/games/arena", "")
	profile := DirectoryContentProfile{
		Subdirs: []string{"data", "config", "save", "content", "assets"},
	}

	scored := scoreDirectory(target, "/some/dir", ".", 0, profile, nil, &DefaultWeights)

	for _, sc := range scored.Rationale {
		if sc.Signal == SignalDirGameLike {
			assert.InDelta(t, DefaultWeights.DirGameSubdirMax, sc.Points, 1e-9)
			return
		}
	}
	t.Fatal("expected a game-subdir rationale entry")
}
