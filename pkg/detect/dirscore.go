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
	"path/filepath"
	"strings"
)

// DirectoryContentProfile counts file classes under one directory. The
// directory scorer reads the game-content / installer-content balance; the
// platform gate reads the native-build indicators.
type DirectoryContentProfile struct {
	Executables   int
	Libraries     int
	Configs       int
	Assets        int
	Installers    int
	SharedObjects int
	ShellScripts  int
	Subdirs       []string
}

func (p *DirectoryContentProfile) add(other DirectoryContentProfile) {
	p.Executables += other.Executables
	p.Libraries += other.Libraries
	p.Configs += other.Configs
	p.Assets += other.Assets
	p.Installers += other.Installers
	p.SharedObjects += other.SharedObjects
	p.ShellScripts += other.ShellScripts
}

var (
	configExts = map[string]struct{}{
		".ini": {}, ".cfg": {}, ".xml": {}, ".json": {}, ".yml": {}, ".yaml": {}, ".toml": {},
	}
	assetExts = map[string]struct{}{
		".pak": {}, ".dat": {}, ".bik": {}, ".bsa": {}, ".vpk": {}, ".wad": {},
		".assets": {}, ".bundle": {}, ".bank": {}, ".upk": {}, ".arc": {}, ".big": {},
	}
	// Directories that game installs typically carry next to the binary.
	gameSubdirNames = []string{"data", "config", "save", "content", "assets"}

	// Generic container names that say nothing about which game lives here.
	genericDirNames = []string{"bin", "game", "app"}

	// Directories that are usually support payload, not the game.
	negativeDirNames = []string{
		"redist", "directx", "vcredist", "dotnet", "support",
		"tools", "extras", "soundtrack", "commonredist",
	}
)

func profileEntries(entries []fs.FileInfo) DirectoryContentProfile {
	var p DirectoryContentProfile
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() {
			p.Subdirs = append(p.Subdirs, name)
			continue
		}

		ext := filepath.Ext(name)
		switch {
		case ext == ".exe":
			p.Executables++
			if isInstallerName(name) {
				p.Installers++
			}
		case ext == ".dll":
			p.Libraries++
		case ext == ".msi":
			p.Installers++
		case ext == ".sh":
			p.ShellScripts++
		case isSharedObject(name):
			p.SharedObjects++
		default:
			if _, ok := configExts[ext]; ok {
				p.Configs++
			} else if _, ok := assetExts[ext]; ok {
				p.Assets++
			}
		}
	}
	return p
}

// isSharedObject matches Linux shared libraries, including versioned names
// like libfoo.so.1.2.
func isSharedObject(name string) bool {
	return strings.HasSuffix(name, ".so") || strings.Contains(name, ".so.")
}

func isInstallerName(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, blocked := range blocklist {
		if strings.Contains(stem, blocked) {
			return true
		}
	}
	return false
}

// ScoredDirectory is one scanned directory with its combined ranking: the
// directory's own content/name score added to its best contained-executable
// score. Used when several plausible directories sit at the same depth and
// no single executable is decisive.
type ScoredDirectory struct {
	Path      string
	RelPath   string
	BestExe   *ScoredCandidate
	Rationale []SignalContribution
	Profile   DirectoryContentProfile
	Score     float64
	Depth     int
}

// Directory signal names.
const (
	SignalDirName     = "dir_name"
	SignalDirContents = "dir_contents"
	SignalDirGameLike = "dir_game_subdirs"
	SignalDirBestExe  = "dir_best_exe"
)

// scoreDirectory scores a directory's aggregate content against the target.
// Pure, like the executable scorer.
func scoreDirectory(
	t TargetDescriptor,
	path, relPath string,
	depth int,
	profile DirectoryContentProfile,
	bestExe *ScoredCandidate,
	w *Weights,
) ScoredDirectory {
	var score float64
	rationale := make([]SignalContribution, 0, 4)
	add := func(signal string, points float64) {
		if points == 0 {
			return
		}
		score += points
		rationale = append(rationale, SignalContribution{Signal: signal, Points: points})
	}

	add(SignalDirName, dirNamePoints(t, filepath.Base(path), w))
	add(SignalDirContents, contentBalancePoints(profile, w))

	gameLike := 0
	for _, sub := range profile.Subdirs {
		for _, typical := range gameSubdirNames {
			if sub == typical {
				gameLike++
				break
			}
		}
	}
	if gameLike > 0 {
		points := w.DirGameSubdir * float64(gameLike)
		if points > w.DirGameSubdirMax {
			points = w.DirGameSubdirMax
		}
		add(SignalDirGameLike, points)
	}

	if bestExe != nil {
		add(SignalDirBestExe, bestExe.Score)
	}

	return ScoredDirectory{
		Path:      path,
		RelPath:   relPath,
		Depth:     depth,
		Profile:   profile,
		BestExe:   bestExe,
		Score:     score,
		Rationale: rationale,
	}
}

// dirNamePoints ranks name similarity: exact beats partial beats the
// generic-name list, and known support directories go negative.
func dirNamePoints(t TargetDescriptor, dirName string, w *Weights) float64 {
	norm := Normalize(dirName)

	lower := strings.ToLower(dirName)
	for _, negative := range negativeDirNames {
		if strings.Contains(lower, negative) {
			return w.DirNameNegative
		}
	}

	if norm != "" && norm == t.NormalizedName {
		return w.DirNameExact
	}
	if containmentRatio(t.NormalizedName, norm) > 0 {
		return w.DirNamePartial
	}
	for _, generic := range genericDirNames {
		if norm == generic {
			return w.DirNameGeneric
		}
	}
	return 0
}

// contentBalancePoints rewards directories whose payload looks like a game
// (DLLs, configs, assets) rather than an installer drop (redistributables).
func contentBalancePoints(p DirectoryContentProfile, w *Weights) float64 {
	gameFiles := p.Libraries + p.Configs + p.Assets
	if gameFiles == 0 {
		return 0
	}
	ratio := float64(gameFiles) / float64(gameFiles+p.Installers)
	return w.DirContentRatio * ratio
}
