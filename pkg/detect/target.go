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
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// TargetDescriptor is the immutable description of the game being resolved.
// It is built once per detection request and carries everything the scoring
// functions are allowed to see about the target.
type TargetDescriptor struct {
	Words          map[string]struct{}
	RawName        string
	NormalizedName string
	InstallPath    string
	AppID          string
}

// NewTarget builds a TargetDescriptor from a declared title and resolved
// install directory. appID is the launcher's identifier for the game when
// one is known (Steam AppID, Heroic app name) and may be empty.
//
// An empty title falls back to the install directory's base name, which is
// frequently the only name a sideloaded game has.
func NewTarget(rawName, installPath, appID string) TargetDescriptor {
	if rawName == "" {
		rawName = filepath.Base(installPath)
	}

	normalized := Normalize(rawName)
	return TargetDescriptor{
		RawName:        rawName,
		NormalizedName: normalized,
		Words:          WordSet(rawName),
		InstallPath:    installPath,
		AppID:          appID,
	}
}

// ID returns the stable cache identifier for the target. Descriptors with a
// launcher app ID key on it so install/uninstall events can invalidate by ID
// alone; otherwise the install path stands in.
func (t TargetDescriptor) ID() string {
	if t.AppID != "" {
		return t.AppID
	}
	return t.InstallPath
}

// Fingerprint hashes every descriptor field. The cache stores it alongside
// each entry so a changed title or install path never serves a stale result
// under the same target ID.
func (t TargetDescriptor) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(t.RawName))
	h.Write([]byte{0})
	h.Write([]byte(t.InstallPath))
	h.Write([]byte{0})
	h.Write([]byte(t.AppID))
	return hex.EncodeToString(h.Sum(nil))
}
