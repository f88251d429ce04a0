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

import "path/filepath"

// Status is the outcome class of a detection request.
type Status string

const (
	// StatusFound means a binary was chosen with at least low confidence.
	StatusFound Status = "found"
	// StatusNotFound means no candidate survived scanning. Non-fatal.
	StatusNotFound Status = "not_found"
	// StatusIncompatiblePlatform means the install is a Linux-native build
	// that cannot load Windows shader DLLs. Returned instead of forcing a
	// low-confidence Windows match.
	StatusIncompatiblePlatform Status = "incompatible_platform"
)

// Method records which detection strategy produced the result.
type Method string

const (
	// MethodLaunchLog is the authoritative strategy: the path came from a
	// recent launcher log line and was verified to still exist.
	MethodLaunchLog Method = "launch_log"
	// MethodHeuristic is the scanner/scorer pipeline.
	MethodHeuristic Method = "heuristic"
)

// ConfidenceTier is the coarse high/medium/low bucket shown to users.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// DetectionResult is what a detection request produces. Chosen is nil when
// Status is not StatusFound. Alternatives carries the remaining ranked
// candidates with their rationales so callers can resolve ambiguity
// themselves; the engine never reports an "ambiguous" error.
type DetectionResult struct {
	Chosen       *ScoredCandidate
	Status       Status
	Method       Method
	Tier         ConfidenceTier
	Architecture Architecture
	Alternatives []ScoredCandidate
}

// InjectionDir returns the directory shader files should land in: the
// chosen binary's parent. Empty when nothing was chosen.
func (r DetectionResult) InjectionDir() string {
	if r.Chosen == nil {
		return ""
	}
	return filepath.Dir(r.Chosen.Candidate.AbsolutePath)
}
