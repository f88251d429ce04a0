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
	"path/filepath"
	"strings"
)

// CandidateExecutable is one executable file produced by the scanner.
// SizeBytes is negative when the file could not be stat'd (permission or
// race); the size signal is then omitted rather than failing the score.
type CandidateExecutable struct {
	AbsolutePath string
	RelativePath string
	SizeBytes    int64
	Depth        int
}

// Stem returns the candidate's file name without its extension.
func (c CandidateExecutable) Stem() string {
	name := filepath.Base(c.RelativePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SignalContribution records one scoring signal and the points it added.
// The ordered rationale makes every ranking decision reproducible in logs
// and directly assertable in tests.
type SignalContribution struct {
	Signal string
	Points float64
}

// ScoredCandidate pairs a candidate with its clamped score and rationale.
type ScoredCandidate struct {
	Candidate CandidateExecutable
	Rationale []SignalContribution
	Score     float64
}

// Signal names used in rationale entries.
const (
	SignalBlocklist    = "blocklist"
	SignalExactName    = "exact_name"
	SignalContainment  = "containment"
	SignalWordOverlap  = "word_overlap"
	SignalGenericName  = "generic_name"
	SignalFileSize     = "file_size"
	SignalPathLocation = "path_location"
	SignalExcessDepth  = "excess_depth"
	SignalUtilityPath  = "utility_path"
)

// ScoreExecutable scores one candidate against the target. It is a pure
// function of its inputs: the same descriptor, candidate, and weight table
// always produce the same score and rationale.
//
// A blocklist hit is terminal and yields exactly zero. Every other signal
// is additive and the total clamps into [MinScore, MaxScore].
func ScoreExecutable(t TargetDescriptor, c CandidateExecutable, w *Weights) ScoredCandidate {
	stem := strings.ToLower(c.Stem())

	for _, blocked := range blocklist {
		if strings.Contains(stem, blocked) {
			return ScoredCandidate{
				Candidate: c,
				Score:     0,
				Rationale: []SignalContribution{{Signal: SignalBlocklist, Points: 0}},
			}
		}
	}

	var score float64
	rationale := make([]SignalContribution, 0, 8)
	add := func(signal string, points float64) {
		if points == 0 {
			return
		}
		score += points
		rationale = append(rationale, SignalContribution{Signal: signal, Points: points})
	}

	normStem := Normalize(stem)

	if normStem != "" && normStem == t.NormalizedName {
		add(SignalExactName, w.ExactName)
	} else if overlap := containmentRatio(t.NormalizedName, normStem); overlap > 0 {
		add(SignalContainment, w.ContainmentMax*overlap)
	}

	if matched, coverage := wordOverlap(t.Words, normStem); matched > 0 {
		add(SignalWordOverlap, w.WordMatch*float64(matched)+w.WordCoverageMax*coverage)
	}

	for _, generic := range genericExeNames {
		if strings.Contains(normStem, generic) {
			add(SignalGenericName, w.GenericExeName)
			break
		}
	}

	if c.SizeBytes >= 0 {
		add(SignalFileSize, sizeBucketPoints(c.SizeBytes, w))
	}

	add(SignalPathLocation, pathLocationPoints(c, w))

	if c.Depth > depthComfortLimit {
		add(SignalExcessDepth, w.ExcessDepthStep*float64(c.Depth-depthComfortLimit))
	}

	if hit := utilityPathHits(c.RelativePath); hit > 0 {
		add(SignalUtilityPath, w.UtilityPathStep*float64(hit))
	}

	return ScoredCandidate{
		Candidate: c,
		Score:     clampScore(score),
		Rationale: rationale,
	}
}

// containmentRatio reports how much of the longer string the shorter one
// covers when one normalized name contains the other. Zero means no
// containment. When the spaced forms don't contain each other it retries
// with spaces squeezed out, since install directories and binaries are
// usually the camel-cased title ("CelestialDrift" for "Celestial Drift").
func containmentRatio(target, candidate string) float64 {
	if ratio := rawContainment(target, candidate); ratio > 0 {
		return ratio
	}
	return rawContainment(
		strings.ReplaceAll(target, " ", ""),
		strings.ReplaceAll(candidate, " ", ""),
	)
}

// rawContainment is the containment check on one pair of forms. Trivially
// short names don't count: "a" being a substring of almost anything is
// noise, not signal.
func rawContainment(target, candidate string) float64 {
	if target == "" || candidate == "" {
		return 0
	}

	shorter, longer := target, candidate
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 3 {
		return 0
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}

// wordOverlap intersects the target's word set with the words of the
// candidate stem. It returns the match count and the fraction of target
// words covered.
func wordOverlap(targetWords map[string]struct{}, normStem string) (matched int, coverage float64) {
	if len(targetWords) == 0 {
		return 0, 0
	}
	for _, word := range strings.Fields(normStem) {
		if _, ok := targetWords[word]; ok {
			matched++
		}
	}
	if matched == 0 {
		return 0, 0
	}
	if matched > len(targetWords) {
		matched = len(targetWords)
	}
	return matched, float64(matched) / float64(len(targetWords))
}

func sizeBucketPoints(size int64, w *Weights) float64 {
	switch {
	case size < sizeTiny:
		return w.SizeTinyPenalty
	case size < sizeMedium:
		return w.SizeSmall
	case size < sizeLarge:
		return w.SizeMedium
	default:
		return w.SizeLarge
	}
}

// pathLocationPoints scores where in the tree the candidate sits. Engine
// binary directories outrank generic bin directories, which outrank plain
// root-level placement.
func pathLocationPoints(c CandidateExecutable, w *Weights) float64 {
	if c.Depth == 0 {
		return w.RootLevel
	}

	dirs := strings.Split(strings.ToLower(filepath.ToSlash(filepath.Dir(c.RelativePath))), "/")
	for _, dir := range dirs {
		for _, engine := range engineBinDirs {
			if dir == engine {
				return w.EngineBinDir
			}
		}
	}
	for _, dir := range dirs {
		for _, generic := range genericBinDirs {
			if dir == generic {
				return w.GenericBinDir
			}
		}
	}
	return 0
}

// utilityPathHits counts parent directories that look like launcher or
// setup staging areas. The file name itself is the blocklist's business;
// this only inspects the directory components.
func utilityPathHits(relPath string) int {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return 0
	}

	hits := 0
	for _, component := range strings.Split(strings.ToLower(filepath.ToSlash(dir)), "/") {
		for _, kw := range utilityPathKeywords {
			if strings.Contains(component, kw) {
				hits++
				break
			}
		}
	}
	return hits
}

func clampScore(score float64) float64 {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// TierFor buckets a clamped score into the coarse confidence tier shown to
// users.
func TierFor(score float64) ConfidenceTier {
	switch {
	case score >= tierHighCutoff:
		return TierHigh
	case score >= tierMediumCutoff:
		return TierMedium
	default:
		return TierLow
	}
}
