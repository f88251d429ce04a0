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
	"context"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// PlatformHint is an explicit platform marker from accompanying install
// metadata (Steam appinfo oslist, Heroic platform field). Empty when the
// launcher didn't say.
type PlatformHint string

const (
	PlatformUnknown PlatformHint = ""
	PlatformWindows PlatformHint = "windows"
	PlatformLinux   PlatformHint = "linux"
)

// Linux-native indicator thresholds for the compatibility gate.
const (
	strongSharedObjectCount = 5
	mediumSharedObjectCount = 2
	mediumShellScriptCount  = 2
)

// Policy orchestrates the two detection strategies and applies tie-breaks
// and the platform-compatibility gate. Both strategies always run so a
// human can override the preferred one with the other's output.
type Policy struct {
	fs        afero.Fs
	scanner   *Scanner
	launchLog *LaunchLogResolver
	arch      *ArchProber
	weights   *Weights
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithScanner overrides the default scanner.
func WithScanner(s *Scanner) PolicyOption {
	return func(p *Policy) {
		p.scanner = s
	}
}

// WithLaunchLog attaches the authoritative launch-log strategy.
func WithLaunchLog(r *LaunchLogResolver) PolicyOption {
	return func(p *Policy) {
		p.launchLog = r
	}
}

// WithArchProber attaches the auxiliary binary-architecture probe.
func WithArchProber(a *ArchProber) PolicyOption {
	return func(p *Policy) {
		p.arch = a
	}
}

// WithPolicyWeights sets the scoring weight table used by the policy's
// default scanner.
func WithPolicyWeights(w *Weights) PolicyOption {
	return func(p *Policy) {
		p.weights = w
	}
}

// NewPolicy creates a selection policy over the given filesystem.
func NewPolicy(fsys afero.Fs, opts ...PolicyOption) *Policy {
	p := &Policy{
		fs:      fsys,
		weights: &DefaultWeights,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scanner == nil {
		p.scanner = NewScanner(fsys, WithWeights(p.weights))
	}
	return p
}

// Detect resolves the target's game binary. hint is the launcher's explicit
// platform marker when one exists.
func (p *Policy) Detect(ctx context.Context, t TargetDescriptor, hint PlatformHint) DetectionResult {
	report := p.scanner.Scan(t)
	ranked := rankCandidates(report.Candidates, directoryContext(report.Directories))

	// The authoritative strategy wins whenever its path is still live, but
	// the heuristic ranking is computed regardless and shipped as
	// alternatives so a caller can override.
	if p.launchLog != nil {
		if path, ok := p.launchLog.Resolve(t.AppID); ok {
			chosen := p.candidateFromLogPath(t, path)
			log.Info().
				Str("target", t.RawName).
				Str("exe", path).
				Msg("resolved binary from launch log")
			return p.finish(ctx, DetectionResult{
				Status:       StatusFound,
				Method:       MethodLaunchLog,
				Chosen:       &chosen,
				Tier:         TierHigh,
				Alternatives: ranked,
			})
		}
	}

	if incompatible(report.Profile, ranked, hint) {
		log.Info().
			Str("target", t.RawName).
			Int("sharedObjects", report.Profile.SharedObjects).
			Int("shellScripts", report.Profile.ShellScripts).
			Msg("install looks Linux-native, refusing Windows injection")
		return DetectionResult{
			Status:       StatusIncompatiblePlatform,
			Method:       MethodHeuristic,
			Tier:         TierLow,
			Alternatives: ranked,
		}
	}

	if len(ranked) == 0 {
		return DetectionResult{
			Status: StatusNotFound,
			Method: MethodHeuristic,
			Tier:   TierLow,
		}
	}

	chosen := ranked[0]
	return p.finish(ctx, DetectionResult{
		Status:       StatusFound,
		Method:       MethodHeuristic,
		Chosen:       &chosen,
		Tier:         TierFor(chosen.Score),
		Alternatives: ranked[1:],
	})
}

// finish attaches the architecture signal to a found result.
func (p *Policy) finish(ctx context.Context, result DetectionResult) DetectionResult {
	result.Architecture = Arch64
	if p.arch != nil && result.Chosen != nil {
		result.Architecture = p.arch.Probe(ctx, result.Chosen.Candidate.AbsolutePath)
	}
	return result
}

// candidateFromLogPath wraps a log-resolved path as a scored candidate so
// downstream consumers see a uniform shape. Stat failures leave the size
// unknown, same as the scanner.
func (p *Policy) candidateFromLogPath(t TargetDescriptor, path string) ScoredCandidate {
	size := int64(-1)
	if info, err := p.fs.Stat(path); err == nil {
		size = info.Size()
	}

	rel, err := filepath.Rel(filepath.Clean(t.InstallPath), path)
	if err != nil || rel == "" {
		rel = filepath.Base(path)
	}

	return ScoredCandidate{
		Candidate: CandidateExecutable{
			AbsolutePath: path,
			RelativePath: rel,
			SizeBytes:    size,
			Depth:        pathDepth(rel),
		},
		Score:     MaxScore,
		Rationale: []SignalContribution{{Signal: "launch_log", Points: MaxScore}},
	}
}

func pathDepth(rel string) int {
	dir := filepath.Dir(filepath.ToSlash(rel))
	if dir == "." || dir == "/" {
		return 0
	}
	depth := 1
	for _, r := range dir {
		if r == '/' {
			depth++
		}
	}
	return depth
}

// directoryContext maps each scanned directory to the non-executable part
// of its combined score: name similarity, content balance, and game-typical
// subdirectories, without the best-exe contribution the candidates already
// carry themselves.
func directoryContext(dirs []ScoredDirectory) map[string]float64 {
	ctx := make(map[string]float64, len(dirs))
	for _, d := range dirs {
		score := d.Score
		if d.BestExe != nil {
			score -= d.BestExe.Score
		}
		ctx[d.Path] = score
	}
	return ctx
}

// rankCandidates sorts by the fixed tie-break order: highest score, then
// shallowest path, then largest file. Candidates nothing else separates
// fall back to their containing directory's context score, so a binary
// sitting next to DLLs and game data outranks its twin in an installer
// drop.
func rankCandidates(candidates []ScoredCandidate, dirContext map[string]float64) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Candidate.Depth != b.Candidate.Depth {
			return a.Candidate.Depth < b.Candidate.Depth
		}
		if a.Candidate.SizeBytes != b.Candidate.SizeBytes {
			return a.Candidate.SizeBytes > b.Candidate.SizeBytes
		}
		return dirContext[filepath.Dir(a.Candidate.AbsolutePath)] >
			dirContext[filepath.Dir(b.Candidate.AbsolutePath)]
	})
	return ranked
}

// incompatible is the platform-compatibility gate: a tree with strong (or
// multiple medium) Linux-native indicators and no credible Windows
// executable is a native build, and injecting Windows DLLs into it would do
// nothing but break the install.
func incompatible(profile DirectoryContentProfile, ranked []ScoredCandidate, hint PlatformHint) bool {
	if hint == PlatformWindows {
		return false
	}

	credibleWindows := 0
	for _, c := range ranked {
		if c.Score >= tierMediumCutoff {
			credibleWindows++
		}
	}
	if credibleWindows > 0 {
		return false
	}

	if hint == PlatformLinux {
		return true
	}

	// No Windows executable anywhere, but native payload on both axes:
	// nothing to inject into.
	if profile.Executables == 0 && profile.SharedObjects > 0 && profile.ShellScripts > 0 {
		return true
	}

	strong := profile.SharedObjects >= strongSharedObjectCount
	mediums := 0
	if profile.SharedObjects >= mediumSharedObjectCount {
		mediums++
	}
	if profile.ShellScripts >= mediumShellScriptCount {
		mediums++
	}
	return strong || mediums >= 2
}
