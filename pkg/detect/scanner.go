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

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// DefaultMaxDepth bounds how deep the scanner descends below the
	// install root.
	DefaultMaxDepth = 4

	// DefaultGoodEnoughScore stops descent out of a directory whose best
	// local candidate already scored at least this much.
	DefaultGoodEnoughScore = 60
)

// Scanner enumerates and scores executable candidates under an install
// root. Traversal is an explicit depth-bounded worklist: no input shape can
// recurse it to death, and a directory is never visited twice.
type Scanner struct {
	fs         afero.Fs
	weights    *Weights
	maxDepth   int
	goodEnough float64
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithMaxDepth sets the traversal depth bound.
func WithMaxDepth(depth int) ScannerOption {
	return func(s *Scanner) {
		s.maxDepth = depth
	}
}

// WithGoodEnoughScore sets the local score above which the scanner stops
// descending out of a directory.
func WithGoodEnoughScore(score float64) ScannerOption {
	return func(s *Scanner) {
		s.goodEnough = score
	}
}

// WithWeights sets the scoring weight table.
func WithWeights(w *Weights) ScannerOption {
	return func(s *Scanner) {
		s.weights = w
	}
}

// NewScanner creates a scanner over the given filesystem.
func NewScanner(fsys afero.Fs, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		fs:         fsys,
		weights:    &DefaultWeights,
		maxDepth:   DefaultMaxDepth,
		goodEnough: DefaultGoodEnoughScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanReport is everything one traversal learned about an install tree.
type ScanReport struct {
	// Candidates are all scored executables, unsorted. Blocklisted files
	// are excluded entirely.
	Candidates []ScoredCandidate
	// Directories are the scanned directories with their combined
	// directory scores.
	Directories []ScoredDirectory
	// Profile aggregates file-class counts across the whole scanned tree.
	// The platform-compatibility gate reads it.
	Profile DirectoryContentProfile
}

type workItem struct {
	path  string
	depth int
}

// Scan walks the target's install tree and scores everything it finds.
// Filesystem errors on a subtree skip that subtree; a missing root yields
// an empty report, never an error.
func (s *Scanner) Scan(t TargetDescriptor) ScanReport {
	var report ScanReport

	root := filepath.Clean(t.InstallPath)
	if ok, err := afero.DirExists(s.fs, root); err != nil || !ok {
		log.Debug().Str("root", root).Msg("install root missing, nothing to scan")
		return report
	}

	visited := map[string]struct{}{}
	queue := []workItem{{path: root, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		clean := filepath.Clean(item.path)
		if _, seen := visited[clean]; seen {
			continue
		}
		visited[clean] = struct{}{}

		entries, err := afero.ReadDir(s.fs, clean)
		if err != nil {
			// Permission or IO failure: skip the subtree, keep scanning.
			log.Debug().Err(err).Str("dir", clean).Msg("skipping unreadable directory")
			continue
		}

		profile := profileEntries(entries)
		report.Profile.add(profile)

		var (
			localBest float64
			bestLocal *ScoredCandidate
			subdirs   []string
		)

		for _, entry := range entries {
			if entry.IsDir() {
				subdirs = append(subdirs, filepath.Join(clean, entry.Name()))
				continue
			}
			if !isWindowsExecutable(entry.Name()) {
				continue
			}

			candidate := s.newCandidate(root, clean, item.depth, entry)
			scored := ScoreExecutable(t, candidate, s.weights)
			if isBlocklisted(scored) {
				continue
			}

			report.Candidates = append(report.Candidates, scored)
			if scored.Score > localBest {
				localBest = scored.Score
				last := report.Candidates[len(report.Candidates)-1]
				bestLocal = &last
			}
		}

		relDir, err := filepath.Rel(root, clean)
		if err != nil {
			relDir = clean
		}
		report.Directories = append(report.Directories, scoreDirectory(
			t, clean, relDir, item.depth, profile, bestLocal, s.weights,
		))

		// Descend only while the current directory hasn't produced a good
		// enough match. Bounds work without abandoning deeper, better hits
		// in trees that only hold junk at the top.
		if localBest >= s.goodEnough || item.depth >= s.maxDepth {
			continue
		}
		for _, sub := range subdirs {
			queue = append(queue, workItem{path: sub, depth: item.depth + 1})
		}
	}

	return report
}

// newCandidate builds a CandidateExecutable, tolerating stat failures by
// recording an unknown size.
func (s *Scanner) newCandidate(root, dir string, depth int, entry fs.FileInfo) CandidateExecutable {
	abs := filepath.Join(dir, entry.Name())
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		rel = entry.Name()
	}

	size := int64(-1)
	if entry.Size() >= 0 {
		size = entry.Size()
	}

	return CandidateExecutable{
		AbsolutePath: abs,
		RelativePath: rel,
		SizeBytes:    size,
		Depth:        depth,
	}
}

func isBlocklisted(sc ScoredCandidate) bool {
	return len(sc.Rationale) == 1 && sc.Rationale[0].Signal == SignalBlocklist
}

func isWindowsExecutable(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".exe")
}
