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

package correlate

import (
	"path/filepath"
	"strings"

	"github.com/ProtoShade/protoshade-core/pkg/detect"
	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// Signal magnitudes. Exact identifier and exact path equality rank
// highest; path equality is the least ambiguous signal there is.
const (
	sigIdentifierEqual   = 60.0
	sigNearExact         = 40.0
	sigPathEqual         = 60.0
	sigPathLastComponent = 35.0
	sigSubstringMax      = 25.0
	sigWordOverlapMax    = 20.0
	sigExeNameEqual      = 30.0
)

// nearExactSimilarity is the Jaro-Winkler floor above which two normalized
// identifiers count as the same title modulo typos and edition suffixes.
const nearExactSimilarity = 0.92

// DefaultThreshold is the minimum score a match must clear. Below it the
// correlator reports ErrNoMatch rather than guessing.
const DefaultThreshold = 30.0

// Correlator matches resolved installs to launcher config entries.
type Correlator struct {
	threshold float64
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithThreshold overrides the minimum match score.
func WithThreshold(threshold float64) Option {
	return func(c *Correlator) {
		c.threshold = threshold
	}
}

// New creates a Correlator.
func New(opts ...Option) *Correlator {
	c := &Correlator{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// identifierSet is everything about the target the correlator may match
// against, built once per request.
type identifierSet struct {
	names       []string
	exeNames    []string
	installPath string
	appID       string
}

// parentDirStoplist are generic container names that identify nothing:
// matching "games" against a store full of games is noise.
var parentDirStoplist = map[string]struct{}{
	"games": {}, "prefixes": {}, "common": {}, "steamapps": {},
	"heroic": {}, "apps": {}, "library": {}, "default": {},
}

func buildIdentifiers(t detect.TargetDescriptor, exeNames []string) identifierSet {
	ids := identifierSet{
		installPath: filepath.Clean(t.InstallPath),
		appID:       t.AppID,
	}

	seen := map[string]struct{}{}
	addName := func(s string) {
		n := detect.Normalize(s)
		if n == "" {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		ids.names = append(ids.names, n)
	}

	addName(t.RawName)
	addName(filepath.Base(t.InstallPath))

	parent := filepath.Base(filepath.Dir(t.InstallPath))
	if _, stop := parentDirStoplist[strings.ToLower(parent)]; !stop {
		addName(parent)
	}

	for _, exe := range exeNames {
		stem := strings.TrimSuffix(exe, filepath.Ext(exe))
		if n := detect.Normalize(stem); n != "" {
			ids.exeNames = append(ids.exeNames, n)
		}
	}

	return ids
}

// pass is one self-contained correlation strategy. Passes share no state;
// each rebuilds its view of the documents from scratch.
type pass struct {
	score func(ids identifierSet, fields entryFields) []Signal
	name  string
	// runnerMetadata selects which document class the pass scans.
	runnerMetadata bool
}

// Match correlates the target against the documents. exeNames are the
// executable file names discovered during detection; they serve as an
// independent identity signal since launcher stores often record the
// binary but not the directory.
//
// Fallback passes run in sequence, each only if the previous one produced
// nothing above threshold.
func (c *Correlator) Match(
	t detect.TargetDescriptor, exeNames []string, docs []Document,
) (Match, error) {
	ids := buildIdentifiers(t, exeNames)

	passes := []pass{
		{name: "direct", score: scoreDirect},
		{name: "prefix_path", score: scorePrefixPath},
		{name: "executable", score: scoreExecutableNames},
		{name: "install_path", score: scoreInstallPath},
		{name: "runner_metadata", score: scoreAll, runnerMetadata: true},
	}

	for _, p := range passes {
		best, ok := c.runPass(p, ids, docs)
		if !ok {
			continue
		}
		log.Debug().
			Str("pass", p.name).
			Str("store", best.StoreID).
			Str("entry", best.EntryKey).
			Float64("score", best.Score).
			Msg("config entry matched")
		return best, nil
	}

	return Match{}, ErrNoMatch
}

func (c *Correlator) runPass(p pass, ids identifierSet, docs []Document) (Match, bool) {
	var best Match
	for _, doc := range docs {
		if doc.RunnerMetadata != p.runnerMetadata {
			continue
		}
		for key, entry := range doc.Entries {
			fields := extractEntry(entry)
			signals := p.score(ids, fields)

			var score float64
			for _, s := range signals {
				score += s.Points
			}
			if score > best.Score {
				best = Match{
					StoreID:   doc.StoreID,
					EntryKey:  key,
					Score:     score,
					Rationale: signals,
					Pass:      p.name,
				}
			}
		}
	}
	return best, best.Score >= c.threshold
}

// scoreDirect matches known identifier fields and free text against the
// target's app ID, title, and directory names.
func scoreDirect(ids identifierSet, fields entryFields) []Signal {
	var signals []Signal

	for _, id := range fields.identifiers {
		if ids.appID != "" && id == ids.appID {
			signals = append(signals, Signal{Name: "appid_equal", Points: sigIdentifierEqual})
			continue
		}
		norm := detect.Normalize(id)
		if norm == "" {
			continue
		}
		if containsName(ids.names, norm) {
			signals = append(signals, Signal{Name: "identifier_equal", Points: sigIdentifierEqual})
			continue
		}
		if sim := bestSimilarity(ids.names, norm); sim >= nearExactSimilarity {
			signals = append(signals, Signal{Name: "identifier_near_exact", Points: sigNearExact})
		}
	}

	if s, ok := bestTextSignal(ids.names, fields.texts); ok {
		signals = append(signals, s)
	}

	return signals
}

// scorePrefixPath compares the last component of every path field against
// the target's identifiers. Compatibility prefixes are commonly named after
// the launcher's app ID or slug.
func scorePrefixPath(ids identifierSet, fields entryFields) []Signal {
	var signals []Signal
	for _, p := range fields.paths {
		last := lastPathComponent(p)
		if ids.appID != "" && last == ids.appID {
			signals = append(signals, Signal{Name: "prefix_appid", Points: sigPathLastComponent})
			continue
		}
		if containsName(ids.names, detect.Normalize(last)) {
			signals = append(signals, Signal{Name: "prefix_name", Points: sigPathLastComponent})
		}
	}
	return signals
}

// scoreExecutableNames matches discovered executable names against any
// string or path field.
func scoreExecutableNames(ids identifierSet, fields entryFields) []Signal {
	if len(ids.exeNames) == 0 {
		return nil
	}

	var signals []Signal
	check := func(value string) {
		base := lastPathComponent(value)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		norm := detect.Normalize(stem)
		for _, exe := range ids.exeNames {
			if norm == exe {
				signals = append(signals, Signal{Name: "exe_name_equal", Points: sigExeNameEqual})
				return
			}
		}
	}
	for _, v := range fields.texts {
		check(v)
	}
	for _, v := range fields.paths {
		check(v)
	}
	return signals
}

// scoreInstallPath is the path-specific comparison: exact equality ranks
// highest, then last-component equality, then normalized substring.
func scoreInstallPath(ids identifierSet, fields entryFields) []Signal {
	var signals []Signal
	installBase := detect.Normalize(filepath.Base(ids.installPath))

	for _, p := range fields.paths {
		clean := filepath.Clean(p)
		if clean == ids.installPath {
			signals = append(signals, Signal{Name: "path_equal", Points: sigPathEqual})
			continue
		}
		if detect.Normalize(filepath.Base(clean)) == installBase && installBase != "" {
			signals = append(signals, Signal{Name: "path_last_component", Points: sigPathLastComponent})
			continue
		}
		if ratio := substringOverlap(detect.Normalize(clean), detect.Normalize(ids.installPath)); ratio > 0 {
			signals = append(signals, Signal{Name: "path_substring", Points: sigSubstringMax * ratio})
		}
	}
	return signals
}

// scoreAll combines every signal family. Used for the final pass over
// alternate per-distribution metadata documents, which carry whatever
// fields the runner felt like writing.
func scoreAll(ids identifierSet, fields entryFields) []Signal {
	signals := scoreDirect(ids, fields)
	signals = append(signals, scorePrefixPath(ids, fields)...)
	signals = append(signals, scoreExecutableNames(ids, fields)...)
	signals = append(signals, scoreInstallPath(ids, fields)...)
	return signals
}

// bestTextSignal finds the strongest containment or word-overlap signal
// between the target names and an entry's free-text fields.
func bestTextSignal(names []string, texts []string) (Signal, bool) {
	var best Signal
	for _, text := range texts {
		norm := detect.Normalize(text)
		if norm == "" {
			continue
		}
		if containsName(names, norm) {
			s := Signal{Name: "text_equal", Points: sigIdentifierEqual}
			if s.Points > best.Points {
				best = s
			}
			continue
		}
		for _, name := range names {
			if ratio := substringOverlap(name, norm); ratio > 0 {
				s := Signal{Name: "text_substring", Points: sigSubstringMax * ratio}
				if s.Points > best.Points {
					best = s
				}
			}
			if overlap := wordOverlapFraction(name, norm); overlap > 0 {
				s := Signal{Name: "word_overlap", Points: sigWordOverlapMax * overlap}
				if s.Points > best.Points {
					best = s
				}
			}
		}
	}
	return best, best.Points > 0
}

// lastPathComponent returns the final path element, treating backslashes
// as separators too. Launcher stores written on the Windows side record
// drive-letter paths that filepath.Base won't split on Linux.
func lastPathComponent(p string) string {
	return filepath.Base(filepath.Clean(strings.ReplaceAll(p, `\`, "/")))
}

func containsName(names []string, norm string) bool {
	if norm == "" {
		return false
	}
	for _, name := range names {
		if name == norm {
			return true
		}
	}
	return false
}

func bestSimilarity(names []string, norm string) float64 {
	var best float64
	for _, name := range names {
		if sim := float64(edlib.JaroWinklerSimilarity(name, norm)); sim > best {
			best = sim
		}
	}
	return best
}

// substringOverlap reports the length-overlap ratio when one string
// contains the other, zero otherwise. Short fragments don't count.
func substringOverlap(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 4 {
		return 0
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}

// wordOverlapFraction is the fraction of a's words that appear in b.
func wordOverlapFraction(a, b string) float64 {
	aWords := strings.Fields(a)
	if len(aWords) == 0 {
		return 0
	}
	bSet := map[string]struct{}{}
	for _, w := range strings.Fields(b) {
		bSet[w] = struct{}{}
	}
	matched := 0
	for _, w := range aWords {
		if _, ok := bSet[w]; ok {
			matched++
		}
	}
	// A single shared word between multi-word names is coincidence more
	// often than identity.
	if matched < 2 && len(aWords) > 1 {
		return 0
	}
	return float64(matched) / float64(len(aWords))
}
