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

// Package correlate matches a resolved game install to its entry inside a
// launcher's JSON configuration store. The stores are opaque-keyed and
// their schemas drift between versions, so nothing here assumes field
// names: matching runs over recursively extracted string and path fields.
package correlate

import "errors"

// Document is one JSON configuration document: a set of opaque-keyed
// entries from a single store file.
type Document struct {
	Entries map[string]map[string]any
	StoreID string
	Path    string
	// RunnerMetadata marks alternate per-distribution metadata documents
	// (runner install manifests rather than the launcher's own game
	// config). Only the final fallback pass scans these.
	RunnerMetadata bool
}

// ConfigEntry identifies one opaque-keyed record in a launcher's store.
type ConfigEntry struct {
	Fields   map[string]any
	StoreID  string
	EntryKey string
}

// Signal is one correlation signal and its score contribution.
type Signal struct {
	Name   string
	Points float64
}

// Match is a successful correlation: the (store, entry key) pair the
// caller's config writer should target, with the rationale that justified
// it and the pass that produced it.
type Match struct {
	StoreID   string
	EntryKey  string
	Pass      string
	Rationale []Signal
	Score     float64
}

// ErrNoMatch reports that no entry cleared the minimum score threshold.
// The correlator never guesses below threshold.
var ErrNoMatch = errors.New("no config entry matched the install")
