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
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips diacritical marks from text so accented titles
// compare equal to their plain ASCII spellings (e.g. "Pokémon" → "Pokemon").
func foldDiacritics(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if folded, _, err := transform.String(t, s); err == nil {
		return folded
	}
	return s
}

// Normalize canonicalizes a string for comparison across the filesystem and
// launcher-config domains: lowercase, common separators become spaces,
// anything outside [a-z0-9 ] is dropped, and whitespace runs collapse.
//
// Normalize is a pure, total function. It is idempotent: the output alphabet
// is a strict subset of the characters Normalize passes through unchanged.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = foldDiacritics(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.' || r == ',' || unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			// dropped
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeWords returns the normalized form of s split into words.
func NormalizeWords(s string) []string {
	return strings.Fields(Normalize(s))
}

// WordSet returns the set of normalized words in s.
func WordSet(s string) map[string]struct{} {
	words := NormalizeWords(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
