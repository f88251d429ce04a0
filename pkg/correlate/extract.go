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

import "strings"

// extractMaxDepth bounds the recursive field walk. Launcher configs nest a
// few levels at most; anything deeper is someone else's data.
const extractMaxDepth = 4

// knownIDFields are field names that launcher stores have used for a
// game's identifier across schema versions. Matching on their values ranks
// highest.
var knownIDFields = map[string]struct{}{
	"appname":   {},
	"app_name":  {},
	"appid":     {},
	"app_id":    {},
	"id":        {},
	"slug":      {},
	"title":     {},
	"name":      {},
	"gametitle": {},
}

// pathFieldMarkers flag field names that hold filesystem paths: install
// locations and compatibility-prefix directories get path-specific
// comparison instead of plain string matching.
var pathFieldMarkers = []string{
	"path", "dir", "folder", "prefix", "location",
}

// entryFields is everything extracted from one config entry, split by how
// it should be compared.
type entryFields struct {
	// identifiers are values of known identifier fields.
	identifiers []string
	// texts are all other string-valued fields found in the walk.
	texts []string
	// paths are values of path-like fields.
	paths []string
}

type fieldItem struct {
	value any
	key   string
	depth int
}

// extractEntry walks an entry's nested structure with an explicit
// depth-bounded worklist and buckets every string-valued field. Non-string
// leaves are ignored; unknown shapes can't break it.
func extractEntry(entry map[string]any) entryFields {
	var out entryFields

	work := make([]fieldItem, 0, len(entry))
	for k, v := range entry {
		work = append(work, fieldItem{key: k, value: v, depth: 0})
	}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		switch v := item.value.(type) {
		case string:
			if v == "" {
				continue
			}
			key := strings.ToLower(item.key)
			if _, ok := knownIDFields[key]; ok {
				out.identifiers = append(out.identifiers, v)
			}
			if isPathField(key, v) {
				out.paths = append(out.paths, v)
			} else {
				out.texts = append(out.texts, v)
			}
		case map[string]any:
			if item.depth >= extractMaxDepth {
				continue
			}
			for k, nested := range v {
				work = append(work, fieldItem{key: k, value: nested, depth: item.depth + 1})
			}
		case []any:
			if item.depth >= extractMaxDepth {
				continue
			}
			for _, nested := range v {
				work = append(work, fieldItem{key: item.key, value: nested, depth: item.depth + 1})
			}
		}
	}

	return out
}

func isPathField(key, value string) bool {
	for _, marker := range pathFieldMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	// Schema drift means path fields show up under names we have never
	// seen; an absolute value is path enough.
	return strings.HasPrefix(value, "/") || looksLikeDrivePath(value)
}

func looksLikeDrivePath(value string) bool {
	if len(value) < 3 {
		return false
	}
	c := value[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && value[1] == ':' && (value[2] == '\\' || value[2] == '/')
}
