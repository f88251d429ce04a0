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
	"bufio"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// launchLogTailBytes bounds how much of the launch log is read. The
	// file is externally rotated; only recent lines matter.
	launchLogTailBytes = 256 << 10

	// launchLogMaxLine guards the line scanner against pathological lines.
	launchLogMaxLine = 64 << 10
)

// launchLineRe matches launcher log lines that record a game process being
// spawned, e.g.:
//
//	Game process added : AppID 1091500 "/path/to/Cyberpunk2077.exe", ...
var launchLineRe = regexp.MustCompile(`(?i)appid\s+(\d+)\D*"([^"]+\.exe)"`)

// LaunchLogResolver extracts an authoritative executable path from an
// externally maintained launch log. The launcher wrote the exact binary it
// spawned, so when a matching line exists and the path is still live it
// outranks every heuristic.
type LaunchLogResolver struct {
	fs      afero.Fs
	logPath string
}

// NewLaunchLogResolver creates a resolver for the given log file. An empty
// path yields a resolver that never matches.
func NewLaunchLogResolver(fsys afero.Fs, logPath string) *LaunchLogResolver {
	return &LaunchLogResolver{fs: fsys, logPath: logPath}
}

// Resolve scans recent log lines for a launch of the given app ID and
// returns the executable path if it was found and still exists on disk.
// Best effort: an absent or unreadable log simply reports no match.
func (r *LaunchLogResolver) Resolve(appID string) (string, bool) {
	if r.logPath == "" || appID == "" {
		return "", false
	}

	tail, err := r.readTail()
	if err != nil {
		log.Debug().Err(err).Str("log", r.logPath).Msg("launch log unavailable")
		return "", false
	}

	// Later lines are more recent; keep the last match.
	var found string
	scanner := bufio.NewScanner(strings.NewReader(tail))
	scanner.Buffer(make([]byte, launchLogMaxLine), launchLogMaxLine)
	for scanner.Scan() {
		m := launchLineRe.FindStringSubmatch(scanner.Text())
		if m == nil || m[1] != appID {
			continue
		}
		found = m[2]
	}
	if found == "" {
		return "", false
	}

	// Trust the log only while the binary it names still exists; the game
	// may have been moved or uninstalled since that line was written.
	if ok, err := afero.Exists(r.fs, found); err != nil || !ok {
		log.Debug().Str("path", found).Msg("launch log path is stale")
		return "", false
	}
	return found, true
}

func (r *LaunchLogResolver) readTail() (string, error) {
	f, err := r.fs.Open(r.logPath)
	if err != nil {
		return "", err //nolint:wrapcheck // caller only logs it
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing launch log")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return "", err //nolint:wrapcheck // caller only logs it
	}

	if info.Size() > launchLogTailBytes {
		if _, err := f.Seek(info.Size()-launchLogTailBytes, 0); err != nil {
			return "", err //nolint:wrapcheck // caller only logs it
		}
	}

	data, err := afero.ReadAll(f)
	if err != nil {
		return "", err //nolint:wrapcheck // caller only logs it
	}
	return string(data), nil
}
