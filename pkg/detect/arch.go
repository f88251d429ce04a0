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
	"strings"
	"time"

	"github.com/ProtoShade/protoshade-core/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// Architecture of a Windows binary. Decides whether the 32- or 64-bit
// shader DLL gets copied next to it.
type Architecture string

const (
	Arch32 Architecture = "win32"
	Arch64 Architecture = "win64"
)

// archProbeTimeout bounds the auxiliary subprocess call. The probe is a
// single-signal nicety; it must never stall a detection request.
const archProbeTimeout = 3 * time.Second

// ArchProber inspects a binary's PE header through the system `file`
// utility. On any failure it degrades to Arch64, the safe default for
// modern games, rather than failing the request.
type ArchProber struct {
	executor command.Executor
}

// NewArchProber creates a prober using the given command executor.
func NewArchProber(executor command.Executor) *ArchProber {
	return &ArchProber{executor: executor}
}

// Probe determines the binary's architecture.
func (p *ArchProber) Probe(ctx context.Context, exePath string) Architecture {
	probeCtx, cancel := context.WithTimeout(ctx, archProbeTimeout)
	defer cancel()

	out, err := p.executor.Output(probeCtx, "file", "--brief", exePath)
	if err != nil {
		log.Debug().Err(err).Str("exe", exePath).Msg("arch probe failed, assuming 64-bit")
		return Arch64
	}

	desc := string(out)
	switch {
	case strings.Contains(desc, "PE32+"):
		return Arch64
	case strings.Contains(desc, "PE32"):
		return Arch32
	default:
		log.Debug().Str("exe", exePath).Str("desc", strings.TrimSpace(desc)).
			Msg("unrecognized binary format, assuming 64-bit")
		return Arch64
	}
}
