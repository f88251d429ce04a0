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

package api

import (
	"github.com/ProtoShade/protoshade-core/pkg/detect"
)

// DetectRequest asks for the game binary of either a Steam-like app ID or
// an explicit install path. Exactly one of AppID or InstallPath must be
// set; Title is optional for the path form.
type DetectRequest struct {
	AppID       string `json:"appId,omitempty"`
	Title       string `json:"title,omitempty"`
	InstallPath string `json:"installPath,omitempty"`
}

// SignalResponse is one scored signal from the detection rationale.
type SignalResponse struct {
	Signal string  `json:"signal"`
	Points float64 `json:"points"`
}

// CandidateResponse is a scored executable in wire form.
type CandidateResponse struct {
	Path      string           `json:"path"`
	Score     float64          `json:"score"`
	Rationale []SignalResponse `json:"rationale"`
}

// DetectResponse is the wire form of a detection result.
type DetectResponse struct {
	Status       string              `json:"status"`
	Method       string              `json:"method,omitempty"`
	Confidence   string              `json:"confidence,omitempty"`
	Architecture string              `json:"architecture,omitempty"`
	Executable   string              `json:"executable,omitempty"`
	InjectionDir string              `json:"injectionDir,omitempty"`
	Score        float64             `json:"score,omitempty"`
	Rationale    []SignalResponse    `json:"rationale,omitempty"`
	Alternatives []CandidateResponse `json:"alternatives,omitempty"`
}

// CorrelateRequest asks for the launcher config entry matching an install.
type CorrelateRequest struct {
	AppID       string `json:"appId,omitempty"`
	Title       string `json:"title,omitempty"`
	InstallPath string `json:"installPath"`
}

// CorrelateResponse names the matched store entry and how it was matched.
type CorrelateResponse struct {
	StoreID   string           `json:"storeId"`
	EntryKey  string           `json:"entryKey"`
	Pass      string           `json:"pass"`
	Score     float64          `json:"score"`
	Rationale []SignalResponse `json:"rationale,omitempty"`
}

// ManageRequest enables or disables injection for a game.
type ManageRequest struct {
	AppID       string `json:"appId"`
	Action      string `json:"action"`
	DLLOverride string `json:"dllOverride,omitempty"`
	VulkanMode  string `json:"vulkanMode,omitempty"`
}

// OverrideRequest sets one environment override on a launcher entry.
type OverrideRequest struct {
	AppName string `json:"appName"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

// GameResponse is one installed game.
type GameResponse struct {
	AppID string `json:"appId"`
	Name  string `json:"name"`
}

// OutputResponse wraps script output from install operations.
type OutputResponse struct {
	Output string `json:"output"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toDetectResponse(result detect.DetectionResult) DetectResponse {
	resp := DetectResponse{
		Status: string(result.Status),
	}
	if result.Status != detect.StatusFound {
		return resp
	}

	resp.Method = string(result.Method)
	resp.Confidence = string(result.Tier)
	resp.Architecture = string(result.Architecture)
	resp.Executable = result.Chosen.Candidate.AbsolutePath
	resp.InjectionDir = result.InjectionDir()
	resp.Score = result.Chosen.Score
	resp.Rationale = toSignals(result.Chosen.Rationale)

	for _, alt := range result.Alternatives {
		resp.Alternatives = append(resp.Alternatives, CandidateResponse{
			Path:      alt.Candidate.AbsolutePath,
			Score:     alt.Score,
			Rationale: toSignals(alt.Rationale),
		})
	}
	return resp
}

func toSignals(rationale []detect.SignalContribution) []SignalResponse {
	signals := make([]SignalResponse, 0, len(rationale))
	for _, sc := range rationale {
		signals = append(signals, SignalResponse{
			Signal: sc.Signal,
			Points: sc.Points,
		})
	}
	return signals
}
