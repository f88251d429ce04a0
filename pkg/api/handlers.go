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
	"errors"
	"net/http"

	"github.com/ProtoShade/protoshade-core/pkg/correlate"
	"github.com/ProtoShade/protoshade-core/pkg/service"
)

func handleListGames(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		games, err := svc.ListGames()
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		resp := make([]GameResponse, 0, len(games))
		for _, game := range games {
			resp = append(resp, GameResponse{AppID: game.AppID, Name: game.Name})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDetect(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DetectRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if req.AppID != "" {
			result, err := svc.DetectSteam(r.Context(), req.AppID)
			if err != nil {
				writeError(w, http.StatusNotFound, err)
				return
			}
			writeJSON(w, http.StatusOK, toDetectResponse(result))
			return
		}

		if req.InstallPath == "" {
			writeError(w, http.StatusBadRequest,
				errors.New("either appId or installPath is required"))
			return
		}
		result := svc.DetectPath(r.Context(), req.Title, req.InstallPath, "")
		writeJSON(w, http.StatusOK, toDetectResponse(result))
	}
}

func handleCorrelate(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CorrelateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.InstallPath == "" {
			writeError(w, http.StatusBadRequest, errors.New("installPath is required"))
			return
		}

		match, err := svc.Correlate(r.Context(), req.Title, req.InstallPath, req.AppID)
		if errors.Is(err, correlate.ErrNoMatch) {
			writeError(w, http.StatusNotFound, err)
			return
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		resp := CorrelateResponse{
			StoreID:  match.StoreID,
			EntryKey: match.EntryKey,
			Pass:     match.Pass,
			Score:    match.Score,
		}
		for _, sig := range match.Rationale {
			resp.Rationale = append(resp.Rationale, SignalResponse{
				Signal: sig.Name,
				Points: sig.Points,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleManage(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ManageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.AppID == "" || req.Action == "" {
			writeError(w, http.StatusBadRequest, errors.New("appId and action are required"))
			return
		}

		output, err := svc.ManageGame(
			r.Context(), req.AppID, req.Action, req.DLLOverride, req.VulkanMode,
		)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, OutputResponse{Output: output})
	}
}

func handleOverride(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OverrideRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.AppName == "" || req.Key == "" {
			writeError(w, http.StatusBadRequest, errors.New("appName and key are required"))
			return
		}

		if err := svc.SetHeroicOverride(req.AppName, req.Key, req.Value); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleInstall(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		output, err := svc.InstallGlobal(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, OutputResponse{Output: output})
	}
}

func handleUninstall(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		output, err := svc.UninstallGlobal(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, OutputResponse{Output: output})
	}
}
