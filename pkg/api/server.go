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

// Package api serves the local HTTP interface over the service layer.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ProtoShade/protoshade-core/pkg/config"
	"github.com/ProtoShade/protoshade-core/pkg/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

// NewRouter builds the API router over a service instance.
func NewRouter(svc *service.Service) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", handleListGames(svc))
		r.Post("/detect", handleDetect(svc))
		r.Post("/correlate", handleCorrelate(svc))
		r.Post("/manage", handleManage(svc))
		r.Post("/override", handleOverride(svc))
		r.Post("/install", handleInstall(svc))
		r.Post("/uninstall", handleUninstall(svc))
	})

	return r
}

// Start serves the API until the listener fails. Blocking; run it in a
// goroutine.
func Start(cfg *config.Instance, svc *service.Service) {
	port := cfg.Values().Service.APIPort
	log.Info().Int("port", port).Msg("starting api server")
	err := http.ListenAndServe(":"+strconv.Itoa(port), NewRouter(svc))
	if err != nil {
		log.Error().Err(err).Msg("error starting http server")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New()
		log.Debug().
			Str("requestId", id.String()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("api request")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}
