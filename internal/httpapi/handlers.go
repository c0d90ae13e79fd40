// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/state"
)

const maxRequestBodySize = 1 << 20

var errInvalidBadgeID = errors.New("invalid badge id")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	height, err := s.registry.Height(r.Context())
	if err != nil {
		s.logger.Error("failed to get height", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
		Height:    height,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.query(w, r, hub.QueryMsg{Config: &struct{}{}})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	startAfter, err := params.StartAfterID()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.query(w, r, hub.QueryMsg{
		Badges: &hub.BadgesQuery{
			StartAfter: startAfter,
			Limit:      params.Limit,
		},
	})
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	s.query(w, r, hub.QueryMsg{Badge: &hub.BadgeQuery{ID: id}})
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.query(w, r, hub.QueryMsg{
		Keys: &hub.MembersQuery{
			ID:         id,
			StartAfter: params.StartAfter,
			Limit:      params.Limit,
		},
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	s.query(w, r, hub.QueryMsg{
		Key: &hub.KeyQuery{ID: id, Pubkey: chi.URLParam(r, "pubkey")},
	})
}

func (s *Server) handleOwners(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	params, err := ParsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.query(w, r, hub.QueryMsg{
		Owners: &hub.MembersQuery{
			ID:         id,
			StartAfter: params.StartAfter,
			Limit:      params.Limit,
		},
	})
}

func (s *Server) handleOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	s.query(w, r, hub.QueryMsg{
		Owner: &hub.OwnerQuery{ID: id, Owner: chi.URLParam(r, "user")},
	})
}

func (s *Server) handleBadgeTokens(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	after, limit, err := JournalPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mints, err := s.registry.TokensByBadge(r.Context(), id, after, limit)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusInternalServerError)
		return
	}
	resp := TokensResponse{Tokens: make([]TokenResponse, 0, len(mints))}
	for _, m := range mints {
		resp.Tokens = append(resp.Tokens, newTokenResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOwnerTokens(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	after, limit, err := JournalPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mints, err := s.registry.TokensByOwner(r.Context(), owner, after, limit)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusInternalServerError)
		return
	}
	resp := TokensResponse{Tokens: make([]TokenResponse, 0, len(mints))}
	for _, m := range mints {
		resp.Tokens = append(resp.Tokens, newTokenResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	// Token IDs contain a '|' separator which clients may escape
	tokenID, err := url.PathUnescape(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid token id")
		return
	}
	mint, err := s.registry.Token(r.Context(), tokenID)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusInternalServerError)
		return
	}
	if mint == nil {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	writeJSON(w, http.StatusOK, newTokenResponse(*mint))
}

func (s *Server) handleBadgeOperations(w http.ResponseWriter, r *http.Request) {
	id, ok := badgeIDParam(w, r)
	if !ok {
		return
	}
	s.operations(w, r, &id)
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	var badgeID *uint64
	if param := r.URL.Query().Get("badge_id"); param != "" {
		id, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalidBadgeID.Error())
			return
		}
		badgeID = &id
	}
	s.operations(w, r, badgeID)
}

func (s *Server) operations(
	w http.ResponseWriter,
	r *http.Request,
	badgeID *uint64,
) {
	_, limit, err := JournalPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ops, err := s.registry.Operations(r.Context(), badgeID, limit)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusInternalServerError)
		return
	}
	resp := OperationsResponse{
		Operations: make([]OperationRecord, 0, len(ops)),
	}
	for _, op := range ops {
		resp.Operations = append(resp.Operations, newOperationRecord(op))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	evt, err := s.registry.Execute(r.Context(), req.Sender, req.Funds, req.Msg)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, newOperationResponse(evt))
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var msg hub.QueryMsg
	if err := decodeBody(w, r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.query(w, r, msg)
}

func (s *Server) query(w http.ResponseWriter, r *http.Request, msg hub.QueryMsg) {
	resp, err := s.registry.Query(r.Context(), msg)
	if err != nil {
		s.writeRegistryError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeRegistryError(
	w http.ResponseWriter,
	err error,
	fallback int,
) {
	status := statusForError(err, fallback)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func statusForError(err error, fallback int) int {
	var hexErr hub.HexError
	switch {
	case errors.Is(err, hub.ErrBadgeNotFound),
		errors.Is(err, state.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, hub.ErrNotManager),
		errors.Is(err, hub.ErrNotMinter),
		errors.Is(err, hub.ErrNotDeveloper):
		return http.StatusForbidden
	case errors.Is(err, hub.ErrInvalidMsg),
		errors.Is(err, hub.ErrInvalidAddress),
		errors.Is(err, hub.ErrInvalidPubkey),
		errors.Is(err, ErrInvalidPaginationParameters),
		errors.As(err, &hexErr):
		return http.StatusBadRequest
	}
	return fallback
}

func badgeIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBadgeID.Error())
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}
