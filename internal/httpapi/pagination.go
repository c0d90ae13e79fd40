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
	"errors"
	"net/http"
	"strconv"
)

const (
	// Journal listings are not bounded by the registry's own query limits
	DefaultJournalLimit = 50
	MaxJournalLimit     = 500
)

var ErrInvalidPaginationParameters = errors.New(
	"invalid pagination parameters",
)

// PaginationParams contains parsed pagination query values. StartAfter is
// left as a string since registry listings page by id or by member.
type PaginationParams struct {
	StartAfter *string
	Limit      *uint32
}

// ParsePagination parses the start_after and limit query parameters. The
// limit is clamped by the registry itself.
func ParsePagination(r *http.Request) (PaginationParams, error) {
	var params PaginationParams
	query := r.URL.Query()
	if query.Has("start_after") {
		startAfter := query.Get("start_after")
		params.StartAfter = &startAfter
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err := strconv.ParseUint(limitParam, 10, 32)
		if err != nil {
			return PaginationParams{}, ErrInvalidPaginationParameters
		}
		tmp := uint32(limit)
		params.Limit = &tmp
	}
	return params, nil
}

// StartAfterID returns StartAfter as a badge id
func (p PaginationParams) StartAfterID() (*uint64, error) {
	if p.StartAfter == nil {
		return nil, nil
	}
	id, err := strconv.ParseUint(*p.StartAfter, 10, 64)
	if err != nil {
		return nil, ErrInvalidPaginationParameters
	}
	return &id, nil
}

// JournalPagination parses the after and limit query parameters of journal
// listings, applying defaults and bounds clamping
func JournalPagination(r *http.Request) (uint, int, error) {
	var after uint
	limit := DefaultJournalLimit
	query := r.URL.Query()
	if afterParam := query.Get("after"); afterParam != "" {
		tmp, err := strconv.ParseUint(afterParam, 10, 0)
		if err != nil {
			return 0, 0, ErrInvalidPaginationParameters
		}
		after = uint(tmp)
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		tmp, err := strconv.Atoi(limitParam)
		if err != nil {
			return 0, 0, ErrInvalidPaginationParameters
		}
		limit = tmp
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxJournalLimit {
		limit = MaxJournalLimit
	}
	return after, limit, nil
}
