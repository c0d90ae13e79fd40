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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaultValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Nil(t, params.StartAfter)
	assert.Nil(t, params.Limit)
	id, err := params.StartAfterID()
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestParsePaginationValid(t *testing.T) {
	req := httptest.NewRequest(
		http.MethodGet,
		"/api/v1/badges?start_after=12&limit=25",
		nil,
	)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	require.NotNil(t, params.Limit)
	assert.Equal(t, uint32(25), *params.Limit)
	id, err := params.StartAfterID()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint64(12), *id)
}

func TestParsePaginationEmptyStartAfter(t *testing.T) {
	// An empty cursor is kept so member listings can page from ""
	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges/1/keys?start_after=", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	require.NotNil(t, params.StartAfter)
	assert.Empty(t, *params.StartAfter)
}

func TestParsePaginationInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "non-numeric limit", url: "/api/v1/badges?limit=abc"},
		{name: "negative limit", url: "/api/v1/badges?limit=-3"},
		{name: "limit overflow", url: "/api/v1/badges?limit=99999999999"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, test.url, nil)
			_, err := ParsePagination(req)
			require.ErrorIs(t, err, ErrInvalidPaginationParameters)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges?start_after=abc", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	_, err = params.StartAfterID()
	require.ErrorIs(t, err, ErrInvalidPaginationParameters)
}

func TestJournalPagination(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		expectedAfter uint
		expectedLimit int
		expectErr     bool
	}{
		{name: "defaults", url: "/x", expectedLimit: DefaultJournalLimit},
		{name: "valid", url: "/x?after=7&limit=20", expectedAfter: 7, expectedLimit: 20},
		{name: "clamp high", url: "/x?limit=100000", expectedLimit: MaxJournalLimit},
		{name: "clamp low", url: "/x?limit=0", expectedLimit: 1},
		{name: "invalid after", url: "/x?after=-1", expectErr: true},
		{name: "invalid limit", url: "/x?limit=many", expectErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, test.url, nil)
			after, limit, err := JournalPagination(req)
			if test.expectErr {
				require.ErrorIs(t, err, ErrInvalidPaginationParameters)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedAfter, after)
			assert.Equal(t, test.expectedLimit, limit)
		})
	}
}
