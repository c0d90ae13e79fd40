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

package snapshot

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitObjectPath(t *testing.T) {
	testDefs := []struct {
		path   string
		bucket string
		object string
		err    bool
	}{
		{path: "bucket/state.snap", bucket: "bucket", object: "state.snap"},
		{path: "bucket/hub/2025/state.snap", bucket: "bucket", object: "hub/2025/state.snap"},
		{path: "bucket", err: true},
		{path: "bucket/", err: true},
		{path: "bucket/hub/", err: true},
		{path: "/state.snap", err: true},
	}
	for _, testDef := range testDefs {
		bucket, object, err := splitObjectPath(testDef.path)
		if testDef.err {
			assert.Error(t, err, testDef.path)
			continue
		}
		require.NoError(t, err, testDef.path)
		assert.Equal(t, testDef.bucket, bucket)
		assert.Equal(t, testDef.object, object)
	}
}

func TestOpenInvalid(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, "", Config{})
	require.Error(t, err)
	_, err = Open(ctx, "gcs://bucket", Config{})
	require.ErrorContains(t, err, "object name not set")
	_, err = Open(ctx, "s3:///key", Config{})
	require.ErrorContains(t, err, "bucket not set")
}

func TestFileLocation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots", "state.snap")
	loc, err := Open(ctx, path, Config{})
	require.NoError(t, err)
	defer loc.Close()
	assert.Equal(t, path, loc.String())

	_, err = loc.NewReader(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	w, err := loc.NewWriter(ctx)
	require.NoError(t, err)
	_, err = w.Write([]byte("state"))
	require.NoError(t, err)
	// Nothing is visible until the writer is closed
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, w.Close())

	r, err := loc.NewReader(ctx)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileLocationCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	path := filepath.Join(t.TempDir(), "state.snap")
	loc, err := Open(ctx, path, Config{})
	require.NoError(t, err)
	w, err := loc.NewWriter(ctx)
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	cancel()
	require.ErrorIs(t, w.Close(), context.Canceled)
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
