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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type fileLocation struct {
	path string
}

func newFileLocation(path string) *fileLocation {
	return &fileLocation{path: path}
}

// fileWriter writes to a temporary file which is renamed into place on Close.
// The snapshot is discarded if the context is done before Close.
type fileWriter struct {
	*os.File
	ctx  context.Context
	path string
}

func (w *fileWriter) Close() error {
	if err := w.ctx.Err(); err != nil {
		_ = w.File.Close()
		_ = os.Remove(w.Name())
		return err
	}
	if err := w.Sync(); err != nil {
		_ = w.File.Close()
		_ = os.Remove(w.Name())
		return err
	}
	if err := w.File.Close(); err != nil {
		_ = os.Remove(w.Name())
		return err
	}
	return os.Rename(w.Name(), w.path)
}

func (l *fileLocation) NewWriter(ctx context.Context) (io.WriteCloser, error) {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(l.path)+".*")
	if err != nil {
		return nil, err
	}
	return &fileWriter{File: f, ctx: ctx, path: l.path}, nil
}

func (l *fileLocation) NewReader(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (l *fileLocation) Close() error {
	return nil
}

func (l *fileLocation) String() string {
	return l.path
}
