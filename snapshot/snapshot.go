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

// Package snapshot reads and writes registry state snapshots at a local path
// or in object storage
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	gcsScheme = "gcs://"
	s3Scheme  = "s3://"
)

var ErrNotFound = errors.New("snapshot not found")

// Location is a place a snapshot can be written to and read from
type Location interface {
	// NewWriter returns a writer for the snapshot. The snapshot is only
	// complete once the writer has been closed without error. Cancelling
	// ctx before Close discards it.
	NewWriter(context.Context) (io.WriteCloser, error)
	NewReader(context.Context) (io.ReadCloser, error)
	Close() error
	String() string
}

type Config struct {
	Logger *slog.Logger
	// GcsCredentialsFile is an optional service account file for GCS
	GcsCredentialsFile string
	// AwsRegion overrides the region from the default AWS config
	AwsRegion string
}

// Open returns the Location for target, which is one of
// gcs://<bucket>/<object>, s3://<bucket>/<key> or a local file path
func Open(ctx context.Context, target string, cfg Config) (Location, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	switch {
	case strings.HasPrefix(target, gcsScheme):
		bucket, object, err := splitObjectPath(strings.TrimPrefix(target, gcsScheme))
		if err != nil {
			return nil, fmt.Errorf("gcs snapshot: %w", err)
		}
		return newGcsLocation(ctx, bucket, object, cfg)
	case strings.HasPrefix(target, s3Scheme):
		bucket, key, err := splitObjectPath(strings.TrimPrefix(target, s3Scheme))
		if err != nil {
			return nil, fmt.Errorf("s3 snapshot: %w", err)
		}
		return newS3Location(ctx, bucket, key, cfg)
	case target == "":
		return nil, errors.New("snapshot location not set")
	default:
		return newFileLocation(target), nil
	}
}

func splitObjectPath(path string) (string, string, error) {
	bucket, object, _ := strings.Cut(path, "/")
	if bucket == "" {
		return "", "", errors.New("bucket not set")
	}
	if object == "" || strings.HasSuffix(object, "/") {
		return "", "", errors.New("object name not set")
	}
	return bucket, object, nil
}
