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
	"fmt"
	"io"
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type gcsLocation struct {
	client *storage.Client
	object *storage.ObjectHandle
	logger *slog.Logger
	bucket string
	name   string
}

func newGcsLocation(
	ctx context.Context,
	bucket string,
	name string,
	cfg Config,
) (*gcsLocation, error) {
	clientOpts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if cfg.GcsCredentialsFile != "" {
		if _, err := os.Stat(cfg.GcsCredentialsFile); err != nil {
			return nil, fmt.Errorf(
				"gcs snapshot: cannot access credentials file %q: %w",
				cfg.GcsCredentialsFile,
				err,
			)
		}
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(cfg.GcsCredentialsFile),
		)
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs snapshot: failed in creating storage client: %w", err)
	}
	return &gcsLocation{
		client: client,
		object: client.Bucket(bucket).Object(name),
		logger: cfg.Logger.With("component", "snapshot", "bucket", bucket),
		bucket: bucket,
		name:   name,
	}, nil
}

func (l *gcsLocation) NewWriter(ctx context.Context) (io.WriteCloser, error) {
	w := l.object.NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	l.logger.Debug("writing snapshot object", "object", l.name)
	return w, nil
}

func (l *gcsLocation) NewReader(ctx context.Context) (io.ReadCloser, error) {
	r, err := l.object.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gcs snapshot: %w", err)
	}
	return r, nil
}

func (l *gcsLocation) Close() error {
	return l.client.Close()
}

func (l *gcsLocation) String() string {
	return gcsScheme + l.bucket + "/" + l.name
}
