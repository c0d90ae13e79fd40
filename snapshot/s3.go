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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type s3Location struct {
	client *s3.Client
	logger *slog.Logger
	bucket string
	key    string
}

func newS3Location(
	ctx context.Context,
	bucket string,
	key string,
	cfg Config,
) (*s3Location, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 snapshot: load default AWS config: %w", err)
	}
	if cfg.AwsRegion != "" {
		awsCfg.Region = cfg.AwsRegion
	}
	return &s3Location{
		client: s3.NewFromConfig(awsCfg),
		logger: cfg.Logger.With("component", "snapshot", "bucket", bucket),
		bucket: bucket,
		key:    key,
	}, nil
}

// s3Writer streams the snapshot to a multipart upload running in the
// background
type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

func (l *s3Location) NewWriter(ctx context.Context) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	uploader := manager.NewUploader(l.client)
	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(l.bucket),
			Key:         aws.String(l.key),
			Body:        pr,
			ContentType: aws.String("application/octet-stream"),
		})
		if err != nil {
			err = fmt.Errorf("s3 snapshot: upload failed: %w", err)
		}
		// Unblock any pending Write
		_ = pr.CloseWithError(err)
		w.done <- err
	}()
	l.logger.Debug("writing snapshot object", "key", l.key)
	return w, nil
}

func (l *s3Location) NewReader(ctx context.Context) (io.ReadCloser, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 snapshot: %w", err)
	}
	return out.Body, nil
}

func (l *s3Location) Close() error {
	return nil
}

func (l *s3Location) String() string {
	return s3Scheme + l.bucket + "/" + l.key
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
