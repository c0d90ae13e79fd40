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

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/public-awesome/badges"
	"github.com/public-awesome/badges/internal/config"
	"github.com/public-awesome/badges/snapshot"
)

func snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import registry state snapshots",
		Long: "Snapshot locations are a local path, gcs://<bucket>/<object> or " +
			"s3://<bucket>/<key>. Snapshots hold registry state but not the " +
			"operation journal.",
	}
	cmd.AddCommand(snapshotExportCommand())
	cmd.AddCommand(snapshotImportCommand())
	return cmd
}

type snapshotResult struct {
	Location string `json:"location"`
	Height   uint64 `json:"height"`
}

func openSnapshotLocation(
	ctx context.Context,
	cfg *config.Config,
	target string,
) (snapshot.Location, error) {
	return snapshot.Open(ctx, target, snapshot.Config{
		GcsCredentialsFile: cfg.GcsCredentialsFile,
		AwsRegion:          cfg.AwsRegion,
	})
}

func snapshotExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <location>",
		Short: "Write the registry state to a snapshot",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runWithNode(cmd, func(ctx context.Context, cfg *config.Config, n *badges.Node) (any, error) {
				loc, err := openSnapshotLocation(ctx, cfg, args[0])
				if err != nil {
					return nil, err
				}
				defer loc.Close()
				height, err := n.Height(ctx)
				if err != nil {
					return nil, err
				}
				writeCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				w, err := loc.NewWriter(writeCtx)
				if err != nil {
					return nil, err
				}
				if err := n.ExportSnapshot(ctx, w); err != nil {
					// Discard the partial snapshot
					cancel()
					_ = w.Close()
					return nil, err
				}
				if err := w.Close(); err != nil {
					return nil, fmt.Errorf("failed to finish snapshot: %w", err)
				}
				return snapshotResult{Location: loc.String(), Height: height}, nil
			})
		},
	}
}

func snapshotImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <location>",
		Short: "Load registry state from a snapshot into an empty database",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runWithNode(cmd, func(ctx context.Context, cfg *config.Config, n *badges.Node) (any, error) {
				loc, err := openSnapshotLocation(ctx, cfg, args[0])
				if err != nil {
					return nil, err
				}
				defer loc.Close()
				r, err := loc.NewReader(ctx)
				if err != nil {
					return nil, err
				}
				defer r.Close()
				if err := n.ImportSnapshot(ctx, r); err != nil {
					return nil, err
				}
				height, err := n.Height(ctx)
				if err != nil {
					return nil, err
				}
				return snapshotResult{Location: loc.String(), Height: height}, nil
			})
		},
	}
}
