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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/public-awesome/badges"
	"github.com/public-awesome/badges/hub"
	"github.com/public-awesome/badges/internal/config"
	"github.com/public-awesome/badges/internal/node"
	"github.com/public-awesome/badges/response"
)

// runWithNode opens the node, runs fn and prints its result as JSON
func runWithNode(
	cmd *cobra.Command,
	fn func(context.Context, *config.Config, *badges.Node) (any, error),
) {
	cfg := configFromCommand(cmd)
	logger := commonRun(os.Stderr)
	n, err := node.Open(cfg, logger)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	ret, err := fn(cmd.Context(), cfg, n)
	if stopErr := n.Stop(); stopErr != nil {
		err = errors.Join(err, stopErr)
	}
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	if err := printJSON(cmd.OutOrStdout(), ret); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readMsg decodes a JSON message given inline, as @file or as - for stdin
func readMsg(arg string, dest any) error {
	var data []byte
	var err error
	switch {
	case arg == "-":
		data, err = io.ReadAll(os.Stdin)
	case strings.HasPrefix(arg, "@"):
		data, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		data = []byte(arg)
	}
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// parseCoins parses a comma separated list of coins such as "100ustars"
func parseCoins(input string) ([]response.Coin, error) {
	var ret []response.Coin
	if input == "" {
		return ret, nil
	}
	for part := range strings.SplitSeq(input, ",") {
		part = strings.TrimSpace(part)
		idx := strings.IndexFunc(part, func(r rune) bool {
			return r < '0' || r > '9'
		})
		if idx <= 0 {
			return nil, fmt.Errorf("invalid coin %q", part)
		}
		amount, err := strconv.ParseUint(part[:idx], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coin %q: %w", part, err)
		}
		ret = append(ret, response.Coin{Denom: part[idx:], Amount: amount})
	}
	return ret, nil
}

func initCommand() *cobra.Command {
	var developer string
	var nftInfo response.CollectionInfo
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Instantiate the registry",
		Run: func(cmd *cobra.Command, args []string) {
			runWithNode(cmd, func(ctx context.Context, cfg *config.Config, n *badges.Node) (any, error) {
				if developer == "" {
					developer = cfg.Developer
				}
				rate, err := cfg.FeeRate()
				if err != nil {
					return nil, err
				}
				if nftInfo.Creator == "" {
					nftInfo.Creator = developer
				}
				return n.Instantiate(ctx, developer, hub.InstantiateMsg{
					NftCodeID: cfg.NftCodeID,
					NftInfo:   nftInfo,
					FeeRate:   rate,
				})
			})
		},
	}
	cmd.Flags().StringVar(&developer, "developer", "", "developer address (defaults to the configured developer)")
	cmd.Flags().StringVar(&nftInfo.Creator, "nft-creator", "", "creator of the NFT collection (defaults to the developer)")
	cmd.Flags().StringVar(&nftInfo.Description, "nft-description", "", "description of the NFT collection")
	cmd.Flags().StringVar(&nftInfo.Image, "nft-image", "", "image of the NFT collection")
	cmd.Flags().StringVar(&nftInfo.ExternalLink, "nft-external-link", "", "external link of the NFT collection")
	return cmd
}

func execCommand() *cobra.Command {
	var sender, funds string
	cmd := &cobra.Command{
		Use:   "exec <msg>",
		Short: "Execute a registry operation (JSON inline, @file or - for stdin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var msg hub.ExecuteMsg
			if err := readMsg(args[0], &msg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			coins, err := parseCoins(funds)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			runWithNode(cmd, func(ctx context.Context, _ *config.Config, n *badges.Node) (any, error) {
				return n.Execute(ctx, sender, coins, msg)
			})
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "", "sender address")
	cmd.Flags().StringVar(&funds, "funds", "", "coins sent with the operation, e.g. 1000ustars")
	_ = cmd.MarkFlagRequired("sender")
	return cmd
}

func replyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reply <nft-address>",
		Short: "Report the address of the deployed NFT sub-ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runWithNode(cmd, func(ctx context.Context, _ *config.Config, n *badges.Node) (any, error) {
				return n.Reply(ctx, hub.ReplyMsg{ID: 1, ContractAddress: args[0]})
			})
		},
	}
	return cmd
}

func sudoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sudo <msg>",
		Short: "Run a privileged operation (JSON inline, @file or - for stdin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var msg hub.SudoMsg
			if err := readMsg(args[0], &msg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			runWithNode(cmd, func(ctx context.Context, _ *config.Config, n *badges.Node) (any, error) {
				return n.Sudo(ctx, msg)
			})
		},
	}
	return cmd
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade registry state written by an earlier version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runWithNode(cmd, func(ctx context.Context, _ *config.Config, n *badges.Node) (any, error) {
				return n.Migrate(ctx)
			})
		},
	}
}

func queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <msg>",
		Short: "Run a read-only query (JSON inline, @file or - for stdin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var msg hub.QueryMsg
			if err := readMsg(args[0], &msg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			runWithNode(cmd, func(ctx context.Context, _ *config.Config, n *badges.Node) (any, error) {
				return n.Query(ctx, msg)
			})
		},
	}
}
