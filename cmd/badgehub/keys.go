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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/public-awesome/badges/keystore"
)

func keysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage claim signing keys",
	}
	cmd.AddCommand(keysGenerateCommand())
	cmd.AddCommand(keysListCommand())
	cmd.AddCommand(keysSignCommand())
	cmd.AddCommand(keysPubkeyCommand())
	return cmd
}

// loadKeyStore opens the configured key directory
func loadKeyStore(cmd *cobra.Command) *keystore.KeyStore {
	cfg := configFromCommand(cmd)
	logger := commonRun(os.Stderr)
	ks := keystore.NewKeyStore(keystore.KeyStoreConfig{
		Dir:    cfg.KeyDir,
		Logger: logger,
	})
	if _, err := ks.LoadDir(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	return ks
}

func keysGenerateCommand() *cobra.Command {
	var count int
	var description string
	var encrypt bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate claim keys for a by_keys badge",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			logger := commonRun(os.Stderr)
			if err := os.MkdirAll(cfg.KeyDir, 0o700); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			ks := keystore.NewKeyStore(keystore.KeyStoreConfig{
				Dir:     cfg.KeyDir,
				Logger:  logger,
				Encrypt: encrypt || cfg.KeyEncrypt,
			})
			pubkeys, err := ks.Generate(count, description)
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			// The output can be used as the keys of an add_keys message
			if err := printJSON(cmd.OutOrStdout(), pubkeys); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of keys to generate")
	cmd.Flags().StringVar(&description, "description", "", "description stored in the key files")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "SOPS encrypt signing key files with the KMS keys from the environment")
	return cmd
}

func keysListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the public keys in the key directory",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ks := loadKeyStore(cmd)
			if err := printJSON(cmd.OutOrStdout(), ks.Pubkeys()); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
}

func keysSignCommand() *cobra.Command {
	var badgeID uint64
	var pubkey string
	cmd := &cobra.Command{
		Use:   "sign <owner>...",
		Short: "Sign claims allowing owners to mint a badge",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ks := loadKeyStore(cmd)
			var ret any
			var err error
			if pubkey != "" {
				if len(args) != 1 {
					slog.Error("--pubkey signs a claim for a single owner")
					os.Exit(1)
				}
				ret, err = ks.SignClaim(pubkey, badgeID, args[0])
			} else {
				ret, err = ks.SignClaims(badgeID, args)
			}
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			if err := printJSON(cmd.OutOrStdout(), ret); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().Uint64Var(&badgeID, "badge-id", 0, "badge to sign claims for")
	cmd.Flags().StringVar(&pubkey, "pubkey", "", "sign with this key instead of one key per owner")
	_ = cmd.MarkFlagRequired("badge-id")
	return cmd
}

func keysPubkeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey <key-file>",
		Short: "Print the public key stored in a key file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pubkey, err := keystore.ReadPubkeyFile(args[0])
			if err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pubkey)
		},
	}
}
