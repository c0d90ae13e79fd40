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

package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	sopsapi "github.com/getsops/sops/v3"
	"github.com/getsops/sops/v3/aes"
	scommon "github.com/getsops/sops/v3/cmd/sops/common"
	"github.com/getsops/sops/v3/config"
	"github.com/getsops/sops/v3/decrypt"
	"github.com/getsops/sops/v3/gcpkms"
	skeys "github.com/getsops/sops/v3/keys"
	awskms "github.com/getsops/sops/v3/kms"
	jsonstore "github.com/getsops/sops/v3/stores/json"
	"github.com/getsops/sops/v3/version"
)

// Environment variables naming the KMS master keys used to encrypt signing
// key files
const (
	EnvGcpKmsResourceID = "BADGEHUB_GCP_KMS_RESOURCE_ID"
	EnvAwsKmsKeyArns    = "BADGEHUB_AWS_KMS_KEY_ARNS"
	EnvAwsKmsProfile    = "BADGEHUB_AWS_KMS_PROFILE"
)

var ErrNoMasterKey = errors.New(
	"encrypting key files requires at least one master key: set " +
		EnvGcpKmsResourceID + " and/or " + EnvAwsKmsKeyArns,
)

// isEncrypted reports whether data is a SOPS encrypted document
func isEncrypted(data []byte) bool {
	var tmp struct {
		Sops json.RawMessage `json:"sops"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return false
	}
	return len(tmp.Sops) > 0
}

func decryptKeyFile(data []byte) ([]byte, error) {
	ret, err := decrypt.Data(data, "binary")
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key file: %w", err)
	}
	return ret, nil
}

func encryptKeyFile(data []byte) ([]byte, error) {
	keyGroups, err := masterKeyGroupsFromEnv()
	if err != nil {
		return nil, err
	}
	storeConfig := &config.JSONBinaryStoreConfig{}
	input := jsonstore.NewBinaryStore(storeConfig)
	output := jsonstore.NewBinaryStore(storeConfig)

	branches, err := input.LoadPlainFile(data)
	if err != nil {
		return nil, fmt.Errorf("error loading key file: %w", err)
	}
	tree := sopsapi.Tree{Branches: branches}
	tree.Metadata = sopsapi.Metadata{
		KeyGroups: keyGroups,
		Version:   version.Version,
	}
	dataKey, errs := tree.GenerateDataKey()
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed generating data key: %v", errs)
	}
	if err := scommon.EncryptTree(scommon.EncryptTreeOpts{
		DataKey: dataKey,
		Tree:    &tree,
		Cipher:  aes.NewCipher(),
	}); err != nil {
		return nil, fmt.Errorf("failed to encrypt key file: %w", err)
	}
	encrypted, err := output.EmitEncryptedFile(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to emit encrypted key file: %w", err)
	}
	return encrypted, nil
}

func masterKeyGroupsFromEnv() ([]sopsapi.KeyGroup, error) {
	keyGroups := []sopsapi.KeyGroup{}

	if rid := os.Getenv(EnvGcpKmsResourceID); rid != "" {
		keys := []skeys.MasterKey{}
		for _, k := range gcpkms.MasterKeysFromResourceIDString(rid) {
			keys = append(keys, k)
		}
		if len(keys) > 0 {
			keyGroups = append(keyGroups, keys)
		}
	}

	if arns := os.Getenv(EnvAwsKmsKeyArns); arns != "" {
		keys := []skeys.MasterKey{}
		profile := os.Getenv(EnvAwsKmsProfile)
		for _, k := range awskms.MasterKeysFromArnString(arns, nil, profile) {
			keys = append(keys, k)
		}
		if len(keys) > 0 {
			keyGroups = append(keyGroups, keys)
		}
	}

	if len(keyGroups) == 0 {
		return nil, ErrNoMasterKey
	}
	return keyGroups, nil
}
